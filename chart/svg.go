// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package chart

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// ScatterOptions configures RenderScatterSVG.
type ScatterOptions struct {
	Title  string
	XLabel string
	YLabel string
	Width  int // Default 800
	Height int // Default 500
}

// seriesPalette cycles per series.
var seriesPalette = []string{
	"#1f77b4", "#d62728", "#2ca02c", "#9467bd", "#ff7f0e", "#8c564b",
}

const scatterMargin = 60.0

// RenderScatterSVG renders the series as a scatter plot SVG document.
// An empty series list renders an empty plot area rather than failing;
// an empty chart is a valid outcome of upstream filtering.
func RenderScatterSVG(w io.Writer, series []Series, opts ScatterOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 800
	}
	height := opts.Height
	if height <= 0 {
		height = 500
	}

	minX, maxX, minY, maxY := bounds(series)
	plotW := float64(width) - 2*scatterMargin
	plotH := float64(height) - 2*scatterMargin

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)

	if opts.Title != "" {
		fmt.Fprintf(&b, `<text x="%d" y="30" text-anchor="middle" font-size="18" font-family="sans-serif">%s</text>`+"\n",
			width/2, escape(opts.Title))
	}

	// Axes
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black"/>`+"\n",
		scatterMargin, float64(height)-scatterMargin, float64(width)-scatterMargin, float64(height)-scatterMargin)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black"/>`+"\n",
		scatterMargin, scatterMargin, scatterMargin, float64(height)-scatterMargin)

	if opts.XLabel != "" {
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-size="13" font-family="sans-serif">%s</text>`+"\n",
			width/2, height-15, escape(opts.XLabel))
	}
	if opts.YLabel != "" {
		fmt.Fprintf(&b, `<text x="18" y="%d" text-anchor="middle" font-size="13" font-family="sans-serif" transform="rotate(-90 18 %d)">%s</text>`+"\n",
			height/2, height/2, escape(opts.YLabel))
	}

	// Axis extent labels
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" font-family="sans-serif">%.4g</text>`+"\n",
		scatterMargin, float64(height)-scatterMargin+20, minX)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" font-family="sans-serif">%.4g</text>`+"\n",
		float64(width)-scatterMargin, float64(height)-scatterMargin+20, maxX)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="11" font-family="sans-serif">%.4g</text>`+"\n",
		scatterMargin-8, float64(height)-scatterMargin, minY)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="11" font-family="sans-serif">%.4g</text>`+"\n",
		scatterMargin-8, scatterMargin+4, maxY)

	// Points
	for si, s := range series {
		color := seriesPalette[si%len(seriesPalette)]
		for _, p := range s.Points {
			px := scatterMargin + scale(p.X, minX, maxX)*plotW
			py := float64(height) - scatterMargin - scale(p.Y, minY, maxY)*plotH
			fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s" fill-opacity="0.7">`, px, py, color)
			if p.Label != "" {
				fmt.Fprintf(&b, `<title>%s</title>`, escape(p.Label))
			}
			b.WriteString("</circle>\n")
		}
	}

	// Legend
	for si, s := range series {
		color := seriesPalette[si%len(seriesPalette)]
		y := scatterMargin + float64(si)*18
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>`+"\n",
			float64(width)-scatterMargin+12, y, color)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" font-family="sans-serif">%s</text>`+"\n",
			float64(width)-scatterMargin+22, y+4, escape(s.Name))
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// bounds returns the coordinate extents over all series, defaulting to the
// unit square when there is nothing to plot.
func bounds(series []Series) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 1, 0, 1
	}
	return minX, maxX, minY, maxY
}

// scale maps v in [min, max] onto [0, 1]; a degenerate extent centers.
func scale(v, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return (v - min) / (max - min)
}

// escape sanitizes text nodes for SVG embedding.
func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
