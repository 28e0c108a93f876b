// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package chart builds chart data from fetched frames and renders it as SVG.
//
// The typical use is plotting indicator values against deprivation scores
// after joining FetchData output with a DeprivationDecile frame on AreaCode:
// one point per area, one series per indicator.
package chart

import (
	"fmt"

	"github.com/tomtom215/fingertipsgo/frame"
)

// Point is one chart observation.
type Point struct {
	X     float64
	Y     float64
	Label string
}

// Series is a named group of points, rendered in one color.
type Series struct {
	Name   string
	Points []Point
}

// FromFrame builds chart series from a frame. Each distinct value of
// seriesCol becomes one series, in first-seen order; xCol and yCol supply the
// coordinates and labelCol (optional, may be empty) the point labels. Rows
// with a missing or unparseable coordinate are skipped.
func FromFrame(f *frame.Frame, xCol, yCol, seriesCol, labelCol string) ([]Series, error) {
	for _, col := range []string{xCol, yCol, seriesCol} {
		if !f.HasColumn(col) {
			return nil, fmt.Errorf("frame has no column %q", col)
		}
	}

	index := make(map[string]int)
	var series []Series
	for _, name := range f.Levels(seriesCol) {
		index[name] = len(series)
		series = append(series, Series{Name: name})
	}

	for r := 0; r < f.Len(); r++ {
		x, okX := f.Float(r, xCol)
		y, okY := f.Float(r, yCol)
		if !okX || !okY {
			continue
		}
		i, ok := index[f.Cell(r, seriesCol)]
		if !ok {
			continue
		}
		p := Point{X: x, Y: y}
		if labelCol != "" {
			p.Label = f.Cell(r, labelCol)
		}
		series[i].Points = append(series[i].Points, p)
	}
	return series, nil
}
