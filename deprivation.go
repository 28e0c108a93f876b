// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/tomtom215/fingertipsgo/frame"
)

// imdIndicatorByYear maps an Index of Multiple Deprivation release year to
// the indicator that carries its scores.
var imdIndicatorByYear = map[int]int{
	2015: 91872,
	2019: 93275,
}

// deprivationAreaTypes lists the geographies the IMD indicators cover.
var deprivationAreaTypes = map[int]bool{
	7:   true, // General practice
	101: true, // District & UA
	102: true, // County & UA
}

// DeprivationDecile fetches IMD scores for the given geography and release
// year and assigns each area a deprivation decile. Decile 1 is the most
// deprived tenth of areas (highest IMD scores), decile 10 the least.
//
// The returned frame has columns AreaCode, IMDscore and decile, one row per
// area with a published score. Join it against FetchData output on AreaCode.
func (c *Client) DeprivationDecile(ctx context.Context, areaTypeID, year int) (*frame.Frame, error) {
	indicatorID, ok := imdIndicatorByYear[year]
	if !ok {
		return nil, fmt.Errorf("%w: no IMD release for year %d", ErrInvalidArgument, year)
	}
	if !deprivationAreaTypes[areaTypeID] {
		return nil, fmt.Errorf("%w: IMD scores are not published for area type %d", ErrInvalidArgument, areaTypeID)
	}

	data, err := c.FetchData(ctx, Query{
		IndicatorID: []int{indicatorID},
		AreaTypeID:  []int{areaTypeID},
	})
	if err != nil {
		return nil, err
	}

	// One score per area: first seen wins, England's summary row is dropped.
	type scored struct {
		code  string
		score float64
	}
	seen := make(map[string]bool)
	var areas []scored
	for r := 0; r < data.Len(); r++ {
		code := data.Cell(r, "AreaCode")
		if code == "" || code == AreaCodeEngland || seen[code] {
			continue
		}
		score, ok := data.Float(r, "Value")
		if !ok {
			continue
		}
		seen[code] = true
		areas = append(areas, scored{code: code, score: score})
	}

	// Decile 1 = most deprived: rank scores ascending into ten near-equal
	// buckets (larger buckets first), then invert.
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].score < areas[j].score })
	buckets := ntile(len(areas), 10)

	out, err := frame.New([]string{"AreaCode", "IMDscore", "decile"})
	if err != nil {
		return nil, err
	}
	for i, a := range areas {
		decile := 11 - buckets[i]
		row := []string{
			a.code,
			strconv.FormatFloat(a.score, 'f', -1, 64),
			strconv.Itoa(decile),
		}
		if err := out.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ntile assigns n sorted positions to k buckets of near-equal size, the
// first n%k buckets holding one extra member. Returns the 1-based bucket
// per position.
func ntile(n, k int) []int {
	out := make([]int, n)
	if n == 0 || k <= 0 {
		return out
	}
	base := n / k
	rem := n % k
	pos := 0
	for bucket := 1; bucket <= k && pos < n; bucket++ {
		size := base
		if bucket <= rem {
			size++
		}
		for i := 0; i < size; i++ {
			out[pos] = bucket
			pos++
		}
	}
	return out
}
