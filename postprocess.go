// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/tomtom215/fingertipsgo/frame"
)

// rankGroupColumns key the ranking computation: one rank ordering per
// distinct combination of these values.
var rankGroupColumns = []string{
	"IndicatorID", "Timeperiod", "Sex", "Age", "CategoryType", "Category", "AreaType",
}

// postProcess reshapes a freshly fetched frame. The step order matters:
// ranks are computed on the full result before the AreaCode and category
// filters narrow it, so a filtered view keeps its ranks relative to the
// complete comparator group.
func (c *Client) postProcess(ctx context.Context, f *frame.Frame, q Query, plan *fetchPlan) (*frame.Frame, error) {
	// 1. Strip whitespace from column names: "Time period" -> "Timeperiod".
	if err := f.RenameColumns(stripWhitespace); err != nil {
		return nil, err
	}

	// 2. Polarity join and within-group ranking.
	if q.Rank {
		ranked, err := c.applyRank(ctx, f)
		if err != nil {
			return nil, err
		}
		f = ranked
	}

	// 3. AreaCode restriction.
	if plan.areaCodes != nil {
		src := f
		f = src.Filter(func(r int) bool { return plan.areaCodes[src.Cell(r, "AreaCode")] })
	}

	// 4. Category rows. Empty cells are already the missing value in a frame,
	// so only the CategoryType restriction applies here.
	if f.Len() > 0 && !q.CategoryType {
		src := f
		f = src.Filter(func(r int) bool { return src.Missing(r, "CategoryType") })
	}

	// 5. Optional categorical representation.
	if q.Categorical {
		f.Factorize()
	}

	return f, nil
}

// stripWhitespace removes every whitespace rune from a column name.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// applyRank joins indicator polarity onto the frame and computes, within each
// group sharing rankGroupColumns, an ascending rank of Value with average
// ranks for ties, plus AreaValuesCount: the non-missing Value count of the
// group. Missing values sort after every ranked row and receive no rank of
// their own. Polarity is fetched and carried for downstream interpretation;
// the ordering is always on raw Value.
func (c *Client) applyRank(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if f.Len() == 0 {
		// Keep the shape stable for empty results.
		for _, col := range []string{"Polarity", "Rank", "AreaValuesCount"} {
			if err := f.AppendColumn(col, nil); err != nil {
				return nil, err
			}
		}
		return f, nil
	}

	metadata, err := c.IndicatorMetadata(ctx, distinctIndicatorIDs(f))
	if err != nil {
		return nil, err
	}

	// The metadata may repeat an indicator across profiles; LeftJoin keeps
	// the first polarity seen, so each output row joins back a single value.
	polarity, err := frame.New([]string{"IndicatorID", "Polarity"})
	if err != nil {
		return nil, err
	}
	for _, m := range metadata {
		if err := polarity.AppendRow([]string{strconv.Itoa(m.IndicatorID), m.Polarity}); err != nil {
			return nil, err
		}
	}

	joined, err := f.LeftJoin(polarity, "IndicatorID")
	if err != nil {
		return nil, err
	}
	f = joined

	groups := make(map[string][]int)
	for r := 0; r < f.Len(); r++ {
		key := groupKey(f, r)
		groups[key] = append(groups[key], r)
	}

	rankCol := make([]string, f.Len())
	countCol := make([]string, f.Len())

	for _, rows := range groups {
		type entry struct {
			row   int
			value float64
		}
		var entries []entry
		for _, r := range rows {
			if v, ok := f.Float(r, "Value"); ok {
				entries = append(entries, entry{row: r, value: v})
			}
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].value < entries[j].value })

		// Average rank for ties: a run of equal values spanning positions
		// i..j (zero-based) shares the mean of ranks i+1..j+1.
		i := 0
		for i < len(entries) {
			j := i
			for j+1 < len(entries) && entries[j+1].value == entries[i].value {
				j++
			}
			shared := formatRank(float64(i+j+2) / 2)
			for k := i; k <= j; k++ {
				rankCol[entries[k].row] = shared
			}
			i = j + 1
		}

		count := strconv.Itoa(len(entries))
		for _, r := range rows {
			countCol[r] = count
		}
	}

	if err := f.AppendColumn("Rank", rankCol); err != nil {
		return nil, err
	}
	if err := f.AppendColumn("AreaValuesCount", countCol); err != nil {
		return nil, err
	}
	return f, nil
}

// distinctIndicatorIDs extracts the distinct indicator IDs present in the
// frame, in first-seen order.
func distinctIndicatorIDs(f *frame.Frame) []int {
	var ids []int
	for _, level := range f.Levels("IndicatorID") {
		id, err := strconv.Atoi(strings.TrimSpace(level))
		if err != nil {
			continue // Non-numeric indicator cells cannot be looked up
		}
		ids = append(ids, id)
	}
	return ids
}

// groupKey builds the composite ranking key for one row. Columns absent from
// the frame contribute the missing value, so partial extracts still group.
func groupKey(f *frame.Frame, row int) string {
	parts := make([]string, len(rankGroupColumns))
	for i, col := range rankGroupColumns {
		parts[i] = f.Cell(row, col)
	}
	return strings.Join(parts, "\x1f")
}

// formatRank renders a rank, keeping halves from tie averaging: "3", "2.5".
func formatRank(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
