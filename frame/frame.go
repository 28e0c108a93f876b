// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package frame provides the generic tabular data structure returned by the
// fingertips client.
//
// A Frame is an ordered set of named string columns over row-major cells. A
// missing value is represented by the empty cell; CSV empty fields therefore
// arrive as missing without a separate coercion pass. Numeric access is on
// demand via Float.
//
// Frames are not safe for concurrent mutation. The client produces a fresh
// Frame per call and never shares one across invocations.
package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame is an ordered collection of named string columns.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New creates an empty Frame with the given column names.
// Duplicate column names are rejected.
func New(cols []string) (*Frame, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	return &Frame{
		cols:  append([]string(nil), cols...),
		index: index,
		rows:  nil,
	}, nil
}

// FromRows creates a Frame from column names and row data.
// Every row must have exactly len(cols) cells.
func FromRows(cols []string, rows [][]string) (*Frame, error) {
	f, err := New(cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := f.AppendRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return f, nil
}

// AppendRow adds one row. The row length must match the column count.
func (f *Frame) AppendRow(row []string) error {
	if len(row) != len(f.cols) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(row), len(f.cols))
	}
	f.rows = append(f.rows, append([]string(nil), row...))
	return nil
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Cell returns the cell at (row, col). Returns empty string for an unknown
// column; callers that need to distinguish should check HasColumn first.
func (f *Frame) Cell(row int, col string) string {
	i, ok := f.index[col]
	if !ok || row < 0 || row >= len(f.rows) {
		return ""
	}
	return f.rows[row][i]
}

// SetCell sets the cell at (row, col). Unknown columns and out-of-range rows
// are ignored.
func (f *Frame) SetCell(row int, col, value string) {
	i, ok := f.index[col]
	if !ok || row < 0 || row >= len(f.rows) {
		return
	}
	f.rows[row][i] = value
}

// Missing reports whether the cell at (row, col) is missing.
// The empty cell is the missing value.
func (f *Frame) Missing(row int, col string) bool {
	return f.Cell(row, col) == ""
}

// Float parses the cell at (row, col) as a float64.
// Returns ok=false for missing or unparseable cells.
func (f *Frame) Float(row int, col string) (float64, bool) {
	s := f.Cell(row, col)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Row returns a copy of the row's cells in column order.
// Returns nil for an out-of-range row.
func (f *Frame) Row(row int) []string {
	if row < 0 || row >= len(f.rows) {
		return nil
	}
	return append([]string(nil), f.rows[row]...)
}

// Column returns a copy of the named column's cells.
// Returns nil for an unknown column.
func (f *Frame) Column(name string) []string {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(f.rows))
	for r := range f.rows {
		out[r] = f.rows[r][i]
	}
	return out
}

// RenameColumns applies fn to every column name.
// Renames that would collide with another column are rejected.
func (f *Frame) RenameColumns(fn func(string) string) error {
	renamed := make([]string, len(f.cols))
	index := make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		n := fn(c)
		if _, dup := index[n]; dup {
			return fmt.Errorf("rename collision on column %q", n)
		}
		renamed[i] = n
		index[n] = i
	}
	f.cols = renamed
	f.index = index
	return nil
}

// AppendColumn adds a new column with the given values.
// The value count must match the row count.
func (f *Frame) AppendColumn(name string, values []string) error {
	if _, dup := f.index[name]; dup {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != len(f.rows) {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), len(f.rows))
	}
	f.index[name] = len(f.cols)
	f.cols = append(f.cols, name)
	for r := range f.rows {
		f.rows[r] = append(f.rows[r], values[r])
	}
	return nil
}

// Filter returns a new Frame holding only the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	out := &Frame{
		cols:  append([]string(nil), f.cols...),
		index: make(map[string]int, len(f.index)),
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	for r := range f.rows {
		if keep(r) {
			out.rows = append(out.rows, append([]string(nil), f.rows[r]...))
		}
	}
	return out
}

// LeftJoin appends other's non-key columns to f, matching rows on the named
// key column. When other has multiple rows for a key, the first wins. Rows of
// f with no match receive missing cells.
func (f *Frame) LeftJoin(other *Frame, on string) (*Frame, error) {
	if !f.HasColumn(on) {
		return nil, fmt.Errorf("left frame has no column %q", on)
	}
	if !other.HasColumn(on) {
		return nil, fmt.Errorf("right frame has no column %q", on)
	}

	// First-seen wins for duplicate keys on the right.
	lookup := make(map[string]int, other.Len())
	for r := 0; r < other.Len(); r++ {
		key := other.Cell(r, on)
		if _, seen := lookup[key]; !seen {
			lookup[key] = r
		}
	}

	var joinCols []string
	for _, c := range other.cols {
		if c != on && !f.HasColumn(c) {
			joinCols = append(joinCols, c)
		}
	}

	out := f.Filter(func(int) bool { return true })
	for _, c := range joinCols {
		values := make([]string, f.Len())
		for r := 0; r < f.Len(); r++ {
			if rr, ok := lookup[f.Cell(r, on)]; ok {
				values[r] = other.Cell(rr, c)
			}
		}
		if err := out.AppendColumn(c, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Equal reports whether two frames have identical columns and cells.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || len(f.cols) != len(other.cols) || len(f.rows) != len(other.rows) {
		return false
	}
	for i := range f.cols {
		if f.cols[i] != other.cols[i] {
			return false
		}
	}
	for r := range f.rows {
		for c := range f.rows[r] {
			if f.rows[r][c] != other.rows[r][c] {
				return false
			}
		}
	}
	return true
}

// Factorize interns repeated cell values so duplicate strings share backing
// storage. This is the categorical/enumerated representation: a storage
// optimization for frames dominated by repeated labels, never a correctness
// requirement.
func (f *Frame) Factorize() {
	pool := make(map[string]string)
	for r := range f.rows {
		for c := range f.rows[r] {
			v := f.rows[r][c]
			if interned, ok := pool[v]; ok {
				f.rows[r][c] = interned
			} else {
				pool[v] = v
			}
		}
	}
}

// Levels returns the distinct non-missing values of the named column in
// first-seen order.
func (f *Frame) Levels(col string) []string {
	i, ok := f.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var levels []string
	for r := range f.rows {
		v := f.rows[r][i]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		levels = append(levels, v)
	}
	return levels
}
