// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package frame

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses CSV data into a Frame. The first record is the header.
// Records are allowed to vary in quoting but not in field count; the
// Fingertips bulk endpoints emit rectangular CSV.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header record")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	f, err := New(header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}
		if err := f.AppendRow(record); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteCSV writes the Frame as CSV with a header record.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.cols); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for r := range f.rows {
		if err := cw.Write(f.rows[r]); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
