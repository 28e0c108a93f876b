// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fingertipsgo/internal/logging"
)

// captureLogs redirects the global logger into a buffer for warning
// assertions. Restores the previous logger on cleanup.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	original := logging.Logger()
	logging.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { logging.SetLogger(original) })
	return &buf
}

func TestFetchDataNoSelector(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{})
	if !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("err = %v, want ErrInvalidSelector", err)
	}
	if len(fx.recorded()) != 0 {
		t.Errorf("no requests should be made for an empty selector, got %v", fx.recorded())
	}
}

func TestFetchDataMismatchedLength(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362, 90366},
		ProfileID:   []int{19},
	})
	if !errors.Is(err, ErrMismatchedLength) {
		t.Fatalf("err = %v, want ErrMismatchedLength", err)
	}
	if len(fx.recorded()) != 0 {
		t.Errorf("validation must fail before any request, got %v", fx.recorded())
	}
}

func TestFetchDataEmptyAreaTypeID(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaTypeID:  []int{},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestFetchDataInvalidAreaType(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaTypeID:  []int{999},
	})
	if !errors.Is(err, ErrInvalidAreaType) {
		t.Fatalf("err = %v, want ErrInvalidAreaType", err)
	}
	// Validation failures must cost no bulk retrieval.
	if n := fx.countRequests("all_data"); n != 0 {
		t.Errorf("bulk requests before validation passed: %d", n)
	}
}

func TestFetchDataNationwideSentinelAreaType(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaTypeID:  []int{AreaTypeEngland},
	})
	if err != nil {
		t.Fatalf("sentinel area type must be accepted: %v", err)
	}
	if f.Len() == 0 {
		t.Error("expected rows for sentinel area type")
	}
	// An area type missing from the reference table rolls up to itself.
	if n := fx.countRequests("child_area_type_id=15&indicator_ids=90362&parent_area_type_id=15"); n != 1 {
		t.Errorf("sentinel pair request count = %d, requests: %v", n, fx.recorded())
	}
}

func TestFetchDataInvalidAreaCode(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaCode:    []string{"E06000001", "X99000099"},
	})
	if !errors.Is(err, ErrInvalidAreaCode) {
		t.Fatalf("err = %v, want ErrInvalidAreaCode", err)
	}
	if n := fx.countRequests("all_data"); n != 0 {
		t.Errorf("bulk requests before validation passed: %d", n)
	}
}

func TestFetchDataNationwideAreaCodeAlwaysValid(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaCode:    []string{AreaCodeEngland},
	})
	if err != nil {
		t.Fatalf("nationwide area code must be accepted: %v", err)
	}
	for r := 0; r < f.Len(); r++ {
		if got := f.Cell(r, "AreaCode"); got != AreaCodeEngland {
			t.Errorf("row %d AreaCode = %q, want only %q", r, got, AreaCodeEngland)
		}
	}
}

func TestFetchDataDomainIgnoredWithWarning(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)
	logs := captureLogs(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		DomainID:    []int{1000049},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	if !strings.Contains(logs.String(), "DomainID ignored") {
		t.Error("expected DomainID-ignored warning")
	}
	if n := fx.countRequests("by_group_id"); n != 0 {
		t.Errorf("domain retrieval must not run when IndicatorID is present, got %d", n)
	}
	if n := fx.countRequests("by_indicator_id"); n == 0 {
		t.Error("expected indicator retrieval")
	}
}

func TestFetchDataProfileIgnoredWithWarning(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)
	logs := captureLogs(t)

	_, err := c.FetchData(context.Background(), Query{
		DomainID:  []int{1000049},
		ProfileID: []int{19},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	if !strings.Contains(logs.String(), "ProfileID ignored") {
		t.Error("expected ProfileID-ignored warning")
	}
	if n := fx.countRequests("by_group_id"); n == 0 {
		t.Error("expected domain retrieval")
	}
}

func TestFetchDataByIndicatorDefaults(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{IndicatorID: []int{90362, 90366}})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	// Column names are whitespace-stripped.
	for _, col := range []string{"IndicatorID", "AreaCode", "Timeperiod", "CategoryType"} {
		if !f.HasColumn(col) {
			t.Errorf("missing normalized column %q in %v", col, f.Columns())
		}
	}

	// Default area type 102 with its first-seen parent, region (6).
	if n := fx.countRequests("child_area_type_id=102&indicator_ids=90362%2C90366&parent_area_type_id=6"); n != 1 {
		t.Errorf("default pair request count = %d, requests: %v", n, fx.recorded())
	}

	// Category rows are dropped by default.
	for r := 0; r < f.Len(); r++ {
		if !f.Missing(r, "CategoryType") {
			t.Errorf("row %d has CategoryType %q with CategoryType=false", r, f.Cell(r, "CategoryType"))
		}
	}
	// 5 non-category rows per indicator.
	if f.Len() != 10 {
		t.Errorf("Len = %d, want 10", f.Len())
	}
}

func TestFetchDataCategoryTypeRetained(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{
		IndicatorID:  []int{90362},
		CategoryType: true,
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	categoryRows := 0
	for r := 0; r < f.Len(); r++ {
		if !f.Missing(r, "CategoryType") {
			categoryRows++
		}
	}
	if categoryRows != 1 {
		t.Errorf("category rows = %d, want 1", categoryRows)
	}
}

func TestFetchDataAreaCodeFilter(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	want := map[string]bool{"E06000001": true, "E06000003": true}
	f, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaCode:    []string{"E06000001", "E06000003"},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	if f.Len() == 0 {
		t.Fatal("expected filtered rows")
	}
	for r := 0; r < f.Len(); r++ {
		if code := f.Cell(r, "AreaCode"); !want[code] {
			t.Errorf("row %d AreaCode = %q, outside requested set", r, code)
		}
	}
}

func TestFetchDataRank(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		Rank:        true,
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	byArea := make(map[string]int)
	for r := 0; r < f.Len(); r++ {
		byArea[f.Cell(r, "AreaCode")] = r
	}

	// Values 75.3, 75.3, 77.0, 79.1 and one missing: tied pair shares the
	// mean of ranks 1 and 2.
	tests := []struct {
		area string
		rank string
	}{
		{"E06000001", "1.5"},
		{"E06000002", "1.5"},
		{"E92000001", "3"},
		{"E06000003", "4"},
	}
	for _, tt := range tests {
		r, ok := byArea[tt.area]
		if !ok {
			t.Fatalf("area %s missing from result", tt.area)
		}
		if got := f.Cell(r, "Rank"); got != tt.rank {
			t.Errorf("%s Rank = %q, want %q", tt.area, got, tt.rank)
		}
		if got := f.Cell(r, "AreaValuesCount"); got != "4" {
			t.Errorf("%s AreaValuesCount = %q, want 4", tt.area, got)
		}
	}

	// The missing value is ranked last: no rank of its own, same count.
	missing := byArea["E06000004"]
	if !f.Missing(missing, "Rank") {
		t.Errorf("missing Value row has Rank %q, want missing", f.Cell(missing, "Rank"))
	}
	if got := f.Cell(missing, "AreaValuesCount"); got != "4" {
		t.Errorf("missing Value row AreaValuesCount = %q, want 4", got)
	}

	// A single polarity joins back even though 90362 repeats across
	// profiles in the metadata; ranking stays ascending on raw Value.
	for r := 0; r < f.Len(); r++ {
		if got := f.Cell(r, "Polarity"); got != "RAG - High is good" {
			t.Errorf("row %d Polarity = %q, want first-seen polarity", r, got)
		}
	}
}

func TestFetchDataByDomain(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{DomainID: []int{1000049}})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if f.Len() == 0 {
		t.Error("expected rows from domain retrieval")
	}
	if n := fx.countRequests("by_group_id?child_area_type_id=102&group_id=1000049&parent_area_type_id=6"); n != 1 {
		t.Errorf("domain request count = %d, requests: %v", n, fx.recorded())
	}
}

func TestFetchDataByProfile(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{ProfileID: []int{19}})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if f.Len() == 0 {
		t.Error("expected rows from profile retrieval")
	}
	if n := fx.countRequests("by_profile_id?child_area_type_id=102&parent_area_type_id=6&profile_id=19"); n != 1 {
		t.Errorf("profile request count = %d, requests: %v", n, fx.recorded())
	}
}

func TestFetchDataPairedIndicatorProfile(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362, 90366},
		ProfileID:   []int{19, 26},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	// One request per positional pair.
	if n := fx.countRequests("indicator_ids=90362&parent_area_type_id=6&profile_id=19"); n != 1 {
		t.Errorf("pair (90362, 19) request count = %d, requests: %v", n, fx.recorded())
	}
	if n := fx.countRequests("indicator_ids=90366&parent_area_type_id=6&profile_id=26"); n != 1 {
		t.Errorf("pair (90366, 26) request count = %d, requests: %v", n, fx.recorded())
	}
}

func TestFetchDataInvalidParentWarnsAndProceeds(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)
	logs := captureLogs(t)

	f, err := c.FetchData(context.Background(), Query{
		IndicatorID:      []int{90362},
		ParentAreaTypeID: []int{7},
	})
	if err != nil {
		t.Fatalf("a mismatched parent hierarchy must not fail: %v", err)
	}
	if f.Len() == 0 {
		t.Error("expected rows despite parent warning")
	}
	if !strings.Contains(logs.String(), "not a valid parent") {
		t.Error("expected parent-hierarchy warning")
	}
	if n := fx.countRequests("parent_area_type_id=7"); n != 1 {
		t.Errorf("requested parent must be used as given, got requests: %v", fx.recorded())
	}
}

func TestFetchDataValidParentNoWarning(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)
	logs := captureLogs(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID:      []int{90362},
		ParentAreaTypeID: []int{6},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if strings.Contains(logs.String(), "not a valid parent") {
		t.Error("unexpected warning for a valid parent mapping")
	}
}

func TestFetchDataIdempotent(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	q := Query{IndicatorID: []int{90362, 90366}, Rank: true}
	first, err := c.FetchData(context.Background(), q)
	if err != nil {
		t.Fatalf("first FetchData: %v", err)
	}
	second, err := c.FetchData(context.Background(), q)
	if err != nil {
		t.Fatalf("second FetchData: %v", err)
	}
	if !first.Equal(second) {
		t.Error("identical queries against unchanged data must yield identical frames")
	}
}

func TestFetchDataCategoricalOption(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	f, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		Categorical: true,
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	levels := f.Levels("Sex")
	if len(levels) != 1 || levels[0] != "Male" {
		t.Errorf("Sex levels = %v, want [Male]", levels)
	}
}

func TestFetchDataMultipleAreaTypes(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaTypeID:  []int{102, 101},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	// One request per area type, each with its own first-seen parent.
	if n := fx.countRequests("child_area_type_id=102&indicator_ids=90362&parent_area_type_id=6"); n != 1 {
		t.Errorf("area type 102 pair missing, requests: %v", fx.recorded())
	}
	if n := fx.countRequests("child_area_type_id=101&indicator_ids=90362&parent_area_type_id=102"); n != 1 {
		t.Errorf("area type 101 pair missing, requests: %v", fx.recorded())
	}
}

func TestFetchDataAreaCodeLookupsSequentialUnion(t *testing.T) {
	fx := newAPIFixture(t)
	c := fx.client(t)

	// E07000008 only exists under area type 101; the union across both
	// requested types must accept it.
	_, err := c.FetchData(context.Background(), Query{
		IndicatorID: []int{90362},
		AreaTypeID:  []int{102, 101},
		AreaCode:    []string{"E06000001", "E07000008"},
	})
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	if n := fx.countRequests("by_area_type_id?area_type_id=102"); n != 1 {
		t.Errorf("area code lookup for 102 count = %d", n)
	}
	if n := fx.countRequests("by_area_type_id?area_type_id=101"); n != 1 {
		t.Errorf("area code lookup for 101 count = %d", n)
	}
}
