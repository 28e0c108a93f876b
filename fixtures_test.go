// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// apiFixture is an httptest-backed stand-in for the Fingertips API. It serves
// a small, stable world: two area types (102 with parents 6 then 15, and 101),
// four counties plus category breakdowns, and indicators 90362/90366.
// Every request is recorded for dispatch assertions.
type apiFixture struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []string
}

// newAPIFixture starts the fixture server. It is closed via t.Cleanup.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	fx := &apiFixture{}
	fx.server = httptest.NewServer(http.HandlerFunc(fx.handle))
	t.Cleanup(fx.server.Close)
	return fx
}

// client returns a Client pointed at the fixture.
func (fx *apiFixture) client(t *testing.T) *Client {
	t.Helper()

	c, err := New(Options{BaseURL: fx.server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// recorded returns the request paths (with query) seen so far.
func (fx *apiFixture) recorded() []string {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return append([]string(nil), fx.requests...)
}

// countRequests returns how many recorded requests contain the substring.
func (fx *apiFixture) countRequests(substr string) int {
	n := 0
	for _, r := range fx.recorded() {
		if strings.Contains(r, substr) {
			n++
		}
	}
	return n
}

func (fx *apiFixture) handle(w http.ResponseWriter, r *http.Request) {
	fx.mu.Lock()
	fx.requests = append(fx.requests, r.URL.Path+"?"+r.URL.RawQuery)
	fx.mu.Unlock()

	switch r.URL.Path {
	case "/area_types/parent_area_types":
		fmt.Fprint(w, `[
			{"Id":102,"Name":"County & UA","ParentAreaTypes":[{"Id":6,"Name":"Region"},{"Id":15,"Name":"England"}]},
			{"Id":101,"Name":"District & UA","ParentAreaTypes":[{"Id":102,"Name":"County & UA"},{"Id":15,"Name":"England"}]}
		]`)

	case "/areas/by_area_type_id":
		switch r.URL.Query().Get("area_type_id") {
		case "102":
			fmt.Fprint(w, `[
				{"Code":"E06000001","Name":"Hartlepool","AreaTypeId":102},
				{"Code":"E06000002","Name":"Middlesbrough","AreaTypeId":102},
				{"Code":"E06000003","Name":"Redcar and Cleveland","AreaTypeId":102},
				{"Code":"E06000004","Name":"Stockton-on-Tees","AreaTypeId":102}
			]`)
		case "101":
			fmt.Fprint(w, `[{"Code":"E07000008","Name":"Cambridge","AreaTypeId":101}]`)
		default:
			fmt.Fprint(w, `[]`)
		}

	case "/indicator_metadata/by_indicator_id":
		ids := r.URL.Query().Get("indicator_ids")
		var entries []string
		for _, id := range strings.Split(ids, ",") {
			switch id {
			case "90362":
				// Duplicated across profiles: the first polarity must win.
				entries = append(entries,
					`{"IndicatorId":90362,"IndicatorName":"Healthy life expectancy at birth - Male","GroupId":1000049,"PolarityId":1,"Polarity":"RAG - High is good"}`,
					`{"IndicatorId":90362,"IndicatorName":"Healthy life expectancy at birth - Male","GroupId":1000041,"PolarityId":0,"Polarity":"RAG - Low is good"}`)
			case "90366":
				entries = append(entries,
					`{"IndicatorId":90366,"IndicatorName":"Life expectancy at birth - Male","GroupId":1000049,"PolarityId":1,"Polarity":"RAG - High is good"}`)
			case "91872":
				entries = append(entries,
					`{"IndicatorId":91872,"IndicatorName":"Deprivation score (IMD 2015)","GroupId":1938132983,"PolarityId":0,"Polarity":"Not applicable"}`)
			}
		}
		fmt.Fprint(w, "["+strings.Join(entries, ",")+"]")

	case "/profiles":
		fmt.Fprint(w, `[
			{"Id":19,"Name":"Public Health Outcomes Framework","Key":"public-health-outcomes-framework","GroupIds":[1000041,1000049]},
			{"Id":26,"Name":"Health Profiles","Key":"health-profiles","GroupIds":[1938132701]}
		]`)

	case "/group_metadata/by_profile_id":
		fmt.Fprint(w, `[
			{"Id":1000041,"Name":"Overarching indicators","ProfileId":19},
			{"Id":1000049,"Name":"Wider determinants of health","ProfileId":19}
		]`)

	case "/indicator_metadata/by_profile_id":
		fmt.Fprint(w, `[
			{"IndicatorId":90362,"IndicatorName":"Healthy life expectancy at birth - Male","GroupId":1000049,"PolarityId":1,"Polarity":"RAG - High is good"},
			{"IndicatorId":90366,"IndicatorName":"Life expectancy at birth - Male","GroupId":1000049,"PolarityId":1,"Polarity":"RAG - High is good"}
		]`)

	case "/all_data/csv/by_indicator_id":
		ids := strings.Split(r.URL.Query().Get("indicator_ids"), ",")
		fmt.Fprint(w, observationsCSV(ids))

	case "/all_data/csv/by_group_id":
		// Domain 1938132983 holds the IMD score indicator, everything else 90362.
		if r.URL.Query().Get("group_id") == "1938132983" {
			fmt.Fprint(w, observationsCSV([]string{"91872"}))
		} else {
			fmt.Fprint(w, observationsCSV([]string{"90362"}))
		}

	case "/all_data/csv/by_profile_id":
		fmt.Fprint(w, observationsCSV([]string{"90362", "90366"}))

	default:
		http.NotFound(w, r)
	}
}

// observationsCSV renders the bulk-endpoint fixture for the given indicator
// IDs: per indicator four county rows (one tie pair, one missing value), an
// England summary row and one category-split row. The IMD indicator instead
// gets one score per county, ascending.
func observationsCSV(indicatorIDs []string) string {
	var b strings.Builder
	b.WriteString("Indicator ID,Indicator Name,Area Code,Area Name,Area Type,Sex,Age,Category Type,Category,Time period,Value\n")

	for _, id := range indicatorIDs {
		if id == "91872" {
			scores := []struct{ code, name, value string }{
				{"E06000001", "Hartlepool", "35.0"},
				{"E06000002", "Middlesbrough", "28.7"},
				{"E06000003", "Redcar and Cleveland", "22.1"},
				{"E06000004", "Stockton-on-Tees", "18.9"},
			}
			for _, s := range scores {
				fmt.Fprintf(&b, "91872,Deprivation score (IMD 2015),%s,%s,County & UA,Persons,All ages,,,2015,%s\n",
					s.code, s.name, s.value)
			}
			continue
		}

		name := "Healthy life expectancy at birth - Male"
		if id == "90366" {
			name = "Life expectancy at birth - Male"
		}
		rows := []struct{ code, area, value string }{
			{"E06000001", "Hartlepool", "75.3"},
			{"E06000002", "Middlesbrough", "75.3"}, // tie with Hartlepool
			{"E06000003", "Redcar and Cleveland", "79.1"},
			{"E06000004", "Stockton-on-Tees", ""}, // missing value
			{"E92000001", "England", "77.0"},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "%s,%s,%s,%s,County & UA,Male,All ages,,,2012 - 14,%s\n",
				id, name, row.code, row.area, row.value)
		}
		fmt.Fprintf(&b, "%s,%s,E06000001,Hartlepool,County & UA,Male,All ages,County & UA deprivation deciles in England (IMD2015),Most deprived decile,2012 - 14,70.1\n",
			id, name)
	}
	return b.String()
}
