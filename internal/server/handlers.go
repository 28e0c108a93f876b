// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	fingertips "github.com/tomtom215/fingertipsgo"
	"github.com/tomtom215/fingertipsgo/frame"
	"github.com/tomtom215/fingertipsgo/internal/logging"
)

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports readiness by hitting the lightweight area-types
// reference endpoint through the shared client, exercising the same breaker
// the data endpoints use.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.client.AreaTypes(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAreaTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.client.AreaTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleAreas(w http.ResponseWriter, r *http.Request) {
	areaTypeID, err := intParam(r, "area_type_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	areas, err := s.client.AreasByAreaType(r.Context(), areaTypeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.client.Profiles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	profileID, err := intParam(r, "profile_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	domains, err := s.client.Domains(r.Context(), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	profileID, err := intParam(r, "profile_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	indicators, err := s.client.Indicators(r.Context(), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indicators)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	query, err := queryFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := s.client.FetchData(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFrame(w, r, f)
}

func (s *Server) handleDeprivation(w http.ResponseWriter, r *http.Request) {
	areaTypeID, err := intParam(r, "area_type_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := s.client.DeprivationDecile(r.Context(), areaTypeID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFrame(w, r, f)
}

// queryFromRequest maps URL parameters onto a retrieval query. List
// parameters accept repeated keys and comma-separated values
// interchangeably.
func queryFromRequest(r *http.Request) (fingertips.Query, error) {
	var q fingertips.Query
	var err error

	if q.IndicatorID, err = intListParam(r, "indicator_id"); err != nil {
		return q, err
	}
	if q.DomainID, err = intListParam(r, "domain_id"); err != nil {
		return q, err
	}
	if q.ProfileID, err = intListParam(r, "profile_id"); err != nil {
		return q, err
	}
	if q.AreaTypeID, err = intListParam(r, "area_type_id"); err != nil {
		return q, err
	}
	if q.ParentAreaTypeID, err = intListParam(r, "parent_area_type_id"); err != nil {
		return q, err
	}
	q.AreaCode = stringListParam(r, "area_code")

	if q.CategoryType, err = boolParam(r, "category_type"); err != nil {
		return q, err
	}
	if q.Rank, err = boolParam(r, "rank"); err != nil {
		return q, err
	}
	if q.Categorical, err = boolParam(r, "categorical"); err != nil {
		return q, err
	}
	return q, nil
}

// badParamError marks a request-level parameter error so writeError maps it
// to a 400 without conflating it with upstream failures.
type badParamError struct{ msg string }

func (e *badParamError) Error() string { return e.msg }

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &badParamError{msg: "missing required parameter " + name}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &badParamError{msg: "parameter " + name + " must be an integer"}
	}
	return v, nil
}

func intListParam(r *http.Request, name string) ([]int, error) {
	var out []int
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, &badParamError{msg: "parameter " + name + " must be a list of integers"}
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func stringListParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &badParamError{msg: "parameter " + name + " must be a boolean"}
	}
	return v, nil
}

// writeFrame renders a frame as CSV or, with format=json, as an array of
// row objects keyed by column name.
func writeFrame(w http.ResponseWriter, r *http.Request, f *frame.Frame) {
	if r.URL.Query().Get("format") == "json" {
		cols := f.Columns()
		rows := make([]map[string]string, 0, f.Len())
		for i := 0; i < f.Len(); i++ {
			cells := f.Row(i)
			row := make(map[string]string, len(cols))
			for j, col := range cols {
				row[col] = cells[j]
			}
			rows = append(rows, row)
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := f.WriteCSV(w); err != nil {
		log := logging.Ctx(r.Context())
		log.Error().Err(err).Msg("failed to stream CSV response")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps client-side argument errors to 400 and upstream failures
// to 502.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway

	var paramErr *badParamError
	switch {
	case errors.As(err, &paramErr),
		errors.Is(err, fingertips.ErrInvalidSelector),
		errors.Is(err, fingertips.ErrInvalidArgument),
		errors.Is(err, fingertips.ErrMismatchedLength),
		errors.Is(err, fingertips.ErrInvalidAreaType),
		errors.Is(err, fingertips.ErrInvalidAreaCode):
		status = http.StatusBadRequest
	}

	log := logging.Ctx(r.Context())
	log.Warn().
		Err(err).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg("request failed")

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
