// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

// Package fingertips is a client for the Fingertips public-health-statistics
// API (https://fingertips.phe.org.uk), the UK's repository of indicator
// time-series data across geographic areas.
//
// The central operation is FetchData, which resolves a partially specified
// selector (indicator, domain or profile IDs), validates the requested
// geographies against the live area-types reference table, performs exactly
// one bulk retrieval, and reshapes the result: column-name normalization,
// optional within-group ranking with polarity carried from indicator
// metadata, and optional category and area filtering.
//
//	client, err := fingertips.New(fingertips.Options{})
//	if err != nil {
//	    return err
//	}
//	data, err := client.FetchData(ctx, fingertips.Query{
//	    IndicatorID: []int{90362, 90366},
//	    AreaTypeID:  []int{102},
//	})
//
// Catalog lookups (AreaTypes, Profiles, Indicators), a deprivation-decile
// lookup (DeprivationDecile) and chart building (package chart) round out the
// library. Results are returned as frame.Frame tables.
//
// The client is synchronous and blocking; each call re-fetches from the API
// with no caching, no retries and no authentication. TLS verification is on
// by default with an explicit Options.InsecureSkipVerify opt-out.
package fingertips
