// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// IndicatorMetadata fetches metadata, including polarity, for the given
// indicator IDs.
func (c *Client) IndicatorMetadata(ctx context.Context, indicatorIDs []int) ([]IndicatorMetadata, error) {
	params := url.Values{}
	params.Set("indicator_ids", joinIDs(indicatorIDs))

	var metadata []IndicatorMetadata
	if err := c.getJSON(ctx, "indicator_metadata", "indicator_metadata/by_indicator_id", params, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// Profiles fetches the full profile catalog.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := c.getJSON(ctx, "profiles", "profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Domains fetches the domains (indicator groupings) of a profile.
func (c *Client) Domains(ctx context.Context, profileID int) ([]Domain, error) {
	params := url.Values{}
	params.Set("profile_id", strconv.Itoa(profileID))

	var domains []Domain
	if err := c.getJSON(ctx, "domains", "group_metadata/by_profile_id", params, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// Indicators fetches the indicator catalog of one profile, one entry per
// indicator/domain grouping.
func (c *Client) Indicators(ctx context.Context, profileID int) ([]IndicatorMetadata, error) {
	params := url.Values{}
	params.Set("profile_id", strconv.Itoa(profileID))

	var indicators []IndicatorMetadata
	if err := c.getJSON(ctx, "indicators", "indicator_metadata/by_profile_id", params, &indicators); err != nil {
		return nil, err
	}
	return indicators, nil
}

// joinIDs renders integer IDs as the comma-separated form the API expects.
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
