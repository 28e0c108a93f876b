// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import (
	"context"
	"net/url"
	"strconv"
)

// AreaTypes fetches the area-types reference table, including parent
// geography mappings, in the order the API returns them. That order matters:
// parent resolution takes the first mapping seen for an area type.
func (c *Client) AreaTypes(ctx context.Context) ([]AreaType, error) {
	var areaTypes []AreaType
	if err := c.getJSON(ctx, "area_types", "area_types/parent_area_types", nil, &areaTypes); err != nil {
		return nil, err
	}
	return areaTypes, nil
}

// AreasByAreaType fetches every area of the given area type.
func (c *Client) AreasByAreaType(ctx context.Context, areaTypeID int) ([]Area, error) {
	params := url.Values{}
	params.Set("area_type_id", strconv.Itoa(areaTypeID))

	var areas []Area
	if err := c.getJSON(ctx, "areas", "areas/by_area_type_id", params, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// areaTypeReference is the resolver's view of the reference table: existence
// plus the valid parent area types per area type, preserving API order.
type areaTypeReference struct {
	order   []int
	parents map[int][]ParentAreaType
}

// loadAreaTypeReference fetches and indexes the area-types reference table.
func (c *Client) loadAreaTypeReference(ctx context.Context) (*areaTypeReference, error) {
	areaTypes, err := c.AreaTypes(ctx)
	if err != nil {
		return nil, err
	}

	ref := &areaTypeReference{parents: make(map[int][]ParentAreaType, len(areaTypes))}
	for _, at := range areaTypes {
		if _, seen := ref.parents[at.ID]; !seen {
			ref.order = append(ref.order, at.ID)
		}
		ref.parents[at.ID] = append(ref.parents[at.ID], at.ParentAreaTypes...)
	}
	return ref, nil
}

// contains reports whether the area type exists in the reference table.
func (r *areaTypeReference) contains(areaTypeID int) bool {
	_, ok := r.parents[areaTypeID]
	return ok
}

// firstParent returns the first-seen parent mapping for the area type.
// The nationwide sentinel rolls up to itself, as does any area type
// without a parent mapping.
func (r *areaTypeReference) firstParent(areaTypeID int) int {
	parents := r.parents[areaTypeID]
	if len(parents) == 0 {
		return AreaTypeEngland
	}
	return parents[0].ID
}

// validParent reports whether parentAreaTypeID is a valid parent mapping for
// the area type. The nationwide sentinel is always a valid comparator.
func (r *areaTypeReference) validParent(areaTypeID, parentAreaTypeID int) bool {
	if parentAreaTypeID == AreaTypeEngland {
		return true
	}
	for _, p := range r.parents[areaTypeID] {
		if p.ID == parentAreaTypeID {
			return true
		}
	}
	return false
}
