// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

/*
data.go - The FetchData entry point

FetchData is the single data-retrieval operation of the library. It runs in
three phases:

 1. Resolver: validates and normalizes the selector (IndicatorID / DomainID /
    ProfileID) and area-type pair, cross-referencing the area-types reference
    table and, when an AreaCode filter is given, the area-code membership for
    each requested area type. All validation failures surface before any bulk
    retrieval is attempted, so an invalid query never costs a data round-trip.

 2. Dispatcher: selects exactly one of four bulk retrievals (by indicator, by
    indicator+profile pairs, by domain, by profile) and executes it for each
    resolved child/parent area-type pair, binding the results into one frame.

 3. Post-processor: normalizes column names, optionally joins polarity and
    computes within-group ranks, applies the AreaCode and category filters,
    and optionally interns string cells. See postprocess.go.

Selector precedence: IndicatorID over DomainID over ProfileID. ProfileID may
co-occur with IndicatorID only as a positionally paired slice of equal length
(index i's profile applies to index i's indicator).
*/
package fingertips

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tomtom215/fingertipsgo/frame"
	"github.com/tomtom215/fingertipsgo/internal/logging"
)

// Query describes one FetchData invocation.
//
// Exactly one of IndicatorID, DomainID, ProfileID is authoritative; see the
// precedence rules in the package documentation. A nil AreaTypeID defaults to
// DefaultAreaTypeID; an explicitly empty slice is rejected.
type Query struct {
	// IndicatorID selects indicators directly. Takes precedence over DomainID
	// and ProfileID.
	IndicatorID []int

	// DomainID selects every indicator of the given domains. Ignored with a
	// warning when IndicatorID is set.
	DomainID []int

	// ProfileID selects every indicator of the given profiles. When paired
	// with IndicatorID it must have the same length, profile i applying to
	// indicator i. Ignored with a warning when DomainID applies.
	ProfileID []int

	// AreaTypeID lists the child geographies to fetch. nil defaults to
	// DefaultAreaTypeID (counties and unitary authorities).
	AreaTypeID []int

	// ParentAreaTypeID lists comparator geographies. When nil, the first
	// parent mapping in the reference table is used per area type.
	ParentAreaTypeID []int

	// AreaCode restricts results to the given areas. Every code must be valid
	// for one of the requested area types, or be AreaCodeEngland.
	AreaCode []string

	// CategoryType retains category-split rows (inequality breakdowns) when
	// true. Default false: only non-category rows are returned.
	CategoryType bool

	// Rank adds Polarity, Rank and AreaValuesCount columns. Rank is an
	// ascending average-tie rank of Value within each observation group;
	// polarity is carried for downstream interpretation, never used to
	// invert the ordering.
	Rank bool

	// Categorical interns repeated string cells in the result. A storage
	// optimization for large frames, off by default.
	Categorical bool
}

// dispatchMode identifies which bulk retrieval the dispatcher will execute.
// Constructed exclusively by the resolver.
type dispatchMode int

const (
	byIndicator dispatchMode = iota
	byIndicatorProfile
	byDomain
	byProfile
)

// areaTypePair is one resolved child/parent geography combination.
type areaTypePair struct {
	child  int
	parent int
}

// fetchPlan is the resolver's output: a validated, fully resolved retrieval.
type fetchPlan struct {
	mode         dispatchMode
	indicatorIDs []int
	domainIDs    []int
	profileIDs   []int
	pairs        []areaTypePair
	areaCodes    map[string]bool // nil when no AreaCode filter was given
}

// FetchData retrieves indicator observations for the given query.
//
// Validation failures return one of the package's typed errors before any
// bulk retrieval happens. Advisory conditions (an ignored DomainID, a parent
// area type outside the reference hierarchy) are logged as warnings and never
// halt execution. An empty result is a valid, silent outcome of filtering.
func (c *Client) FetchData(ctx context.Context, q Query) (*frame.Frame, error) {
	ctx = logging.ContextWithNewCorrelationID(ctx)

	plan, err := c.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	f, err := c.dispatch(ctx, plan)
	if err != nil {
		return nil, err
	}

	return c.postProcess(ctx, f, q, plan)
}

// resolve validates the query and produces a fetch plan.
func (c *Client) resolve(ctx context.Context, q Query) (*fetchPlan, error) {
	log := logging.Ctx(ctx)
	plan := &fetchPlan{}

	// Selector precedence: indicator > domain > profile.
	switch {
	case len(q.IndicatorID) > 0:
		if len(q.DomainID) > 0 {
			log.Warn().Ints("domain_ids", q.DomainID).Msg("DomainID ignored: IndicatorID takes precedence")
		}
		if len(q.ProfileID) > 0 {
			if len(q.ProfileID) != len(q.IndicatorID) {
				return nil, fmt.Errorf("%w: %d profile IDs for %d indicator IDs",
					ErrMismatchedLength, len(q.ProfileID), len(q.IndicatorID))
			}
			plan.mode = byIndicatorProfile
			plan.indicatorIDs = q.IndicatorID
			plan.profileIDs = q.ProfileID
		} else {
			plan.mode = byIndicator
			plan.indicatorIDs = q.IndicatorID
		}

	case len(q.DomainID) > 0:
		if len(q.ProfileID) > 0 {
			log.Warn().Ints("profile_ids", q.ProfileID).Msg("ProfileID ignored: DomainID takes precedence")
		}
		plan.mode = byDomain
		plan.domainIDs = q.DomainID

	case len(q.ProfileID) > 0:
		plan.mode = byProfile
		plan.profileIDs = q.ProfileID

	default:
		return nil, ErrInvalidSelector
	}

	areaTypeIDs := q.AreaTypeID
	if areaTypeIDs == nil {
		areaTypeIDs = []int{DefaultAreaTypeID}
	}
	if len(areaTypeIDs) == 0 {
		return nil, fmt.Errorf("%w: AreaTypeID must not be empty", ErrInvalidArgument)
	}

	ref, err := c.loadAreaTypeReference(ctx)
	if err != nil {
		return nil, err
	}

	for _, areaTypeID := range areaTypeIDs {
		if areaTypeID != AreaTypeEngland && !ref.contains(areaTypeID) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidAreaType, areaTypeID)
		}
	}

	if len(q.AreaCode) > 0 {
		if err := c.validateAreaCodes(ctx, q.AreaCode, areaTypeIDs); err != nil {
			return nil, err
		}
		plan.areaCodes = make(map[string]bool, len(q.AreaCode))
		for _, code := range q.AreaCode {
			plan.areaCodes[code] = true
		}
	}

	// Parent resolution: derive the first-seen mapping per area type, or
	// validate the caller's choice. A parent outside the hierarchy can still
	// be queried but may duplicate rows, so it warns instead of failing.
	if len(q.ParentAreaTypeID) == 0 {
		for _, areaTypeID := range areaTypeIDs {
			plan.pairs = append(plan.pairs, areaTypePair{
				child:  areaTypeID,
				parent: ref.firstParent(areaTypeID),
			})
		}
	} else {
		for _, areaTypeID := range areaTypeIDs {
			for _, parentID := range q.ParentAreaTypeID {
				if !ref.validParent(areaTypeID, parentID) {
					log.Warn().
						Int("area_type_id", areaTypeID).
						Int("parent_area_type_id", parentID).
						Msg("ParentAreaTypeID is not a valid parent for this area type; rows may be duplicated")
				}
				plan.pairs = append(plan.pairs, areaTypePair{child: areaTypeID, parent: parentID})
			}
		}
	}

	return plan, nil
}

// validateAreaCodes checks every requested code against the union of valid
// codes for the requested area types. Lookups are sequential, one request per
// area type; the nationwide sentinel has no member areas to fetch.
func (c *Client) validateAreaCodes(ctx context.Context, codes []string, areaTypeIDs []int) error {
	valid := make(map[string]bool)
	for _, areaTypeID := range areaTypeIDs {
		if areaTypeID == AreaTypeEngland {
			continue
		}
		areas, err := c.AreasByAreaType(ctx, areaTypeID)
		if err != nil {
			return err
		}
		for _, a := range areas {
			valid[a.Code] = true
		}
	}

	for _, code := range codes {
		if code != AreaCodeEngland && !valid[code] {
			return fmt.Errorf("%w: %s", ErrInvalidAreaCode, code)
		}
	}
	return nil
}

// dispatch executes the planned bulk retrieval, one request per resolved
// combination, and binds the results into a single frame.
func (c *Client) dispatch(ctx context.Context, plan *fetchPlan) (*frame.Frame, error) {
	var frames []*frame.Frame

	switch plan.mode {
	case byIndicator:
		for _, pair := range plan.pairs {
			f, err := c.retrieveByIndicator(ctx, plan.indicatorIDs, pair)
			if err != nil {
				return nil, err
			}
			frames = append(frames, f)
		}

	case byIndicatorProfile:
		for i := range plan.indicatorIDs {
			for _, pair := range plan.pairs {
				f, err := c.retrieveByIndicatorProfile(ctx, plan.indicatorIDs[i], plan.profileIDs[i], pair)
				if err != nil {
					return nil, err
				}
				frames = append(frames, f)
			}
		}

	case byDomain:
		for _, domainID := range plan.domainIDs {
			for _, pair := range plan.pairs {
				f, err := c.retrieveByDomain(ctx, domainID, pair)
				if err != nil {
					return nil, err
				}
				frames = append(frames, f)
			}
		}

	case byProfile:
		for _, profileID := range plan.profileIDs {
			for _, pair := range plan.pairs {
				f, err := c.retrieveByProfile(ctx, profileID, pair)
				if err != nil {
					return nil, err
				}
				frames = append(frames, f)
			}
		}
	}

	return bindRows(frames)
}

// retrieveByIndicator fetches observations for a set of indicators over one
// child/parent area-type pair.
func (c *Client) retrieveByIndicator(ctx context.Context, indicatorIDs []int, pair areaTypePair) (*frame.Frame, error) {
	params := url.Values{}
	params.Set("indicator_ids", joinIDs(indicatorIDs))
	params.Set("child_area_type_id", strconv.Itoa(pair.child))
	params.Set("parent_area_type_id", strconv.Itoa(pair.parent))
	return c.getCSV(ctx, "all_data_by_indicator", "all_data/csv/by_indicator_id", params)
}

// retrieveByIndicatorProfile fetches one indicator scoped to one profile,
// so polarity and benchmarks follow that profile's definition.
func (c *Client) retrieveByIndicatorProfile(ctx context.Context, indicatorID, profileID int, pair areaTypePair) (*frame.Frame, error) {
	params := url.Values{}
	params.Set("indicator_ids", strconv.Itoa(indicatorID))
	params.Set("profile_id", strconv.Itoa(profileID))
	params.Set("child_area_type_id", strconv.Itoa(pair.child))
	params.Set("parent_area_type_id", strconv.Itoa(pair.parent))
	return c.getCSV(ctx, "all_data_by_indicator", "all_data/csv/by_indicator_id", params)
}

// retrieveByDomain fetches every indicator of one domain.
func (c *Client) retrieveByDomain(ctx context.Context, domainID int, pair areaTypePair) (*frame.Frame, error) {
	params := url.Values{}
	params.Set("group_id", strconv.Itoa(domainID))
	params.Set("child_area_type_id", strconv.Itoa(pair.child))
	params.Set("parent_area_type_id", strconv.Itoa(pair.parent))
	return c.getCSV(ctx, "all_data_by_group", "all_data/csv/by_group_id", params)
}

// retrieveByProfile fetches every indicator of one profile.
func (c *Client) retrieveByProfile(ctx context.Context, profileID int, pair areaTypePair) (*frame.Frame, error) {
	params := url.Values{}
	params.Set("profile_id", strconv.Itoa(profileID))
	params.Set("child_area_type_id", strconv.Itoa(pair.child))
	params.Set("parent_area_type_id", strconv.Itoa(pair.parent))
	return c.getCSV(ctx, "all_data_by_profile", "all_data/csv/by_profile_id", params)
}

// bindRows concatenates frames returned by successive bulk retrievals.
// All frames must share the same column set; the bulk endpoints are
// rectangular and stable within one API version.
func bindRows(frames []*frame.Frame) (*frame.Frame, error) {
	if len(frames) == 0 {
		return frame.New(nil)
	}

	cols := frames[0].Columns()
	out, err := frame.New(cols)
	if err != nil {
		return nil, err
	}

	for _, f := range frames {
		fCols := f.Columns()
		if len(fCols) != len(cols) {
			return nil, fmt.Errorf("cannot bind frames: %d columns vs %d", len(fCols), len(cols))
		}
		for i := range cols {
			if fCols[i] != cols[i] {
				return nil, fmt.Errorf("cannot bind frames: column %q vs %q at position %d", fCols[i], cols[i], i)
			}
		}
		for r := 0; r < f.Len(); r++ {
			if err := out.AppendRow(f.Row(r)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
