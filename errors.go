// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

import "errors"

// Validation errors raised by FetchData before any bulk retrieval is
// attempted. Match with errors.Is; the wrapped message carries the offending
// value. Transport failures are not wrapped in these: they propagate from the
// HTTP layer with endpoint context only.
var (
	// ErrInvalidSelector indicates none of IndicatorID, DomainID, ProfileID
	// was provided.
	ErrInvalidSelector = errors.New("one of IndicatorID, DomainID or ProfileID must be provided")

	// ErrMismatchedLength indicates paired IndicatorID/ProfileID slices of
	// unequal length.
	ErrMismatchedLength = errors.New("ProfileID length must match IndicatorID length")

	// ErrInvalidArgument indicates a malformed argument, such as an explicitly
	// empty AreaTypeID.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAreaType indicates an AreaTypeID absent from the area-types
	// reference table and not the nationwide sentinel.
	ErrInvalidAreaType = errors.New("AreaTypeID not found in the area types reference table")

	// ErrInvalidAreaCode indicates an AreaCode that is not valid for any of
	// the requested area types and is not the nationwide code.
	ErrInvalidAreaCode = errors.New("AreaCode not valid for the requested area types")
)
