// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

package fingertips

// Reserved identifiers of the Fingertips API.
const (
	// DefaultAreaTypeID is the geography used when a query names none:
	// counties and unitary authorities.
	DefaultAreaTypeID = 102

	// AreaTypeEngland is the nationwide area-type sentinel. It never appears
	// in the area-types reference table but is always a valid geography.
	AreaTypeEngland = 15

	// AreaCodeEngland is the nationwide area code.
	AreaCodeEngland = "E92000001"
)

// AreaType is one geographic granularity from the reference table, together
// with the parent geographies it rolls up to. ParentAreaTypes preserves API
// order: the first entry is the default comparator.
type AreaType struct {
	ID              int              `json:"Id"`
	Name            string           `json:"Name"`
	ParentAreaTypes []ParentAreaType `json:"ParentAreaTypes"`
}

// ParentAreaType is a comparator geography an area type rolls up to.
type ParentAreaType struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}

// Area is one geographic area of a given area type.
type Area struct {
	Code       string `json:"Code"`
	Name       string `json:"Name"`
	AreaTypeID int    `json:"AreaTypeId"`
}

// IndicatorMetadata describes one indicator, including its polarity: whether
// a higher or lower value is considered better. Polarity may differ by
// profile; the API reports the indicator's default grouping.
type IndicatorMetadata struct {
	IndicatorID   int    `json:"IndicatorId"`
	IndicatorName string `json:"IndicatorName"`
	DomainID      int    `json:"GroupId"`
	PolarityID    int    `json:"PolarityId"`
	Polarity      string `json:"Polarity"`
}

// Profile is a curated collection of indicators, domains and area types.
type Profile struct {
	ID        int    `json:"Id"`
	Name      string `json:"Name"`
	Key       string `json:"Key"`
	DomainIDs []int  `json:"GroupIds"`
}

// Domain is a grouping of indicators within a profile.
type Domain struct {
	ID        int    `json:"Id"`
	Name      string `json:"Name"`
	ProfileID int    `json:"ProfileId"`
}
