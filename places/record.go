// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package places holds the canonical result set shown to the user: place
// records as produced by a search provider, and the ordered collection that
// merges near-duplicate records into a single entry.
package places

import (
	"math"
	"strings"
)

// Two records whose latitude and longitude both differ by less than this are
// considered the same physical place (~100 meters at mid-latitudes). The
// comparison is per axis, not a geodesic distance: it degrades near the poles
// and across the antimeridian, which is acceptable for city-level results.
const coordinateThreshold = 0.001

// Record describes one candidate or confirmed place.
//
// Fields are accepted as-is at construction: validation, if any, is the
// search provider's job before records are built.
type Record struct {
	Name        string  `json:"name"`         // short place name, e.g. "Berlin"
	DisplayName string  `json:"display_name"` // full label, e.g. "Berlin, Germany"
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"` // degrees, [-90, 90]
	Lon         float64 `json:"lon"` // degrees, [-180, 180]
}

// OrderKey is the tuple records are sorted by for display.
type OrderKey struct {
	DisplayName string // lowercased
	Country     string
	Lat         float64
	Lon         float64
}

// OrderKey returns the display-order sort key.
func (r *Record) OrderKey() OrderKey {
	return OrderKey{
		DisplayName: strings.ToLower(r.DisplayName),
		Country:     r.Country,
		Lat:         r.Lat,
		Lon:         r.Lon,
	}
}

// Less reports whether r sorts before other in display order: display name
// case-insensitive ascending, ties broken by country, latitude, longitude.
func (r *Record) Less(other *Record) bool {
	a, b := r.OrderKey(), other.OrderKey()

	if a.DisplayName != b.DisplayName {
		return a.DisplayName < b.DisplayName
	}

	if a.Country != b.Country {
		return a.Country < b.Country
	}

	if a.Lat != b.Lat {
		return a.Lat < b.Lat
	}

	return a.Lon < b.Lon
}

// IsDuplicateOf reports whether two records describe the same physical place.
// The relation is symmetric and has no side effects. A nil argument is never
// a duplicate.
func (r *Record) IsDuplicateOf(other *Record) bool {
	if r == nil || other == nil {
		return false
	}

	// Exact display name match is the most common duplicate case.
	if strings.EqualFold(r.DisplayName, other.DisplayName) {
		return true
	}

	// Same city name and country handles different label formatting.
	if strings.EqualFold(r.Name, other.Name) && strings.EqualFold(r.Country, other.Country) {
		return true
	}

	// Very close coordinates catch the same location under different names.
	return coordinatesClose(r.Lat, r.Lon, other.Lat, other.Lon)
}

func coordinatesClose(lat1, lon1, lat2, lon2 float64) bool {
	return math.Abs(lat1-lat2) < coordinateThreshold &&
		math.Abs(lon1-lon2) < coordinateThreshold
}
