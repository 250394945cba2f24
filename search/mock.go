// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/nmerlino/cityscout/places"
	"github.com/nmerlino/cityscout/textutil"
)

// mockCity is one entry of the canned data set.
type mockCity struct {
	name    string
	country string
	lat     float64
	lon     float64
}

// The canned data deliberately contains duplicates so the result collection's
// merging is observable offline.
var mockCities = []mockCity{
	{"Berlin", "Germany", 52.5200, 13.4050},
	{"Munich", "Germany", 48.1351, 11.5820},
	{"Hamburg", "Germany", 53.5511, 9.9937},
	{"Cologne", "Germany", 50.9375, 6.9603},
	{"Frankfurt", "Germany", 50.1109, 8.6821},
	{"New York", "United States", 40.7128, -74.0060},
	{"Los Angeles", "United States", 34.0522, -118.2437},
	{"Chicago", "United States", 41.8781, -87.6298},
	{"San Francisco", "United States", 37.7749, -122.4194},
	{"London", "United Kingdom", 51.5074, -0.1278},
	{"Manchester", "United Kingdom", 53.4808, -2.2426},
	{"Birmingham", "United Kingdom", 52.4862, -1.8904},
	{"Paris", "France", 48.8566, 2.3522},
	{"Lyon", "France", 45.7640, 4.8357},
	{"Marseille", "France", 43.2965, 5.3698},
	{"Zürich", "Switzerland", 47.3769, 8.5417},
	{"São Paulo", "Brazil", -23.5505, -46.6333},
	{"Berlin", "Germany", 52.5201, 13.4051},        // very close coordinates
	{"London", "United Kingdom", 51.5074, -0.1278}, // exact duplicate
	{"Paris", "France", 48.8566, 2.3522},           // another exact duplicate
}

// MockService returns predefined data without touching the network. Useful
// for tests and offline demos.
type MockService struct {
	// Results overrides the canned data when non-empty.
	Results []*places.Record

	// Err forces every search to fail with this error.
	Err error

	stats Stats
}

// NewMockService creates a mock backed by the canned city list.
func NewMockService() *MockService {
	return &MockService{}
}

// Name implements Service.
func (s *MockService) Name() string {
	return "mock"
}

// Description implements Service.
func (s *MockService) Description() string {
	return "Mock service for testing - returns predefined test data"
}

// Stats implements Service.
func (s *MockService) Stats() *Stats {
	return &s.stats
}

// Search implements Service. Matching is accent- and case-insensitive in both
// directions, so "münchen" finds Munich and "berlin germany" finds Berlin.
func (s *MockService) Search(_ context.Context, query string) ([]*places.Record, error) {
	if strings.TrimSpace(query) == "" {
		err := fmt.Errorf("please enter a search query")
		s.stats.RecordFailure(err)

		return nil, err
	}

	if s.Err != nil {
		s.stats.RecordFailure(s.Err)

		return nil, s.Err
	}

	if len(s.Results) > 0 {
		s.stats.RecordSuccess()

		return copyRecords(s.Results), nil
	}

	folded := textutil.Fold(query)

	var results []*places.Record

	for _, city := range mockCities {
		name := textutil.Fold(city.name)
		country := textutil.Fold(city.country)

		if strings.Contains(name, folded) || strings.Contains(country, folded) ||
			strings.Contains(folded, name) {
			results = append(results, &places.Record{
				Name:        city.name,
				DisplayName: fmt.Sprintf("%s, %s", city.name, city.country),
				Country:     city.country,
				Lat:         city.lat,
				Lon:         city.lon,
			})
		}
	}

	if len(results) == 0 {
		err := fmt.Errorf("no mock cities found for query: %s", query)
		s.stats.RecordFailure(err)

		return nil, err
	}

	s.stats.RecordSuccess()

	return results, nil
}

// copyRecords clones the override results: each search must hand out records
// the caller may own and discard independently.
func copyRecords(records []*places.Record) []*places.Record {
	out := make([]*places.Record, 0, len(records))

	for _, r := range records {
		if r == nil {
			continue
		}

		clone := *r
		out = append(out, &clone)
	}

	return out
}
