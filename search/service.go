// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package search abstracts city search providers behind a single interface so
// the presentation layers can switch between them.
package search

import (
	"context"

	"github.com/nmerlino/cityscout/places"
)

// Service is a city search provider.
type Service interface {
	// Name identifies the provider, e.g. "nominatim".
	Name() string

	// Description is a one-line human description of the provider.
	Description() string

	// Search resolves a free-text query into candidate place records.
	// An empty result set is reported as an error: the caller only ever
	// hands non-empty batches to the result collection.
	Search(ctx context.Context, query string) ([]*places.Record, error)

	// Stats exposes the request counters of this service instance.
	Stats() *Stats
}

// Stats tracks request outcomes for a service instance.
type Stats struct {
	Successes int
	Failures  int
	LastError string
}

// RecordSuccess notes a successful search and clears the last error.
func (s *Stats) RecordSuccess() {
	s.Successes++
	s.LastError = ""
}

// RecordFailure notes a failed search.
func (s *Stats) RecordFailure(err error) {
	s.Failures++

	if err != nil {
		s.LastError = err.Error()
	}
}
