// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nmerlino/cityscout/nominatim"
	"github.com/nmerlino/cityscout/places"
)

// ErrNoResults is returned when a query completed but matched nothing.
var ErrNoResults = errors.New("no cities found for your search query")

// NominatimService adapts the Nominatim client to the Service interface.
type NominatimService struct {
	client *nominatim.Client
	limit  int
	stats  Stats
}

// NewNominatimService wraps client as a search service. A limit of 0 keeps
// the API default.
func NewNominatimService(client *nominatim.Client, limit int) *NominatimService {
	return &NominatimService{client: client, limit: limit}
}

// Name implements Service.
func (s *NominatimService) Name() string {
	return "nominatim"
}

// Description implements Service.
func (s *NominatimService) Description() string {
	return "OpenStreetMap Nominatim geocoding service - free worldwide city search"
}

// Stats implements Service.
func (s *NominatimService) Stats() *Stats {
	return &s.stats
}

// Search implements Service.
func (s *NominatimService) Search(ctx context.Context, query string) ([]*places.Record, error) {
	if strings.TrimSpace(query) == "" {
		err := errors.New("please enter a search query")
		s.stats.RecordFailure(err)

		return nil, err
	}

	req := nominatim.NewSearchRequest(query)
	if s.limit != 0 {
		req.SetLimit(s.limit)
	}

	result, err := s.client.Search(ctx, req)
	if err != nil {
		s.stats.RecordFailure(err)

		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	if len(result.Records) == 0 {
		s.stats.RecordFailure(ErrNoResults)

		return nil, ErrNoResults
	}

	s.stats.RecordSuccess()

	return result.Records, nil
}
