// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package nominatim talks to the OpenStreetMap Nominatim search API and maps
// its responses to place records.
package nominatim

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// API configuration defaults.
const (
	DefaultFormat      = "json"
	DefaultFeatureType = "city"
	DefaultLimit       = 50
	MinLimit           = 1
	MaxLimit           = 100
)

// SearchRequest describes one query against the Nominatim search endpoint.
type SearchRequest struct {
	Query          string
	Limit          int
	AddressDetails bool
	FeatureType    string
	Format         string

	// ExcludePlaceIDs requests a follow-up page: Nominatim has no offset
	// parameter, further results are fetched by excluding the place ids
	// already seen.
	ExcludePlaceIDs []int64
}

// NewSearchRequest returns a request for query with the API defaults.
func NewSearchRequest(query string) *SearchRequest {
	return &SearchRequest{
		Query:          query,
		Limit:          DefaultLimit,
		AddressDetails: true,
		FeatureType:    DefaultFeatureType,
		Format:         DefaultFormat,
	}
}

// SetLimit updates the result limit, ignoring values outside [MinLimit, MaxLimit].
func (r *SearchRequest) SetLimit(limit int) {
	if limit >= MinLimit && limit <= MaxLimit {
		r.Limit = limit
	}
}

// Validate reports whether the request can be sent.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}

	if r.Limit < MinLimit || r.Limit > MaxLimit {
		return fmt.Errorf("limit must be between %d and %d", MinLimit, MaxLimit)
	}

	if r.Format == "" {
		return errors.New("format cannot be empty")
	}

	if r.FeatureType == "" {
		return errors.New("feature type cannot be empty")
	}

	return nil
}

// Values returns the query parameters for the search endpoint.
func (r *SearchRequest) Values() url.Values {
	params := url.Values{}
	params.Set("q", r.Query)
	params.Set("format", r.Format)
	params.Set("featureType", r.FeatureType)
	params.Set("limit", strconv.Itoa(r.Limit))

	if r.AddressDetails {
		params.Set("addressdetails", "1")
	} else {
		params.Set("addressdetails", "0")
	}

	if len(r.ExcludePlaceIDs) > 0 {
		ids := make([]string, len(r.ExcludePlaceIDs))
		for i, id := range r.ExcludePlaceIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}

		params.Set("exclude_place_ids", strings.Join(ids, ","))
	}

	return params
}
