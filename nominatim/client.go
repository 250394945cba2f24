// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nmerlino/cityscout/places"
	"github.com/nmerlino/cityscout/utils/httputils"
	"golang.org/x/net/publicsuffix"
)

// ClientOptions configuration for the Nominatim client.
type ClientOptions struct {
	// BaseURL is the search endpoint, e.g. https://nominatim.openstreetmap.org/search
	BaseURL string

	// UserAgent is the User-Agent header to use in HTTP requests. The
	// public Nominatim instance rejects anonymous clients.
	UserAgent string

	// Timeout bounds a single search request.
	Timeout time.Duration

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

// Client performs searches against a Nominatim instance.
type Client struct {
	baseURL string
	client  *http.Client
}

// SearchResult is one page of parsed results.
type SearchResult struct {
	Records []*places.Record

	// PlaceIDs of every row in the page, including rows that did not map
	// to a record. Feed them to SearchRequest.ExcludePlaceIDs to request
	// the next page.
	PlaceIDs []int64
}

// NewClient creates a client with the provided options.
func NewClient(options *ClientOptions) *Client {
	if options == nil {
		options = &ClientOptions{}
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org/search"
	}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = "cityscout/unknown"
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Fatalf("Failed to create cookie jar: %v", err)
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		MaxConnsPerHost:       2,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  options.EnableHTTPBodyTrace,
		Transport: transport,
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Transport: loggingTransport,
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: headerTransport,
		},
	}
}

// resultRow mirrors one element of the Nominatim JSON response. Coordinates
// arrive as strings.
type resultRow struct {
	PlaceID     int64         `json:"place_id"`
	DisplayName string        `json:"display_name"`
	Lat         string        `json:"lat"`
	Lon         string        `json:"lon"`
	Address     resultAddress `json:"address"`
}

// resultAddress holds the address fields a city-level result may carry; which
// one is set depends on the OSM place type.
type resultAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Country      string `json:"country"`
}

// Search runs the query and returns one page of candidate records. Rows
// lacking a usable name or display name are dropped here, so the caller only
// sees complete candidates.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (_ *SearchResult, err error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	reqURL := c.baseURL + "?" + req.Values().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing resp.Body: %w", cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var rows []resultRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result := &SearchResult{}

	for _, row := range rows {
		result.PlaceIDs = append(result.PlaceIDs, row.PlaceID)

		if record := row.toRecord(); record != nil {
			result.Records = append(result.Records, record)
		}
	}

	return result, nil
}

// SearchPages fetches up to pages pages of results for req, excluding
// already-seen place ids between requests. onPage, when non-nil, is called
// after each completed page. Fetching stops early once a page comes back
// short, which means the result set is exhausted.
func (c *Client) SearchPages(ctx context.Context, req *SearchRequest, pages int, onPage func(page int)) ([]*places.Record, error) {
	var records []*places.Record

	for page := 1; page <= pages; page++ {
		result, err := c.Search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		records = append(records, result.Records...)

		if onPage != nil {
			onPage(page)
		}

		if len(result.PlaceIDs) < req.Limit {
			break
		}

		req.ExcludePlaceIDs = append(req.ExcludePlaceIDs, result.PlaceIDs...)
	}

	return records, nil
}

// toRecord maps a response row to a place record, or nil when the row lacks
// the essential fields.
func (row *resultRow) toRecord() *places.Record {
	name := row.Address.City

	switch {
	case name != "":
	case row.Address.Town != "":
		name = row.Address.Town
	case row.Address.Village != "":
		name = row.Address.Village
	case row.Address.Municipality != "":
		name = row.Address.Municipality
	default:
		// Fall back to the first segment of the display name.
		if i := strings.Index(row.DisplayName, ","); i >= 0 {
			name = row.DisplayName[:i]
		} else {
			name = row.DisplayName
		}
	}

	if name == "" || row.DisplayName == "" {
		return nil
	}

	// The API reports coordinates as strings; unparsable values stay 0,
	// matching the silent-filtering posture of the result set.
	lat, _ := strconv.ParseFloat(row.Lat, 64)
	lon, _ := strconv.ParseFloat(row.Lon, 64)

	return &places.Record{
		Name:        name,
		DisplayName: row.DisplayName,
		Country:     row.Address.Country,
		Lat:         lat,
		Lon:         lon,
	}
}
