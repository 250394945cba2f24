// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"log"
	"strings"

	"github.com/nmerlino/cityscout/nominatim"
	"github.com/nmerlino/cityscout/settings"
)

// Options tunes provider construction beyond what settings carry.
type Options struct {
	// Limit caps the number of raw results per query; 0 keeps the
	// provider default.
	Limit int

	// EnableHTTPTrace and EnableHTTPBodyTrace control request dumping on
	// providers that go through HTTP.
	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

// Available lists the provider names New accepts.
func Available() []string {
	return []string{"nominatim", "mock"}
}

// DefaultService is the provider used when none is configured.
const DefaultService = "nominatim"

// New builds the named provider. An unknown name falls back to the default
// provider rather than failing, so a stale configuration still searches.
func New(name string, cfg *settings.Settings, opts Options) Service {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mock":
		return NewMockService()
	case "nominatim", "":
		return newNominatim(cfg, opts)
	default:
		log.Printf("search: unknown service %q, falling back to %s", name, DefaultService)

		return newNominatim(cfg, opts)
	}
}

func newNominatim(cfg *settings.Settings, opts Options) *NominatimService {
	client := nominatim.NewClient(&nominatim.ClientOptions{
		BaseURL:             cfg.NominatimURL,
		UserAgent:           cfg.UserAgent,
		Timeout:             cfg.HTTPTimeout,
		EnableHTTPTrace:     opts.EnableHTTPTrace,
		EnableHTTPBodyTrace: opts.EnableHTTPBodyTrace,
	})

	return NewNominatimService(client, opts.Limit)
}
