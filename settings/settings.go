// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings loads runtime configuration from the environment, with an
// optional .env file for local development.
package settings

import (
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Settings holds every tunable of the application. Command line flags may
// override individual fields after Load.
type Settings struct {
	// NominatimURL is the search endpoint of the Nominatim instance to use.
	NominatimURL string `env:"CITYSCOUT_NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org/search"`

	// UserAgent identifies this client; the public Nominatim usage policy
	// requires a meaningful value.
	UserAgent string `env:"CITYSCOUT_USER_AGENT" envDefault:"cityscout/dev (+https://github.com/nmerlino/cityscout)"`

	// HTTPTimeout bounds a single search request.
	HTTPTimeout time.Duration `env:"CITYSCOUT_HTTP_TIMEOUT" envDefault:"30s"`

	// Service selects the search provider by name.
	Service string `env:"CITYSCOUT_SERVICE" envDefault:"nominatim"`

	// DbPath is the directory holding the local DuckDB database.
	DbPath string `env:"CITYSCOUT_DB_PATH" envDefault:"db"`

	// ListenAddr is the address the web UI binds to.
	ListenAddr string `env:"CITYSCOUT_LISTEN_ADDR" envDefault:"localhost:8080"`
}

// Load reads a .env file when present and then the environment.
func Load() (*Settings, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, err
	}

	return s, nil
}
