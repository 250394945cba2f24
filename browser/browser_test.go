// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package browser

import "testing"

func TestOSMMapURL(t *testing.T) {
	tests := []struct {
		lat, lon float64
		expected string
	}{
		{52.52, 13.405, "https://www.openstreetmap.org/#map=15/52.520000/13.405000"},
		{-34.9011, -56.1645, "https://www.openstreetmap.org/#map=15/-34.901100/-56.164500"},
		{0, 0, "https://www.openstreetmap.org/#map=15/0.000000/0.000000"},
	}

	for _, test := range tests {
		if got := OSMMapURL(test.lat, test.lon); got != test.expected {
			t.Errorf("OSMMapURL(%f, %f) = %q, want %q", test.lat, test.lon, got, test.expected)
		}
	}
}
