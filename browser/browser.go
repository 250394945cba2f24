// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package browser opens locations on a map in the user's web browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Zoom level 15 shows a city-sized viewport.
const osmMapURLTemplate = "https://www.openstreetmap.org/#map=15/%.6f/%.6f"

// OSMMapURL returns the OpenStreetMap URL centered on the given coordinates.
func OSMMapURL(lat, lon float64) string {
	return fmt.Sprintf(osmMapURLTemplate, lat, lon)
}

// Open launches the platform browser on url.
func Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s in browser: %w", url, err)
	}

	return nil
}
