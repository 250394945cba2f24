// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutil provides text normalization helpers for matching
// user-typed queries against place names.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a string by removing accents, lowercasing, and trimming
// spaces, so "München " and "munchen" compare equal.
func Fold(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}
