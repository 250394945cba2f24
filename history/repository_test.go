// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/nmerlino/cityscout/places"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*sql.DB, Repository) {
	t.Helper()

	db, err := sql.Open("duckdb", "") // In-memory database
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewRepository(db)
	require.NoError(t, err)
	require.NoError(t, repo.CreateSchema())

	return db, repo
}

func sampleRecords() []*places.Record {
	return []*places.Record{
		{Name: "Berlin", DisplayName: "Berlin, Germany", Country: "Germany", Lat: 52.5200, Lon: 13.4050},
		{Name: "Hamburg", DisplayName: "Hamburg, Germany", Country: "Germany", Lat: 53.5511, Lon: 9.9937},
	}
}

func TestSaveAndListSearches(t *testing.T) {
	_, repo := setupRepo(t)

	id, err := repo.SaveSearch("Berlin", sampleRecords())
	require.NoError(t, err)
	assert.Positive(t, id)

	entries, err := repo.ListSearches(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "Berlin", entries[0].Query)
	assert.Equal(t, 2, entries[0].ResultCount)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].SearchedAt, time.Minute)

	count, err := repo.CountSearches()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSearchResultsRoundTrip(t *testing.T) {
	_, repo := setupRepo(t)

	id, err := repo.SaveSearch("germany", sampleRecords())
	require.NoError(t, err)

	results, err := repo.SearchResults(id)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Display order: Berlin before Hamburg.
	assert.Equal(t, "Berlin", results[0].Name)
	assert.Equal(t, "Germany", results[0].Country)
	assert.InDelta(t, 52.5200, results[0].Lat, 1e-4)
	assert.InDelta(t, 13.4050, results[0].Lon, 1e-4)
	assert.Equal(t, "Hamburg", results[1].Name)
}

func TestSaveSearchSkipsNilRecords(t *testing.T) {
	_, repo := setupRepo(t)

	id, err := repo.SaveSearch("berlin", []*places.Record{nil, sampleRecords()[0]})
	require.NoError(t, err)

	results, err := repo.SearchResults(id)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestResultsNear(t *testing.T) {
	_, repo := setupRepo(t)

	_, err := repo.SaveSearch("berlin", sampleRecords())
	require.NoError(t, err)

	// A point a few hundred meters from the stored Berlin record falls in
	// the same res-6 cell.
	near, err := repo.ResultsNear(52.5205, 13.4060)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Berlin", near[0].Name)

	// Nothing saved around the antipode.
	far, err := repo.ResultsNear(-52.5, -166.6)
	require.NoError(t, err)
	assert.Empty(t, far)
}

func TestExportImportRoundTrip(t *testing.T) {
	_, repo := setupRepo(t)

	_, err := repo.SaveSearch("zurich", []*places.Record{
		{Name: "Zürich", DisplayName: "Zürich, Switzerland", Country: "Switzerland", Lat: 47.3769, Lon: 8.5417},
	})
	require.NoError(t, err)
	_, err = repo.SaveSearch("Berlin", sampleRecords())
	require.NoError(t, err)

	exports, err := repo.AllSearchesSorted()
	require.NoError(t, err)
	require.Len(t, exports, 2)

	// Sorted by normalized query for stable diffs.
	assert.Equal(t, "Berlin", exports[0].Query)
	assert.Equal(t, "zurich", exports[1].Query)
	assert.Len(t, exports[0].Results, 2)

	// Import into a fresh database preserves timestamps and contents.
	_, fresh := setupRepo(t)
	for _, entry := range exports {
		require.NoError(t, fresh.ImportSearch(entry))
	}

	reexported, err := fresh.AllSearchesSorted()
	require.NoError(t, err)
	require.Len(t, reexported, 2)
	assert.Equal(t, exports[0].Query, reexported[0].Query)
	assert.Equal(t, exports[0].SearchedAt.Unix(), reexported[0].SearchedAt.Unix())
	require.Len(t, reexported[0].Results, 2)
	assert.Equal(t, "Berlin, Germany", reexported[0].Results[0].DisplayName)
}

func TestImportNilEntryIsNoOp(t *testing.T) {
	_, repo := setupRepo(t)

	require.NoError(t, repo.ImportSearch(nil))

	count, err := repo.CountSearches()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
