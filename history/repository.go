// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package history persists past searches and their deduplicated results in a
// local DuckDB database.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nmerlino/cityscout/places"
	"github.com/nmerlino/cityscout/spatial"
	"github.com/nmerlino/cityscout/textutil"
	"github.com/uber/h3-go/v4"
)

// h3Resolutions are the index resolutions stored per result: coarse (res 4,
// ~region), medium (res 6, ~city) and fine (res 8, ~neighborhood).
var h3Resolutions = []int{4, 6, 8}

// nearbyResolution is the cell size used by ResultsNear.
const nearbyResolution = 6

// SearchEntry is one row of the searches table.
type SearchEntry struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	SearchedAt  time.Time `json:"searched_at"`
	ResultCount int       `json:"result_count"`
}

// ExportedSearch is the export/import representation of one search and its
// results.
type ExportedSearch struct {
	Query      string           `json:"query"`
	SearchedAt time.Time        `json:"searched_at"`
	Results    []*places.Record `json:"results"`
}

// Repository handles persistence of the search history.
type Repository interface {
	// CreateSchema creates the history tables.
	CreateSchema() error

	// SaveSearch records a query and the deduplicated results it produced.
	SaveSearch(query string, records []*places.Record) (int64, error)

	// ListSearches returns the most recent searches, newest first.
	ListSearches(limit int) ([]*SearchEntry, error)

	// SearchResults returns the stored results of one search, in display order.
	SearchResults(searchID int64) ([]*places.Record, error)

	// CountSearches returns the total number of stored searches.
	CountSearches() (int, error)

	// ResultsNear returns stored results that share an H3 cell with the
	// given coordinates.
	ResultsNear(lat, lon float64) ([]*places.Record, error)

	// AllSearchesSorted returns every search with its results, sorted to
	// minimize diffs when the export is checked into version control.
	AllSearchesSorted() ([]*ExportedSearch, error)

	// ImportSearch stores one exported search, preserving its timestamp.
	ImportSearch(entry *ExportedSearch) error
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository wraps db as a history repository. DuckDB needs the spatial
// extension for the geometry column.
func NewRepository(db *sql.DB) (Repository, error) {
	if _, err := db.Exec(`INSTALL spatial; LOAD spatial;`); err != nil {
		return nil, fmt.Errorf("loading spatial extension: %w", err)
	}

	return &sqlRepository{db: db}, nil
}

func (r *sqlRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS searches_id_seq;
		CREATE TABLE IF NOT EXISTS searches (
			id BIGINT PRIMARY KEY DEFAULT nextval('searches_id_seq'),
			query VARCHAR NOT NULL,
			normalized_query VARCHAR NOT NULL,
			searched_at TIMESTAMP NOT NULL,
			result_count INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS search_results (
			search_id BIGINT NOT NULL,
			name VARCHAR NOT NULL,
			display_name VARCHAR NOT NULL,
			country VARCHAR,
			point GEOMETRY,
			h3_res4 BIGINT,
			h3_res6 BIGINT,
			h3_res8 BIGINT
		);
	`)
	if err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}

	return nil
}

func (r *sqlRepository) SaveSearch(query string, records []*places.Record) (int64, error) {
	return r.saveSearch(query, time.Now().UTC(), records)
}

func (r *sqlRepository) ImportSearch(entry *ExportedSearch) error {
	if entry == nil {
		return nil
	}

	_, err := r.saveSearch(entry.Query, entry.SearchedAt, entry.Results)

	return err
}

func (r *sqlRepository) saveSearch(query string, at time.Time, records []*places.Record) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var searchID int64

	err = tx.QueryRow(`
		INSERT INTO searches (query, normalized_query, searched_at, result_count)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		query, textutil.Fold(query), at, len(records),
	).Scan(&searchID)
	if err != nil {
		return 0, fmt.Errorf("inserting search: %w", err)
	}

	for _, record := range records {
		if record == nil {
			continue
		}

		cells, err := computeH3Cells(record.Lat, record.Lon)
		if err != nil {
			return 0, err
		}

		point := spatial.Point{Lat: record.Lat, Lng: record.Lon}

		_, err = tx.Exec(`
			INSERT INTO search_results
				(search_id, name, display_name, country, point, h3_res4, h3_res6, h3_res8)
			VALUES (?, ?, ?, ?, ST_GeomFromText(?::VARCHAR), ?, ?, ?)`,
			searchID, record.Name, record.DisplayName, record.Country,
			point.String(), cells[0], cells[1], cells[2],
		)
		if err != nil {
			return 0, fmt.Errorf("inserting result %q: %w", record.DisplayName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing search: %w", err)
	}

	return searchID, nil
}

// computeH3Cells indexes a coordinate at every stored resolution, in the
// order of h3Resolutions.
func computeH3Cells(lat, lon float64) ([]int64, error) {
	latLng := h3.NewLatLng(lat, lon)
	cells := make([]int64, len(h3Resolutions))

	for i, res := range h3Resolutions {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		cells[i] = int64(cell)
	}

	return cells, nil
}

func (r *sqlRepository) ListSearches(limit int) ([]*SearchEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, query, searched_at, result_count
		FROM searches
		ORDER BY searched_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}

	defer rows.Close()

	var entries []*SearchEntry

	for rows.Next() {
		entry := &SearchEntry{}
		if err := rows.Scan(&entry.ID, &entry.Query, &entry.SearchedAt, &entry.ResultCount); err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *sqlRepository) SearchResults(searchID int64) ([]*places.Record, error) {
	rows, err := r.db.Query(`
		SELECT name, display_name, country, ST_AsText(point)
		FROM search_results
		WHERE search_id = ?
		ORDER BY lower(display_name), country, ST_Y(point), ST_X(point)`,
		searchID)
	if err != nil {
		return nil, fmt.Errorf("loading search results: %w", err)
	}

	defer rows.Close()

	return scanRecords(rows)
}

func (r *sqlRepository) CountSearches() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT count(*) FROM searches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting searches: %w", err)
	}

	return count, nil
}

func (r *sqlRepository) ResultsNear(lat, lon float64) ([]*places.Record, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lon), nearbyResolution)
	if err != nil {
		return nil, fmt.Errorf("converting to h3 cell: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT DISTINCT name, display_name, country, ST_AsText(point)
		FROM search_results
		WHERE h3_res6 = ?
		ORDER BY lower(display_name), country`,
		int64(cell))
	if err != nil {
		return nil, fmt.Errorf("loading nearby results: %w", err)
	}

	defer rows.Close()

	return scanRecords(rows)
}

func (r *sqlRepository) AllSearchesSorted() ([]*ExportedSearch, error) {
	rows, err := r.db.Query(`
		SELECT id, query, searched_at
		FROM searches
		ORDER BY normalized_query, searched_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing searches for export: %w", err)
	}

	defer rows.Close()

	var exports []*ExportedSearch

	var ids []int64

	for rows.Next() {
		var id int64

		export := &ExportedSearch{}
		if err := rows.Scan(&id, &export.Query, &export.SearchedAt); err != nil {
			return nil, fmt.Errorf("scanning search for export: %w", err)
		}

		exports = append(exports, export)
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		results, err := r.SearchResults(id)
		if err != nil {
			return nil, err
		}

		exports[i].Results = results
	}

	return exports, nil
}

// scanRecords reads (name, display_name, country, wkt point) rows.
func scanRecords(rows *sql.Rows) ([]*places.Record, error) {
	var records []*places.Record

	for rows.Next() {
		var (
			record places.Record
			wkt    sql.NullString
		)

		if err := rows.Scan(&record.Name, &record.DisplayName, &record.Country, &wkt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		if wkt.Valid {
			var point spatial.Point
			if err := point.Scan(wkt.String); err != nil {
				return nil, fmt.Errorf("parsing point %q: %w", wkt.String, err)
			}

			record.Lat = point.Lat
			record.Lon = point.Lng
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}
