// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/nmerlino/cityscout/history"
	"github.com/nmerlino/cityscout/settings"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "cityscout",
	Short: "search and explore cities on OpenStreetMap",
	Long: `
cityscout resolves free-text city searches against OpenStreetMap's Nominatim
service, filters out near-duplicate results, and keeps a local history of
past searches.
`,
}

var rootOptions struct {
	dbPath string
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the environment and applies global flag overrides.
func loadSettings() (*settings.Settings, error) {
	cfg, err := settings.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if rootOptions.dbPath != "" {
		cfg.DbPath = rootOptions.dbPath
	}
	cfg.UserAgent = fmt.Sprintf("cityscout/%s (+https://github.com/nmerlino/cityscout)", Version)

	return cfg, nil
}

// openHistory opens the local database and returns a ready history
// repository. The caller owns the returned handle.
func openHistory(dbPath string) (*sql.DB, history.Repository, error) {
	if err := os.MkdirAll(dbPath, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(dbPath, "cityscout.duckdb"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo, err := history.NewRepository(db)
	if err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("initializing history repository: %w", err)
	}

	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating history schema: %w", err)
	}

	return db, repo, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOptions.dbPath,
		"db-path",
		"",
		"Directory holding the local database (overrides CITYSCOUT_DB_PATH)",
	)
}
