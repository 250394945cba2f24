// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/nmerlino/cityscout/history"
	"github.com/nmerlino/cityscout/places"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const historyFile = "history.json"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the local search history",
}

var historyListOptions struct {
	limit int
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past searches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		db, repo, err := openHistory(cfg.DbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := repo.ListSearches(historyListOptions.limit)
		if err != nil {
			return fmt.Errorf("listing searches: %w", err)
		}

		a, b, c, d := strings.Repeat("─", 4), strings.Repeat("─", 16), strings.Repeat("─", 7), strings.Repeat("─", 40)
		fmt.Printf("╭─%4s─┬─%-16s─┬─%-7s─┬─%-40s─╮\n", a, b, c, d)
		fmt.Printf("│ %4s │ %-16s │ %-7s │ %-40s │\n", "Id", "When", "Results", "Query")
		fmt.Printf("├─%4s─┼─%-16s─┼─%-7s─┼─%-40s─┤\n", a, b, c, d)

		for _, e := range entries {
			fmt.Printf("│ %4d │ %-16s │ %7d │ %-40s │\n",
				e.ID, e.SearchedAt.Local().Format("2006-01-02 15:04"), e.ResultCount, truncate(e.Query, 40))
		}

		fmt.Printf("╰─%4s─┴─%-16s─┴─%-7s─┴─%-40s─╯\n", a, b, c, d)

		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the search history to a file",
	Long:  `Exports every search and its results to a local JSON file. The file is sorted to minimize diffs when checking into version control.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		db, repo, err := openHistory(cfg.DbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		searches, err := repo.AllSearchesSorted()
		if err != nil {
			return fmt.Errorf("getting search history: %w", err)
		}

		data, err := json.MarshalIndent(searches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling search history: %w", err)
		}

		if err := os.WriteFile(historyFile, data, 0o600); err != nil {
			return fmt.Errorf("writing history file: %w", err)
		}

		fmt.Printf("✅ Exported %d searches to %s\n", len(searches), historyFile)

		return nil
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import searches from a previously exported file",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(historyFile)
		if err != nil {
			return fmt.Errorf("reading history file: %w", err)
		}

		var searches []*history.ExportedSearch
		if err := json.Unmarshal(data, &searches); err != nil {
			return fmt.Errorf("unmarshaling search history: %w", err)
		}

		db, repo, err := openHistory(cfg.DbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(searches),
				progressbar.OptionSetDescription("Importing "+historyFile),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		for _, entry := range searches {
			if err := repo.ImportSearch(entry); err != nil {
				return fmt.Errorf("importing search %q: %w", entry.Query, err)
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			_ = bar.Finish()
		}

		fmt.Printf("✅ Imported %d searches from %s\n", len(searches), historyFile)

		return nil
	},
}

var historyNearbyCmd = &cobra.Command{
	Use:   "nearby <lat> <lon>",
	Short: "List stored results near the given coordinates",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: %w", args[0], err)
		}

		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: %w", args[1], err)
		}

		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		db, repo, err := openHistory(cfg.DbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := repo.ResultsNear(lat, lon)
		if err != nil {
			return fmt.Errorf("querying nearby results: %w", err)
		}

		// Stored results of different searches may overlap; run them
		// through the same duplicate filter the searches use.
		collection := places.NewCollection()
		collection.InsertBatch(records)

		printResults(collection, nil)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyNearbyCmd)
	historyListCmd.Flags().IntVar(
		&historyListOptions.limit,
		"limit",
		20,
		"Maximum number of searches to list",
	)
}
