// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/nmerlino/cityscout/browser"
	"github.com/nmerlino/cityscout/nominatim"
	"github.com/nmerlino/cityscout/places"
	"github.com/nmerlino/cityscout/search"
	"github.com/nmerlino/cityscout/settings"
	"github.com/nmerlino/cityscout/spatial"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var searchOptions struct {
	service             string
	limit               int
	pages               int
	open                int
	from                string
	save                bool
	enableHTTPTrace     bool
	enableHTTPBodyTrace bool
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for cities matching a free-text query",
	Long: `
Resolves the query against the configured search service, drops results that
duplicate an earlier one (same label, same name and country, or coordinates
closer than ~0.001 degrees on both axes) and prints the survivors sorted by
display label.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		if searchOptions.service != "" {
			cfg.Service = searchOptions.service
		}

		query := strings.Join(args, " ")

		var origin *spatial.Point
		if searchOptions.from != "" {
			origin, err = parseLatLon(searchOptions.from)
			if err != nil {
				return err
			}
		}

		records, err := runSearch(cmd.Context(), cfg, query)
		if err != nil {
			return err
		}

		collection := places.NewCollection()
		collection.InsertBatch(records)

		printResults(collection, origin)
		log.Printf("%d of %d results kept after removing duplicates", collection.Len(), len(records))

		if searchOptions.save {
			db, repo, err := openHistory(cfg.DbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := repo.SaveSearch(query, collection.Records())
			if err != nil {
				return fmt.Errorf("saving search: %w", err)
			}

			log.Printf("Saved search #%d with %d results", id, collection.Len())
		}

		if searchOptions.open > 0 {
			record := collection.At(searchOptions.open - 1)
			if record == nil {
				return fmt.Errorf("no result #%d to open, got %d results", searchOptions.open, collection.Len())
			}

			return browser.Open(browser.OSMMapURL(record.Lat, record.Lon))
		}

		return nil
	},
}

// runSearch fetches results through the configured service. Multi-page
// fetches talk to Nominatim directly, excluding already-seen place ids
// between pages.
func runSearch(ctx context.Context, cfg *settings.Settings, query string) ([]*places.Record, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Service))
	if searchOptions.pages > 1 && (name == "" || name == "nominatim") {
		return runPagedSearch(ctx, cfg, query)
	}

	svc := search.New(cfg.Service, cfg, search.Options{
		Limit:               searchOptions.limit,
		EnableHTTPTrace:     searchOptions.enableHTTPTrace,
		EnableHTTPBodyTrace: searchOptions.enableHTTPBodyTrace,
	})

	return svc.Search(ctx, query)
}

func runPagedSearch(ctx context.Context, cfg *settings.Settings, query string) ([]*places.Record, error) {
	client := nominatim.NewClient(&nominatim.ClientOptions{
		BaseURL:             cfg.NominatimURL,
		UserAgent:           cfg.UserAgent,
		Timeout:             cfg.HTTPTimeout,
		EnableHTTPTrace:     searchOptions.enableHTTPTrace,
		EnableHTTPBodyTrace: searchOptions.enableHTTPBodyTrace,
	})

	req := nominatim.NewSearchRequest(query)
	if searchOptions.limit != 0 {
		req.SetLimit(searchOptions.limit)
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(searchOptions.pages,
			progressbar.OptionSetDescription("Searching "+query),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	records, err := client.SearchPages(ctx, req, searchOptions.pages, func(_ int) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, search.ErrNoResults
	}

	return records, nil
}

func printResults(collection *places.Collection, origin *spatial.Point) {
	a, b, c, d := strings.Repeat("─", 2), strings.Repeat("─", 20), strings.Repeat("─", 14), strings.Repeat("─", 20)

	if origin == nil {
		fmt.Printf("╭─%2s─┬─%-20s─┬─%-14s─┬─%-20s─╮\n", a, b, c, d)
		fmt.Printf("│ %2s │ %-20s │ %-14s │ %-20s │\n", "Id", "Name", "Country", "Coordinates")
		fmt.Printf("├─%2s─┼─%-20s─┼─%-14s─┼─%-20s─┤\n", a, b, c, d)

		for i, r := range collection.Records() {
			fmt.Printf("│ %2d │ %-20s │ %-14s │ %9.4f, %9.4f │\n",
				i+1, truncate(r.Name, 20), truncate(r.Country, 14), r.Lat, r.Lon)
		}

		fmt.Printf("╰─%2s─┴─%-20s─┴─%-14s─┴─%-20s─╯\n", a, b, c, d)

		return
	}

	e := strings.Repeat("─", 11)
	fmt.Printf("╭─%2s─┬─%-20s─┬─%-14s─┬─%-20s─┬─%-11s─╮\n", a, b, c, d, e)
	fmt.Printf("│ %2s │ %-20s │ %-14s │ %-20s │ %-11s │\n", "Id", "Name", "Country", "Coordinates", "Distance")
	fmt.Printf("├─%2s─┼─%-20s─┼─%-14s─┼─%-20s─┼─%-11s─┤\n", a, b, c, d, e)

	for i, r := range collection.Records() {
		point := &spatial.Point{Lat: r.Lat, Lng: r.Lon}
		fmt.Printf("│ %2d │ %-20s │ %-14s │ %9.4f, %9.4f │ %8.1f km │\n",
			i+1, truncate(r.Name, 20), truncate(r.Country, 14), r.Lat, r.Lon,
			origin.HaversineDistance(point)/1000)
	}

	fmt.Printf("╰─%2s─┴─%-20s─┴─%-14s─┴─%-20s─┴─%-11s─╯\n", a, b, c, d, e)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-1]) + "…"
}

func parseLatLon(s string) (*spatial.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid coordinates %q, expected lat,lon", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}

	return &spatial.Point{Lat: lat, Lng: lon}, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(
		&searchOptions.service,
		"service",
		"",
		"Search service to use (overrides CITYSCOUT_SERVICE)",
	)
	searchCmd.Flags().IntVar(
		&searchOptions.limit,
		"limit",
		0,
		"Maximum number of raw results per page, before deduplication",
	)
	searchCmd.Flags().IntVar(
		&searchOptions.pages,
		"pages",
		1,
		"Number of result pages to fetch from Nominatim",
	)
	searchCmd.Flags().IntVar(
		&searchOptions.open,
		"open",
		0,
		"Open the given result (by table Id) on openstreetmap.org",
	)
	searchCmd.Flags().StringVar(
		&searchOptions.from,
		"from",
		"",
		"Reference coordinates as \"lat,lon\"; adds a distance column",
	)
	searchCmd.Flags().BoolVar(
		&searchOptions.save,
		"save",
		false,
		"Record the search and its results in the local history",
	)
	searchCmd.Flags().BoolVar(
		&searchOptions.enableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	searchCmd.Flags().BoolVar(
		&searchOptions.enableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
