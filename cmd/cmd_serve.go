// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/nmerlino/cityscout/history"
	"github.com/nmerlino/cityscout/search"
	"github.com/nmerlino/cityscout/webui"
	"github.com/spf13/cobra"
)

var serveOptions struct {
	service   string
	addr      string
	noHistory bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the city search web server (local only)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		if serveOptions.service != "" {
			cfg.Service = serveOptions.service
		}
		if serveOptions.addr != "" {
			cfg.ListenAddr = serveOptions.addr
		}

		svc := search.New(cfg.Service, cfg, search.Options{})

		var repo history.Repository
		if !serveOptions.noHistory {
			db, r, err := openHistory(cfg.DbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			repo = r
		}

		server := webui.NewServer(svc, repo)

		fmt.Println("🌆 City search server starting...")
		fmt.Printf("📍 Open http://%s in your browser\n", cfg.ListenAddr)
		fmt.Println("🔒 Local only - not exposed to internet")

		return server.Run(cfg.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOptions.service,
		"service",
		"",
		"Search service to use (overrides CITYSCOUT_SERVICE)",
	)
	serveCmd.Flags().StringVar(
		&serveOptions.addr,
		"listen",
		"",
		"Address to bind to (overrides CITYSCOUT_LISTEN_ADDR)",
	)
	serveCmd.Flags().BoolVar(
		&serveOptions.noHistory,
		"no-history",
		false,
		"Serve without opening the local database; history endpoints are disabled",
	)
}
