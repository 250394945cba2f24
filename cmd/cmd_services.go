// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/nmerlino/cityscout/search"
	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the available search services",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		a, b := strings.Repeat("─", 10), strings.Repeat("─", 62)
		fmt.Println("Available search services:")
		fmt.Printf("╭─%-10s─┬─%-62s─╮\n", a, b)
		fmt.Printf("│ %-10s │ %-62s │\n", "Name", "Description")
		fmt.Printf("├─%-10s─┼─%-62s─┤\n", a, b)

		for _, name := range search.Available() {
			svc := search.New(name, cfg, search.Options{})
			marker := " "
			if name == cfg.Service {
				marker = "*"
			}
			fmt.Printf("│%s%-10s │ %-62s │\n", marker, svc.Name(), truncate(svc.Description(), 62))
		}

		fmt.Printf("╰─%-10s─┴─%-62s─╯\n", a, b)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}
