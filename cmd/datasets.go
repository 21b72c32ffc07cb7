// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snowflip/cli/internal/catalog"
)

var datasetsDomain string

// datasetsCmd lists the static catalog of known Flipside tables, optionally
// narrowed to a single blockchain domain.
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List available Flipside datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Default()

		if datasetsDomain != "" {
			d, err := cat.DomainInfo(datasetsDomain)
			if err != nil {
				return err
			}
			pterm.DefaultSection.Println(strings.ToUpper(d.Name) + " datasets")
			for _, table := range d.Tables {
				pterm.Printf("  %-30s %s\n", table, cat.Describe(table))
			}
			return nil
		}

		pterm.Println("Available Flipside datasets:")
		pterm.Println()
		for _, d := range cat.Domains() {
			pterm.Println(pterm.Bold.Sprint(strings.ToUpper(d.Name)) + ":")
			for _, table := range d.Tables {
				fmt.Println("  " + table)
			}
			pterm.Println()
		}
		return nil
	},
}

func init() {
	datasetsCmd.Flags().StringVarP(&datasetsDomain, "domain", "d", "", "Filter by blockchain domain (e.g. ethereum)")
	rootCmd.AddCommand(datasetsCmd)
}
