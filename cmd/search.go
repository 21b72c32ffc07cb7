// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snowflip/cli/internal/catalog"
)

// searchCmd finds tables by keyword. A keyword matching a domain name returns
// that domain's entire table list.
var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search datasets by keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := args[0]
		cat := catalog.Default()
		results := cat.Search(keyword)

		if len(results) == 0 {
			pterm.Printf("No datasets found matching %q\n", keyword)
			return nil
		}

		pterm.Printf("Datasets matching %q:\n\n", keyword)

		// Search results carry no defined order; sort for stable output.
		domains := make([]string, 0, len(results))
		for d := range results {
			domains = append(domains, d)
		}
		sort.Strings(domains)

		for _, domain := range domains {
			tables := results[domain]
			sort.Strings(tables)
			pterm.Println(pterm.Bold.Sprint(strings.ToUpper(domain)) + ":")
			for _, table := range tables {
				pterm.Printf("  %-30s %s\n", table, cat.Describe(table))
			}
			pterm.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
