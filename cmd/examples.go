// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snowflip/cli/internal/catalog"
)

var examplesType string

// examplesCmd prints connection configuration snippets.
var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Show connection examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		examples := catalog.ConnectionExamples()
		snippet, ok := examples[examplesType]
		if !ok {
			return fmt.Errorf("unknown example type %q (available: env, basic, encrypted, scoped)", examplesType)
		}
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(examplesType + " connection")).
			Println(snippet)
		return nil
	},
}

func init() {
	examplesCmd.Flags().StringVarP(&examplesType, "type", "t", "basic", "Example type: env, basic, encrypted, scoped")
	rootCmd.AddCommand(examplesCmd)
}
