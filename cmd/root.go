// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the snowflip CLI.
// It implements subcommands for dataset discovery, credential encryption, and
// connection testing using the Cobra CLI framework. Errors are masked before
// printing so credentials never reach the terminal or shell history files.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snowflip/cli/internal/logging"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "snowflip",
	Short:         "snowflip CLI for querying Flipside Crypto datasets via Snowflake",
	Long:          `snowflip is a command-line tool for exploring and querying Flipside Crypto's curated blockchain datasets hosted in a Snowflake warehouse.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("snowflip %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application. Errors print to stderr, masked, and cause
// a non-zero exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("Error", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
