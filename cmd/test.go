// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snowflip/cli/internal/client"
	"snowflip/cli/internal/logging"
)

var testFlags connFlags

// testCmd verifies that a connection to the warehouse can be established with
// the resolved parameters. It exits non-zero on failure.
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the Snowflake connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := testFlags.options()
		if err != nil {
			return err
		}
		c, err := client.New(opts)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		spinner, _ := pterm.DefaultSpinner.Start("verifying connection")

		start := time.Now()
		err = c.WithSession(ctx, func(ctx context.Context) error {
			res, err := c.Query(ctx, "SELECT CURRENT_VERSION()")
			if err != nil {
				return err
			}
			spinner.Success("Connection successful")
			p := c.Conn().Params()
			pterm.Printf("  account:   %s\n", p.Account)
			pterm.Printf("  database:  %s.%s\n", p.Database, p.Schema)
			if res.Len() > 0 && len(res.Rows[0]) > 0 {
				pterm.Printf("  version:   %v\n", res.Rows[0][0])
			}
			pterm.Printf("  took:      %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		})
		if err != nil {
			spinner.Fail(logging.PresentError("Connection failed", err))
			return err
		}
		return nil
	},
}

func init() {
	testFlags.register(testCmd)
	rootCmd.AddCommand(testCmd)
}
