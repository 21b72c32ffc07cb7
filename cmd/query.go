// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snowflip/cli/internal/client"
)

var (
	queryFlags   connFlags
	queryLimit   int
	queryShowSQL bool
	queryJSON    bool
)

// queryCmd runs a single SQL statement against the warehouse and renders the
// result as a table, or as JSON with --json.
var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Execute a SQL query against Flipside datasets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := queryFlags.options()
		if err != nil {
			return err
		}
		c, err := client.New(opts)
		if err != nil {
			return err
		}

		var qopts []client.Option
		if queryLimit > 0 {
			qopts = append(qopts, client.WithLimit(queryLimit))
		}
		if queryShowSQL {
			qopts = append(qopts, client.WithShowSQL(os.Stderr))
		}

		return c.WithSession(cmd.Context(), func(ctx context.Context) error {
			res, err := c.Query(ctx, args[0], qopts...)
			if err != nil {
				return err
			}
			if queryJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if err := res.Render(os.Stdout); err != nil {
				return err
			}
			fmt.Printf("%d row(s)\n", res.Len())
			return nil
		})
	},
}

func init() {
	queryFlags.register(queryCmd)
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "l", 0, "Append a LIMIT clause")
	queryCmd.Flags().BoolVar(&queryShowSQL, "show-sql", false, "Print the SQL being executed")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Emit the result as JSON")
	rootCmd.AddCommand(queryCmd)
}
