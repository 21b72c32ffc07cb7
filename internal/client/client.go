// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package client is the query façade over a connection.Manager: it composes
// SQL, forwards execution to the live session, and shapes rows into a Result.
//
// Table and schema names passed to the convenience helpers are interpolated
// into SQL verbatim, with no identifier validation. Do not feed them untrusted
// input. A Client wraps one Manager and inherits its concurrency contract:
// one query at a time, no concurrent use.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"snowflip/cli/internal/catalog"
	"snowflip/cli/internal/connection"
	"snowflip/cli/internal/errors"
)

// Client provides convenient access to Flipside datasets in Snowflake.
type Client struct {
	conn   *connection.Manager
	logger *slog.Logger

	// Datasets is the static catalog of known Flipside tables.
	Datasets *catalog.Catalog
}

// New builds a Client from connection options without connecting. Parameter
// resolution and validation errors surface here, before any I/O.
func New(opts connection.Options) (*Client, error) {
	m, err := connection.NewManager(opts)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{conn: m, logger: logger, Datasets: catalog.Default()}, nil
}

// Connect opens the warehouse session.
func (c *Client) Connect(ctx context.Context) error { return c.conn.Connect(ctx) }

// Disconnect closes the session; safe to call repeatedly.
func (c *Client) Disconnect() { c.conn.Disconnect() }

// IsConnected reports whether the session is live.
func (c *Client) IsConnected(ctx context.Context) bool { return c.conn.IsConnected(ctx) }

// WithSession runs fn connected and guarantees disconnect on every exit path.
func (c *Client) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.conn.WithSession(ctx, fn)
}

// Conn exposes the underlying manager, e.g. for inspecting resolved parameters.
func (c *Client) Conn() *connection.Manager { return c.conn }

func (c *Client) String() string {
	status := "disconnected"
	if c.conn.IsConnected(context.Background()) {
		status = "connected"
	}
	return fmt.Sprintf("Client(database=%s, status=%s)", c.conn.Params().Database, status)
}

type queryOptions struct {
	limit   int
	args    []any
	showSQL io.Writer
}

// Option adjusts a single Query call.
type Option func(*queryOptions)

// WithLimit appends a LIMIT clause to the statement. This is a naive textual
// rewrite: one trailing ";" is stripped and "LIMIT n" appended. A statement
// that already carries its own LIMIT, or hides its terminator behind trailing
// whitespace or comments, is passed through malformed rather than re-parsed.
func WithLimit(n int) Option { return func(o *queryOptions) { o.limit = n } }

// WithArgs supplies driver placeholder arguments.
func WithArgs(args ...any) Option { return func(o *queryOptions) { o.args = args } }

// WithShowSQL prints the statement about to be executed to w.
func WithShowSQL(w io.Writer) Option { return func(o *queryOptions) { o.showSQL = w } }

// Query executes sql against the warehouse and fetches all rows at once.
// While disconnected it fails with a connection error before any I/O.
// Execution and row-shaping failures come back as query errors wrapping the
// driver's cause.
func (c *Client) Query(ctx context.Context, sqlText string, opts ...Option) (*Result, error) {
	sess, err := c.conn.Session()
	if err != nil {
		return nil, err
	}

	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.limit > 0 {
		sqlText = fmt.Sprintf("%s LIMIT %d", strings.TrimSuffix(sqlText, ";"), o.limit)
	}
	if o.showSQL != nil {
		fmt.Fprintln(o.showSQL, "Executing SQL:")
		fmt.Fprintln(o.showSQL, strings.Repeat("=", 50))
		fmt.Fprintln(o.showSQL, sqlText)
		fmt.Fprintln(o.showSQL, strings.Repeat("=", 50))
	}

	c.logger.Info("executing query", "length", len(sqlText))

	rows, err := sess.QueryContext(ctx, sqlText, o.args...)
	if err != nil {
		return nil, errors.Wrap(errors.Query, "query execution failed", err)
	}
	defer rows.Close()

	res, err := collect(rows)
	if err != nil {
		return nil, errors.Wrap(errors.Query, "failed to read query results", err)
	}

	c.logger.Info("query finished", "rows", res.Len())
	return res, nil
}

// QuickQuery explores a table: SELECT columns FROM table LIMIT limit.
// limit defaults to 10 and columns to "*".
func (c *Client) QuickQuery(ctx context.Context, table string, limit int, columns string) (*Result, error) {
	if limit <= 0 {
		limit = 10
	}
	if columns == "" {
		columns = "*"
	}
	return c.Query(ctx, fmt.Sprintf("SELECT %s FROM %s LIMIT %d", columns, table, limit))
}

// DescribeTable returns the warehouse's column metadata for a table.
func (c *Client) DescribeTable(ctx context.Context, table string) (*Result, error) {
	return c.Query(ctx, fmt.Sprintf("DESCRIBE TABLE %s", table))
}

// ListTables lists tables in the given schema, or the current one when empty.
func (c *Client) ListTables(ctx context.Context, schema string) (*Result, error) {
	if schema != "" {
		return c.Query(ctx, fmt.Sprintf("SHOW TABLES IN SCHEMA %s", schema))
	}
	return c.Query(ctx, "SHOW TABLES")
}

// ListSchemas lists schemas in the given database, or the current one when empty.
func (c *Client) ListSchemas(ctx context.Context, database string) (*Result, error) {
	if database != "" {
		return c.Query(ctx, fmt.Sprintf("SHOW SCHEMAS IN DATABASE %s", database))
	}
	return c.Query(ctx, "SHOW SCHEMAS")
}

// TableInfo aggregates describe, row count, and a 5-row sample for a table.
// If any sub-query fails the whole call fails; no partial results.
type TableInfo struct {
	Table    string           `json:"table_name"`
	RowCount int64            `json:"row_count"`
	Columns  []map[string]any `json:"columns"`
	Sample   []map[string]any `json:"sample_data"`
}

// GetTableInfo composes DescribeTable, COUNT(*), and QuickQuery into one
// aggregate. Any sub-call failure aborts the call with a query error.
func (c *Client) GetTableInfo(ctx context.Context, table string) (*TableInfo, error) {
	wrap := func(err error) error {
		return errors.Wrap(errors.Query, fmt.Sprintf("failed to get table info for %s", table), err)
	}

	desc, err := c.DescribeTable(ctx, table)
	if err != nil {
		return nil, wrap(err)
	}
	count, err := c.Query(ctx, fmt.Sprintf("SELECT COUNT(*) as row_count FROM %s", table))
	if err != nil {
		return nil, wrap(err)
	}
	sample, err := c.QuickQuery(ctx, table, 5, "*")
	if err != nil {
		return nil, wrap(err)
	}

	var rowCount int64
	if count.Len() > 0 && len(count.Rows[0]) > 0 {
		rowCount, err = toInt64(count.Rows[0][0])
		if err != nil {
			return nil, wrap(err)
		}
	}

	return &TableInfo{
		Table:    table,
		RowCount: rowCount,
		Columns:  desc.RowMaps(),
		Sample:   sample.RowMaps(),
	}, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		var out int64
		_, err := fmt.Sscan(n, &out)
		return out, err
	case []byte:
		var out int64
		_, err := fmt.Sscan(string(n), &out)
		return out, err
	default:
		return 0, fmt.Errorf("unexpected row count type %T", v)
	}
}
