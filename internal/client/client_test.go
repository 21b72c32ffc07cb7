package client

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowflip/cli/internal/connection"
	snowerr "snowflip/cli/internal/errors"
)

// fakeDriver records executed statements and answers them through a
// per-test handler function.
type fakeDriver struct {
	mu      sync.Mutex
	handler func(query string) (cols []string, rows [][]driver.Value, err error)
	queries []string
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) { return &fakeConn{d: d}, nil }

func (d *fakeDriver) reset(h func(string) ([]string, [][]driver.Value, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
	d.queries = nil
}

func (d *fakeDriver) executed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.queries))
	copy(out, d.queries)
	return out
}

type fakeConn struct{ d *fakeDriver }

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("fake: prepare not supported")
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("fake: tx not supported") }
func (c *fakeConn) Ping(ctx context.Context) error { return nil }

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.d.mu.Lock()
	c.d.queries = append(c.d.queries, query)
	h := c.d.handler
	c.d.mu.Unlock()
	if h == nil {
		return &fakeRows{}, nil
	}
	cols, rows, err := h(query)
	if err != nil {
		return nil, err
	}
	return &fakeRows{cols: cols, rows: rows}, nil
}

type fakeRows struct {
	cols []string
	rows [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

var fake = &fakeDriver{}

func init() { sql.Register("clientfake", fake) }

func newTestClient(t *testing.T, h func(string) ([]string, [][]driver.Value, error)) *Client {
	t.Helper()
	for _, k := range []string{
		connection.EnvAccount, connection.EnvUser, connection.EnvPassword,
		connection.EnvWarehouse, connection.EnvDatabase, connection.EnvSchema,
	} {
		t.Setenv(k, "")
	}
	fake.reset(h)
	c, err := New(connection.Options{
		Params: connection.Params{
			Account: "xy12345", User: "alice", Password: "pw", Warehouse: "COMPUTE_WH",
		},
		DriverName: "clientfake",
	})
	require.NoError(t, err)
	return c
}

func connectTestClient(t *testing.T, h func(string) ([]string, [][]driver.Value, error)) *Client {
	t.Helper()
	c := newTestClient(t, h)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Disconnect)
	return c
}

func staticRows(cols []string, rows ...[]driver.Value) func(string) ([]string, [][]driver.Value, error) {
	return func(string) ([]string, [][]driver.Value, error) { return cols, rows, nil }
}

func TestQueryWhileDisconnected(t *testing.T) {
	c := newTestClient(t, nil)

	_, err := c.Query(context.Background(), "SELECT 1", WithLimit(5))
	require.Error(t, err)
	assert.True(t, snowerr.IsKind(err, snowerr.Connection))
	// No external resource was contacted.
	assert.Empty(t, fake.executed())
}

func TestQueryReturnsRows(t *testing.T) {
	c := connectTestClient(t, staticRows(
		[]string{"tx_hash", "block_number"},
		[]driver.Value{"0xabc", int64(123)},
		[]driver.Value{"0xdef", int64(456)},
	))

	res, err := c.Query(context.Background(), "SELECT tx_hash, block_number FROM ethereum.fact_transactions")
	require.NoError(t, err)
	assert.Equal(t, []string{"tx_hash", "block_number"}, res.Columns)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, "0xabc", res.Rows[0][0])
	assert.Equal(t, int64(456), res.Rows[1][1])
}

func TestQueryLimitRewrite(t *testing.T) {
	c := connectTestClient(t, nil)
	ctx := context.Background()

	_, err := c.Query(ctx, "SELECT 1;", WithLimit(5))
	require.NoError(t, err)
	_, err = c.Query(ctx, "SELECT 1", WithLimit(3))
	require.NoError(t, err)
	_, err = c.Query(ctx, "SELECT 1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"SELECT 1 LIMIT 5",
		"SELECT 1 LIMIT 3",
		"SELECT 1",
	}, fake.executed())
}

func TestQueryShowSQL(t *testing.T) {
	c := connectTestClient(t, nil)

	var buf bytes.Buffer
	_, err := c.Query(context.Background(), "SELECT 1", WithLimit(2), WithShowSQL(&buf))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Executing SQL:")
	assert.Contains(t, buf.String(), "SELECT 1 LIMIT 2")
}

func TestQueryExecutionError(t *testing.T) {
	c := connectTestClient(t, func(string) ([]string, [][]driver.Value, error) {
		return nil, nil, fmt.Errorf("SQL compilation error: object does not exist")
	})

	_, err := c.Query(context.Background(), "SELECT * FROM nope")
	require.Error(t, err)
	assert.True(t, snowerr.IsKind(err, snowerr.Query))
	assert.Contains(t, err.Error(), "object does not exist")
}

func TestQuickQueryDefaults(t *testing.T) {
	c := connectTestClient(t, nil)

	_, err := c.QuickQuery(context.Background(), "ethereum.fact_blocks", 0, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT * FROM ethereum.fact_blocks LIMIT 10"}, fake.executed())
}

func TestCatalogHelpersSQL(t *testing.T) {
	c := connectTestClient(t, nil)
	ctx := context.Background()

	_, err := c.DescribeTable(ctx, "ethereum.fact_traces")
	require.NoError(t, err)
	_, err = c.ListTables(ctx, "bitcoin")
	require.NoError(t, err)
	_, err = c.ListTables(ctx, "")
	require.NoError(t, err)
	_, err = c.ListSchemas(ctx, "FLIPSIDE_PROD_DB")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"DESCRIBE TABLE ethereum.fact_traces",
		"SHOW TABLES IN SCHEMA bitcoin",
		"SHOW TABLES",
		"SHOW SCHEMAS IN DATABASE FLIPSIDE_PROD_DB",
	}, fake.executed())
}

func TestGetTableInfo(t *testing.T) {
	c := connectTestClient(t, func(query string) ([]string, [][]driver.Value, error) {
		switch {
		case strings.HasPrefix(query, "DESCRIBE"):
			return []string{"name", "type"}, [][]driver.Value{
				{"TX_HASH", "VARCHAR"},
				{"BLOCK_NUMBER", "NUMBER"},
			}, nil
		case strings.HasPrefix(query, "SELECT COUNT"):
			return []string{"row_count"}, [][]driver.Value{{int64(42)}}, nil
		default:
			return []string{"tx_hash"}, [][]driver.Value{{"0xabc"}}, nil
		}
	})

	info, err := c.GetTableInfo(context.Background(), "ethereum.fact_transactions")
	require.NoError(t, err)
	assert.Equal(t, "ethereum.fact_transactions", info.Table)
	assert.Equal(t, int64(42), info.RowCount)
	require.Len(t, info.Columns, 2)
	assert.Equal(t, "TX_HASH", info.Columns[0]["name"])
	require.Len(t, info.Sample, 1)
}

func TestGetTableInfoAbortsOnPartialFailure(t *testing.T) {
	c := connectTestClient(t, func(query string) ([]string, [][]driver.Value, error) {
		if strings.HasPrefix(query, "SELECT COUNT") {
			return nil, nil, fmt.Errorf("count blew up")
		}
		return []string{"name"}, [][]driver.Value{{"TX_HASH"}}, nil
	})

	info, err := c.GetTableInfo(context.Background(), "ethereum.fact_transactions")
	require.Error(t, err)
	assert.Nil(t, info)
	assert.True(t, snowerr.IsKind(err, snowerr.Query))
	assert.Contains(t, err.Error(), "count blew up")
}

func TestResultShapes(t *testing.T) {
	res := &Result{
		Columns: []string{"a", "b"},
		Rows: [][]any{
			{int64(1), []byte("x")},
			{nil, "y"},
		},
	}

	maps := res.RowMaps()
	require.Len(t, maps, 2)
	assert.Equal(t, int64(1), maps[0]["a"])
	assert.Nil(t, maps[1]["a"])

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a","b"],"rows":[[1,"x"],[null,"y"]]}`, string(out))

	var buf bytes.Buffer
	require.NoError(t, res.Render(&buf))
	assert.Contains(t, buf.String(), "NULL")
	assert.Contains(t, buf.String(), "y")
}
