// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
)

// Result holds a fully fetched query result.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// collect drains rows into a Result. All values are scanned as any and left
// with the driver's types.
func collect(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: cols}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Len returns the number of fetched rows.
func (r *Result) Len() int { return len(r.Rows) }

// RowMaps reshapes the result into one map per row, keyed by column name.
func (r *Result) RowMaps() []map[string]any {
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			if j < len(row) {
				m[col] = row[j]
			}
		}
		out[i] = m
	}
	return out
}

// MarshalJSON normalizes driver types ([]byte cells become strings) so results
// serialize cleanly.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	a := alias(r)

	if len(r.Rows) > 0 {
		norm := make([][]any, len(r.Rows))
		for i, row := range r.Rows {
			norm[i] = make([]any, len(row))
			for j, val := range row {
				switch v := val.(type) {
				case []byte:
					norm[i][j] = string(v)
				default:
					norm[i][j] = v
				}
			}
		}
		a.Rows = norm
	}
	return json.Marshal(a)
}

// Render writes the result as an aligned table with a header row.
func (r *Result) Render(w io.Writer) error {
	data := pterm.TableData{r.Columns}
	for _, row := range r.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		data = append(data, cells)
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
