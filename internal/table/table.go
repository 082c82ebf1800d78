// Package table provides an in-memory, string-valued table with CSV input and output.
package table

import (
	"errors"
	"fmt"
	"slices"
)

// Table errors.
var (
	ErrColumnExists   = errors.New("column already exists")
	ErrColumnNotFound = errors.New("column not found")
	ErrRowOutOfRange  = errors.New("row out of range")
	ErrLengthMismatch = errors.New("value count does not match row count")
)

// Table holds rows of text cells under named columns. Column order and row order are
// preserved by every operation.
type Table struct {
	index   map[string]int
	columns []string
	rows    [][]string
}

// New creates a table. Every row must have one cell per column and column names must be unique.
func New(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]string, 0, len(rows)),
	}
	for i, c := range columns {
		if _, ok := t.index[c]; ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnExists, c)
		}
		t.index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(r), len(columns))
		}
		t.rows = append(t.rows, slices.Clone(r))
	}
	return t, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Value returns one cell.
func (t *Table) Value(row int, column string) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	i, ok := t.index[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return t.rows[row][i], nil
}

// Row returns a copy of one row's cells.
func (t *Table) Row(row int) []string {
	return slices.Clone(t.rows[row])
}

// Column returns a copy of one column's cells.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	values := make([]string, len(t.rows))
	for r, row := range t.rows {
		values[r] = row[i]
	}
	return values, nil
}

// AppendColumn adds a column at the end, one value per row.
func (t *Table) AppendColumn(name string, values []string) error {
	if t.HasColumn(name) {
		return fmt.Errorf("%w: %q", ErrColumnExists, name)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("%w: %d values for %d rows", ErrLengthMismatch, len(values), len(t.rows))
	}

	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for r := range t.rows {
		t.rows[r] = append(t.rows[r], values[r])
	}
	return nil
}

// ReplaceColumn overwrites an existing column's values in place.
func (t *Table) ReplaceColumn(name string, values []string) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("%w: %d values for %d rows", ErrLengthMismatch, len(values), len(t.rows))
	}
	for r := range t.rows {
		t.rows[r][i] = values[r]
	}
	return nil
}

// FilterRows returns a new table with the rows keep accepts, in their original order.
// The receiver is not modified.
func (t *Table) FilterRows(keep func(row int) bool) *Table {
	out := &Table{
		columns: slices.Clone(t.columns),
		index:   make(map[string]int, len(t.index)),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	for r, row := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, slices.Clone(row))
		}
	}
	return out
}
