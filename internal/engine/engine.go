// Package engine applies formulas and category lists to every row of a table.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Veraticus/sift/internal/expression"
)

// Derived column values.
const (
	True  = "1"
	False = "0"
)

// ErrColumnExists is returned when a derived column name is already taken and
// overwriting was not requested.
var ErrColumnExists = errors.New("column already exists")

// RowError reports the row whose evaluation failed. Index is zero-based.
type RowError struct {
	Err   error
	Index int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index+1, e.Err)
}

// Unwrap returns the evaluation error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Config holds options for the engine.
type Config struct {
	// Progress, when set, is called after every row.
	Progress ProgressFunc
	// Overwrite replaces an existing column of the same name instead of failing.
	Overwrite bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{}
}

// Engine evaluates formulas row by row, sequentially and in row order. Any evaluation
// error aborts the whole pass before the table is touched.
type Engine struct {
	progress  ProgressFunc
	overwrite bool
}

// New creates an engine with the default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(config Config) *Engine {
	return &Engine{
		progress:  config.Progress,
		overwrite: config.Overwrite,
	}
}

// Selection is the result of a filter pass.
type Selection struct {
	Rows    []int
	Scanned int
}

// Count returns the number of selected rows.
func (s *Selection) Count() int {
	return len(s.Rows)
}

// Keep reports whether a row was selected. It has the shape FilterRows expects.
func (s *Selection) Keep(row int) bool {
	_, found := slices.BinarySearch(s.Rows, row)
	return found
}

// Filter returns the indexes of the rows the formula accepts, in row order.
// The table is not modified.
func (e *Engine) Filter(t Table, f *expression.Formula) (*Selection, error) {
	if err := requireColumns(t, f.Columns()); err != nil {
		return nil, err
	}

	total := t.RowCount()
	sel := &Selection{Scanned: total}
	for i := 0; i < total; i++ {
		ok, err := f.Match(rowView(t, i))
		if err != nil {
			return nil, &RowError{Index: i, Err: err}
		}
		if ok {
			sel.Rows = append(sel.Rows, i)
		}
		e.report(i+1, total)
	}

	slog.Debug("Filtered rows",
		"formula", f.Text(),
		"scanned", sel.Scanned,
		"matched", sel.Count())

	return sel, nil
}

// Count returns how many rows the formula accepts.
func (e *Engine) Count(t Table, f *expression.Formula) (int, error) {
	sel, err := e.Filter(t, f)
	if err != nil {
		return 0, err
	}
	return sel.Count(), nil
}

// BooleanColumn computes "1" or "0" for every row without modifying the table.
func (e *Engine) BooleanColumn(t Table, f *expression.Formula) ([]string, error) {
	if err := requireColumns(t, f.Columns()); err != nil {
		return nil, err
	}

	total := t.RowCount()
	values := make([]string, total)
	for i := 0; i < total; i++ {
		ok, err := f.Match(rowView(t, i))
		if err != nil {
			return nil, &RowError{Index: i, Err: err}
		}
		values[i] = False
		if ok {
			values[i] = True
		}
		e.report(i+1, total)
	}
	return values, nil
}

// DeriveBoolean writes the formula's result for every row into a new column.
func (e *Engine) DeriveBoolean(t WritableTable, column string, f *expression.Formula) error {
	if err := e.checkTarget(t, column); err != nil {
		return err
	}

	values, err := e.BooleanColumn(t, f)
	if err != nil {
		return err
	}

	if err := e.writeColumn(t, column, values); err != nil {
		return err
	}

	slog.Debug("Derived boolean column",
		"column", column,
		"formula", f.Text(),
		"rows", len(values),
		"true", countValue(values, True))

	return nil
}

// CategoryColumn resolves a category label for every row without modifying the table.
func (e *Engine) CategoryColumn(t Table, list *expression.CategoryList) ([]string, error) {
	// Every column any rule reads must exist, even for rules no row reaches.
	if err := requireColumns(t, list.Columns()); err != nil {
		return nil, err
	}

	total := t.RowCount()
	labels := make([]string, total)
	for i := 0; i < total; i++ {
		label, err := list.Resolve(rowView(t, i))
		if err != nil {
			return nil, &RowError{Index: i, Err: err}
		}
		labels[i] = label
		e.report(i+1, total)
	}
	return labels, nil
}

// Categorize writes each row's first matching category, or expression.DefaultCategory,
// into a new column.
func (e *Engine) Categorize(t WritableTable, column string, list *expression.CategoryList) error {
	if err := e.checkTarget(t, column); err != nil {
		return err
	}

	labels, err := e.CategoryColumn(t, list)
	if err != nil {
		return err
	}

	if err := e.writeColumn(t, column, labels); err != nil {
		return err
	}

	slog.Debug("Derived category column",
		"column", column,
		"rules", len(list.Rules()),
		"rows", len(labels),
		"uncategorized", countValue(labels, expression.DefaultCategory))

	return nil
}

func (e *Engine) report(done, total int) {
	if e.progress != nil {
		e.progress(done, total)
	}
}

// checkTarget rejects a column name that is taken, unless overwriting is allowed and possible.
func (e *Engine) checkTarget(t Table, column string) error {
	if !slices.Contains(t.Columns(), column) {
		return nil
	}
	if !e.overwrite {
		return fmt.Errorf("%w: %q", ErrColumnExists, column)
	}
	if _, ok := t.(ColumnReplacer); !ok {
		return fmt.Errorf("%w: %q and the table cannot replace columns", ErrColumnExists, column)
	}
	return nil
}

func (e *Engine) writeColumn(t WritableTable, column string, values []string) error {
	if slices.Contains(t.Columns(), column) {
		replacer, ok := t.(ColumnReplacer)
		if !e.overwrite || !ok {
			return fmt.Errorf("%w: %q", ErrColumnExists, column)
		}
		if err := replacer.ReplaceColumn(column, values); err != nil {
			return fmt.Errorf("failed to replace column %q: %w", column, err)
		}
		return nil
	}

	if err := t.AppendColumn(column, values); err != nil {
		return fmt.Errorf("failed to append column %q: %w", column, err)
	}
	return nil
}

func requireColumns(t Table, columns []string) error {
	have := t.Columns()
	for _, c := range columns {
		if !slices.Contains(have, c) {
			return &expression.MissingColumnError{Column: c}
		}
	}
	return nil
}

// rowView exposes one table row to predicates.
func rowView(t Table, row int) expression.Row {
	return expression.RowFunc(func(column string) (string, bool) {
		v, err := t.Value(row, column)
		if err != nil {
			return "", false
		}
		return v, true
	})
}

func countValue(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
