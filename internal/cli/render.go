package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/sift/internal/engine"
)

// RenderTable prints up to limit rows of t as aligned columns. A limit of
// zero or less prints every row.
func RenderTable(w io.Writer, t engine.Table, limit int) error {
	columns := t.Columns()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, c := range columns {
		header[i] = TableHeaderStyle.Render(c)
		rule[i] = strings.Repeat("─", max(len(c), 3))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rule, "\t")); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	rows := t.RowCount()
	shown := rows
	if limit > 0 && limit < rows {
		shown = limit
	}

	cells := make([]string, len(columns))
	for r := 0; r < shown; r++ {
		for i, c := range columns {
			v, err := t.Value(r, c)
			if err != nil {
				return err
			}
			cells[i] = v
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	if shown < rows {
		if _, err := fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("… %d more rows", rows-shown))); err != nil {
			return err
		}
	}
	return nil
}
