package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyInput is returned when a CSV source has no header row.
var ErrEmptyInput = errors.New("input has no header row")

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader, delimiter rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	return New(header, rows)
}

// WriteCSV writes the header and every row.
func (t *Table) WriteCSV(w io.Writer, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// LoadFile reads a CSV file.
func LoadFile(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the user on the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadCSV(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// SaveFile writes a CSV file through a temporary file in the same directory, so a failed
// write never leaves a truncated table behind.
func (t *Table) SaveFile(path string, delimiter rune) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sift-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if err := t.WriteCSV(tmp, delimiter); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
