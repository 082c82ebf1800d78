package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/sift/internal/model"
)

const specColumns = `id, name, kind, description, body, use_count, last_used_at, created_at, updated_at`

// SaveSpec inserts a specification or replaces the one with the same name.
// On return spec.ID and the timestamps reflect the stored row.
func (s *SQLiteStorage) SaveSpec(ctx context.Context, spec *model.SavedSpec) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSpec(spec); err != nil {
		return err
	}

	query := `
		INSERT INTO specs (name, kind, description, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			description = excluded.description,
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, spec.Name, string(spec.Kind), spec.Description, spec.Body); err != nil {
		return fmt.Errorf("failed to save specification: %w", err)
	}

	stored, err := s.GetSpec(ctx, spec.Name)
	if err != nil {
		return err
	}
	*spec = *stored
	return nil
}

// GetSpec retrieves a specification by name.
func (s *SQLiteStorage) GetSpec(ctx context.Context, name string) (*model.SavedSpec, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+specColumns+` FROM specs WHERE name = ?`, name)
	spec, err := scanSpec(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrSpecNotFound, name)
		}
		return nil, fmt.Errorf("failed to get specification: %w", err)
	}
	return spec, nil
}

// ListSpecs returns specifications ordered by name. An empty kind lists every kind.
func (s *SQLiteStorage) ListSpecs(ctx context.Context, kind model.SpecKind) ([]model.SavedSpec, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + specColumns + ` FROM specs`
	var args []any
	if kind != "" {
		if _, err := model.ParseSpecKind(string(kind)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list specifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var specs []model.SavedSpec
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan specification: %w", err)
		}
		specs = append(specs, *spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate specifications: %w", err)
	}
	return specs, nil
}

// DeleteSpec removes a specification by name.
func (s *SQLiteStorage) DeleteSpec(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM specs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete specification: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrSpecNotFound, name)
	}
	return nil
}

// RecordSpecUse bumps the use count and last-used time of a specification.
func (s *SQLiteStorage) RecordSpecUse(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE specs SET use_count = use_count + 1, last_used_at = ? WHERE name = ?`,
		time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("failed to record specification use: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrSpecNotFound, name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpec(row rowScanner) (*model.SavedSpec, error) {
	var spec model.SavedSpec
	var kind string
	var lastUsed sql.NullTime
	if err := row.Scan(
		&spec.ID, &spec.Name, &kind, &spec.Description, &spec.Body,
		&spec.UseCount, &lastUsed, &spec.CreatedAt, &spec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	spec.Kind = model.SpecKind(kind)
	if lastUsed.Valid {
		t := lastUsed.Time
		spec.LastUsedAt = &t
	}
	return &spec, nil
}
