// Package model defines the core data structures for the sift application.
package model

import (
	"errors"
	"time"
)

// SpecKind says which operation an authored specification drives.
type SpecKind string

// Specification kinds.
const (
	// SpecKindFilter selects or counts rows.
	SpecKindFilter SpecKind = "filter"
	// SpecKindDerive writes a 0/1 column.
	SpecKindDerive SpecKind = "derive"
	// SpecKindCategorize writes a category label column.
	SpecKindCategorize SpecKind = "categorize"
)

// ErrInvalidSpecKind is returned for an unrecognized kind.
var ErrInvalidSpecKind = errors.New("invalid specification kind")

// ParseSpecKind validates a kind name.
func ParseSpecKind(s string) (SpecKind, error) {
	switch k := SpecKind(s); k {
	case SpecKindFilter, SpecKindDerive, SpecKindCategorize:
		return k, nil
	}
	return "", ErrInvalidSpecKind
}

// SavedSpec is an authored specification kept in the library for reuse.
type SavedSpec struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Kind        SpecKind   `json:"kind"`
	Body        string     `json:"body"`
	ID          int        `json:"id"`
	UseCount    int        `json:"use_count"`
}
