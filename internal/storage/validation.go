// Package storage provides the data persistence layer for the sift application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/sift/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidSpec   = errors.New("invalid specification")
	ErrSpecNotFound  = errors.New("specification not found")
	ErrInvalidFilter = errors.New("invalid list filter")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSpec checks the fields the database does not enforce itself.
// The body is validated by the caller, which knows how to decode it.
func validateSpec(spec *model.SavedSpec) error {
	if spec == nil {
		return fmt.Errorf("%w: spec", ErrNilParameter)
	}
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	if strings.ContainsAny(spec.Name, " \t\n") {
		return fmt.Errorf("%w: name %q cannot contain whitespace", ErrInvalidSpec, spec.Name)
	}
	if _, err := model.ParseSpecKind(string(spec.Kind)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if strings.TrimSpace(spec.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidSpec)
	}
	return nil
}
