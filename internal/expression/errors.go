package expression

import (
	"errors"
	"fmt"
)

// Error categories. Every typed error below matches exactly one of these via errors.Is.
var (
	ErrSyntax           = errors.New("syntax error")
	ErrUnknownReference = errors.New("unknown reference")
	ErrInvalidOperator  = errors.New("invalid operator for domain")
	ErrCoercion         = errors.New("coercion failed")
	ErrMissingColumn    = errors.New("missing column")
	ErrDuplicateName    = errors.New("duplicate predicate name")
	ErrMissingResult    = errors.New("missing predicate result")
)

// SyntaxError reports a malformed formula. Position is a byte offset into the formula text.
type SyntaxError struct {
	Formula  string
	Message  string
	Position int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d in %q: %s", e.Position, e.Formula, e.Message)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// UnknownReferenceError reports a formula token that names no defined predicate.
type UnknownReferenceError struct {
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown reference %q: no predicate with that name is defined", e.Name)
}

// Is reports whether target is ErrUnknownReference.
func (e *UnknownReferenceError) Is(target error) bool {
	return target == ErrUnknownReference
}

// InvalidOperatorError reports an operator that cannot be used with the requested domain
// or comparison literal shape.
type InvalidOperatorError struct {
	Predicate string
	Operator  string
	Reason    string
	Domain    Domain
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("predicate %q: operator %q is not valid for %s: %s", e.Predicate, e.Operator, e.Domain, e.Reason)
}

// Is reports whether target is ErrInvalidOperator.
func (e *InvalidOperatorError) Is(target error) bool {
	return target == ErrInvalidOperator
}

// CoercionError reports a raw value that could not be read as the declared domain.
type CoercionError struct {
	Err    error
	Column string
	Value  string
	Domain Domain
}

func (e *CoercionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot compare %q as %s", e.Value, e.Domain)
	}
	return fmt.Sprintf("column %q: cannot compare %q as %s", e.Column, e.Value, e.Domain)
}

// Unwrap returns the underlying parse error.
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

// MissingColumnError reports a predicate column that the row does not have.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q does not exist", e.Column)
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
