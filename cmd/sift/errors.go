package main

import (
	"errors"

	"github.com/Veraticus/sift/internal/authoring"
	"github.com/Veraticus/sift/internal/common"
	"github.com/Veraticus/sift/internal/engine"
	"github.com/Veraticus/sift/internal/expression"
	"github.com/Veraticus/sift/internal/storage"
)

// describe returns a one-line explanation of what kind of failure err is.
func describe(err error) string {
	switch {
	case errors.Is(err, authoring.ErrMalformedInput):
		return "The specification could not be read"
	case errors.Is(err, expression.ErrSyntax):
		return "The evaluation formula is malformed"
	case errors.Is(err, expression.ErrUnknownReference):
		return "The evaluation formula names an undefined expression"
	case errors.Is(err, expression.ErrDuplicateName):
		return "Two expressions share a name"
	case errors.Is(err, expression.ErrInvalidOperator):
		return "An operator does not fit its comparison type"
	case errors.Is(err, expression.ErrMissingColumn):
		return "The table has no such column"
	case errors.Is(err, expression.ErrCoercion):
		return "A value could not be compared as the declared type"
	case errors.Is(err, engine.ErrColumnExists):
		return "The target column already exists (use --overwrite to replace it)"
	case errors.Is(err, storage.ErrSpecNotFound):
		return "No saved spec has that name (see 'sift specs list')"
	case storage.IsBusy(err):
		return "The spec library is locked by another sift process"
	case errors.Is(err, common.ErrNoSpecification):
		return "Nothing was entered"
	case errors.Is(err, common.ErrCancelled):
		return "Nothing was changed"
	}
	return "The operation failed"
}

// explain wraps err in a common.UserError described by describe. Nil stays nil.
func explain(err error) error {
	if err == nil {
		return nil
	}
	var ue *common.UserError
	if errors.As(err, &ue) {
		return err
	}
	return common.NewUserError(describe(err), err)
}
