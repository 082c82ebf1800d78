package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/sift/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	assert.NoError(t, validateContext(context.Background()))
	//nolint:staticcheck // exercising the nil guard
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("sizes", "name"))
	err := validateString(" \t", "name")
	assert.ErrorIs(t, err, ErrEmptyString)
	assert.Contains(t, err.Error(), "name")
}

func TestValidateSpec(t *testing.T) {
	tests := []struct {
		spec    *model.SavedSpec
		wantErr error
		name    string
	}{
		{
			name: "valid",
			spec: &model.SavedSpec{Name: "sizes", Kind: model.SpecKindCategorize, Body: "x"},
		},
		{
			name:    "nil",
			wantErr: ErrNilParameter,
		},
		{
			name:    "tab in name",
			spec:    &model.SavedSpec{Name: "a\tb", Kind: model.SpecKindFilter, Body: "x"},
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "unknown kind",
			spec:    &model.SavedSpec{Name: "a", Kind: "sort", Body: "x"},
			wantErr: model.ErrInvalidSpecKind,
		},
		{
			name:    "blank body",
			spec:    &model.SavedSpec{Name: "a", Kind: model.SpecKindDerive, Body: "\n"},
			wantErr: ErrInvalidSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSpec(tt.spec)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
