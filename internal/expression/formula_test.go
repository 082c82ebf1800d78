package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberPredicate(t *testing.T, name, column string, op Operator, literal string) *Predicate {
	t.Helper()
	return mustPredicate(t, Definition{Name: name, Column: column, Operator: op, Literal: literal, Domain: DomainNumber})
}

func TestFormula_Match(t *testing.T) {
	preds := []*Predicate{
		numberPredicate(t, "Exp1", "value", OpGreater, "1000"),
		mustPredicate(t, Definition{Name: "Exp2", Column: "city", Operator: OpEqual, Literal: "Paris"}),
	}

	f, err := NewFormula(preds, "Exp1 && Exp2")
	require.NoError(t, err)

	tests := []struct {
		row  MapRow
		want bool
	}{
		{row: MapRow{"value": "1500", "city": "Paris"}, want: true},
		{row: MapRow{"value": "1500", "city": "Lyon"}, want: false},
		{row: MapRow{"value": "200", "city": "Paris"}, want: false},
	}

	for _, tt := range tests {
		got, err := f.Match(tt.row)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "row %v", tt.row)
	}
}

func TestFormula_OnlyReferencedPredicates(t *testing.T) {
	preds := []*Predicate{
		numberPredicate(t, "Exp1", "value", OpGreater, "1000"),
		numberPredicate(t, "Exp2", "missing", OpGreater, "1"),
	}

	f, err := NewFormula(preds, "Exp1")
	require.NoError(t, err)
	assert.Len(t, f.Predicates(), 1)
	assert.Equal(t, []string{"value"}, f.Columns())

	got, err := f.Match(MapRow{"value": "1500"})
	require.NoError(t, err, "an unreferenced predicate over a missing column is never evaluated")
	assert.True(t, got)
}

func TestFormula_EvaluatesEveryReferencedPredicate(t *testing.T) {
	preds := []*Predicate{
		numberPredicate(t, "Exp1", "value", OpGreater, "1000"),
		numberPredicate(t, "Exp2", "other", OpGreater, "1"),
	}

	f, err := NewFormula(preds, "Exp1 || Exp2")
	require.NoError(t, err)

	_, err = f.Match(MapRow{"value": "1500", "other": "abc"})
	assert.ErrorIs(t, err, ErrCoercion)

	results, err := f.Results(MapRow{"value": "1500", "other": "0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Exp1": true, "Exp2": false}, results)
}

func TestNewFormula_Errors(t *testing.T) {
	preds := []*Predicate{
		numberPredicate(t, "Exp1", "value", OpGreater, "1000"),
		numberPredicate(t, "Exp2", "value", OpLess, "5000"),
	}

	_, err := NewFormula(preds, "Exp1 && Exp9")
	assert.ErrorIs(t, err, ErrUnknownReference)

	_, err = NewFormula(preds, "")
	assert.ErrorIs(t, err, ErrSyntax)

	dup := append(preds, numberPredicate(t, "Exp1", "value", OpEqual, "1"))
	_, err = NewFormula(dup, "Exp1")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestFormula_MissingColumn(t *testing.T) {
	f, err := NewFormula([]*Predicate{numberPredicate(t, "Exp1", "value", OpGreater, "1")}, "Exp1")
	require.NoError(t, err)

	_, err = f.Match(MapRow{"amount": "3"})
	assert.ErrorIs(t, err, ErrMissingColumn)
}
