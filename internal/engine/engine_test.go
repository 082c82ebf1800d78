package engine

import (
	"testing"

	"github.com/Veraticus/sift/internal/expression"
	"github.com/Veraticus/sift/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, columns []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New(columns, rows)
	require.NoError(t, err)
	return tbl
}

func numberFormula(t *testing.T, text string, defs ...expression.Definition) *expression.Formula {
	t.Helper()
	preds := make([]*expression.Predicate, 0, len(defs))
	for _, d := range defs {
		if d.Domain == "" {
			d.Domain = expression.DomainNumber
		}
		p, err := expression.NewPredicate(d)
		require.NoError(t, err)
		preds = append(preds, p)
	}
	f, err := expression.NewFormula(preds, text)
	require.NoError(t, err)
	return f
}

func over1000(t *testing.T) *expression.Formula {
	return numberFormula(t, "Exp1",
		expression.Definition{Name: "Exp1", Column: "value", Operator: expression.OpGreater, Literal: "1000"})
}

func TestEngine_DeriveBoolean(t *testing.T) {
	tbl := newTable(t, []string{"value"}, []string{"1500"}, []string{"200"})

	require.NoError(t, New().DeriveBoolean(tbl, "big", over1000(t)))

	col, err := tbl.Column("big")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0"}, col)
	assert.Equal(t, []string{"value", "big"}, tbl.Columns())
	assert.Equal(t, 2, tbl.RowCount())

	v, err := tbl.Value(0, "value")
	require.NoError(t, err)
	assert.Equal(t, "1500", v, "existing columns are untouched")
}

func TestEngine_DeriveBoolean_OnlyZeroOrOne(t *testing.T) {
	tbl := newTable(t, []string{"value", "id"},
		[]string{"1", "a"}, []string{"5000", "b"}, []string{"1001", "c"}, []string{"-3", "d"}, []string{"1000", "e"})

	require.NoError(t, New().DeriveBoolean(tbl, "flag", over1000(t)))

	col, err := tbl.Column("flag")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "1", "0", "0"}, col)

	ids, err := tbl.Column("id")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids, "row order is preserved")
}

func TestEngine_DeriveBoolean_ExistingColumn(t *testing.T) {
	tbl := newTable(t, []string{"value", "flag"}, []string{"1500", "x"}, []string{"200", "y"})

	err := New().DeriveBoolean(tbl, "flag", over1000(t))
	require.ErrorIs(t, err, ErrColumnExists)
	col, _ := tbl.Column("flag")
	assert.Equal(t, []string{"x", "y"}, col, "table is unchanged on failure")

	require.NoError(t, NewWithConfig(Config{Overwrite: true}).DeriveBoolean(tbl, "flag", over1000(t)))
	col, _ = tbl.Column("flag")
	assert.Equal(t, []string{"1", "0"}, col)
	assert.Equal(t, []string{"value", "flag"}, tbl.Columns(), "no duplicate column is added")
}

func TestEngine_DeriveBoolean_OverwriteUnsupported(t *testing.T) {
	tbl := newTable(t, []string{"value", "flag"}, []string{"1500", "x"})
	// Embedding only the interface hides ReplaceColumn.
	var w WritableTable = struct{ WritableTable }{tbl}

	err := NewWithConfig(Config{Overwrite: true}).DeriveBoolean(w, "flag", over1000(t))
	assert.ErrorIs(t, err, ErrColumnExists)
}

func TestEngine_DeriveBoolean_NoPartialApplication(t *testing.T) {
	tbl := newTable(t, []string{"value"}, []string{"1500"}, []string{"oops"}, []string{"10"})

	err := New().DeriveBoolean(tbl, "flag", over1000(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, expression.ErrCoercion)

	var re *RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)
	assert.Contains(t, re.Error(), "row 2")

	assert.False(t, tbl.HasColumn("flag"))
}

func TestEngine_NaNCellAborts(t *testing.T) {
	tbl := newTable(t, []string{"value"}, []string{"1500"}, []string{"200"}, []string{"NaN"})

	_, err := New().Filter(tbl, over1000(t))
	var re *RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 2, re.Index)
	assert.ErrorIs(t, err, expression.ErrCoercion)

	err = New().DeriveBoolean(tbl, "big", over1000(t))
	assert.ErrorIs(t, err, expression.ErrCoercion)
	assert.False(t, tbl.HasColumn("big"))
}

func TestEngine_MissingColumn(t *testing.T) {
	tbl := newTable(t, []string{"amount"}, []string{"1500"})

	_, err := New().Filter(tbl, over1000(t))
	assert.ErrorIs(t, err, expression.ErrMissingColumn)

	err = New().DeriveBoolean(tbl, "flag", over1000(t))
	assert.ErrorIs(t, err, expression.ErrMissingColumn)
	assert.False(t, tbl.HasColumn("flag"))
}

func TestEngine_Filter(t *testing.T) {
	tbl := newTable(t, []string{"name", "value"},
		[]string{"a", "1500"}, []string{"b", "200"}, []string{"c", "7000"}, []string{"d", "999"})

	f := numberFormula(t, "Exp1 || Exp2 && Exp3",
		expression.Definition{Name: "Exp1", Column: "value", Operator: expression.OpGreater, Literal: "5000"},
		expression.Definition{Name: "Exp2", Column: "value", Operator: expression.OpLess, Literal: "1000"},
		expression.Definition{Name: "Exp3", Column: "name", Operator: expression.OpEqual, Literal: "b", Domain: expression.DomainText},
	)

	sel, err := New().Filter(tbl, f)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, sel.Rows)
	assert.Equal(t, 4, sel.Scanned)
	assert.Equal(t, 2, sel.Count())

	sub := tbl.FilterRows(sel.Keep)
	require.Equal(t, 2, sub.RowCount())
	assert.Equal(t, []string{"b", "200"}, sub.Row(0))
	assert.Equal(t, []string{"c", "7000"}, sub.Row(1))
	assert.Equal(t, 4, tbl.RowCount())

	n, err := New().Count(tbl, f)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_FilterCoercionAborts(t *testing.T) {
	tbl := newTable(t, []string{"value"}, []string{"1500"}, []string{""})

	_, err := New().Count(tbl, over1000(t))
	assert.ErrorIs(t, err, expression.ErrCoercion)
}

func TestEngine_Progress(t *testing.T) {
	tbl := newTable(t, []string{"value"}, []string{"1"}, []string{"2"}, []string{"3"})

	var calls [][2]int
	e := NewWithConfig(Config{Progress: func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}})

	_, err := e.Filter(tbl, over1000(t))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestEngine_Categorize(t *testing.T) {
	rule := func(name, formula string, defs ...expression.Definition) *expression.CategoryRule {
		f := numberFormula(t, formula, defs...)
		r, err := expression.NewCategoryRule(name, f.Predicates(), formula)
		require.NoError(t, err)
		return r
	}

	list := expression.NewCategoryList([]*expression.CategoryRule{
		rule("big", "Exp1",
			expression.Definition{Name: "Exp1", Column: "value", Operator: expression.OpGreater, Literal: "5000"}),
		rule("medium", "Exp1 && Exp2",
			expression.Definition{Name: "Exp1", Column: "value", Operator: expression.OpGreater, Literal: "1000"},
			expression.Definition{Name: "Exp2", Column: "value", Operator: expression.OpLess, Literal: "5000"}),
		rule("small", "Exp1",
			expression.Definition{Name: "Exp1", Column: "value", Operator: expression.OpLess, Literal: "1000"}),
	})

	tbl := newTable(t, []string{"value"}, []string{"1500"}, []string{"9000"}, []string{"5"}, []string{"5000"})

	require.NoError(t, New().Categorize(tbl, "size", list))

	col, err := tbl.Column("size")
	require.NoError(t, err)
	assert.Equal(t, []string{"medium", "big", "small", expression.DefaultCategory}, col)

	err = New().Categorize(tbl, "size", list)
	assert.ErrorIs(t, err, ErrColumnExists)
}
