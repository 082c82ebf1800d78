package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/sift/internal/common"
	"github.com/Veraticus/sift/internal/engine"
	"github.com/Veraticus/sift/internal/expression"
	"github.com/Veraticus/sift/internal/storage"
	"github.com/Veraticus/sift/internal/table"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `name,value,opened
north school,1500,2024-01-10
south depot,200,2024-02-01
east school,7000,2023-12-24
west annex,1200,2024-03-15
`

const bigSchools = `expressions:
  - [Exp1, {column: value, operator: ">", compare_with: "1000", compare_as: NUMBER}]
  - [Exp2, {column: name, operator: CONTAINS, compare_with: "school", compare_as: TEXT}]
evaluation: "Exp1 && Exp2"
`

const bigFlag = `new_column_name: big
expressions:
  - [Exp1, {column: value, operator: ">", compare_with: "1000", compare_as: NUMBER}]
evaluation: Exp1
`

const sizes = `new_column_name: size
expressions:
  - category_name: large
    category_filters:
      - Exp1: {column: value, operator: ">", compare_with: "5000", compare_as: NUMBER}
    category_evaluation: Exp1
  - category_name: medium
    category_filters:
      - Exp1: {column: value, operator: ">", compare_with: "1000", compare_as: NUMBER}
      - Exp2: {column: value, operator: "<", compare_with: "5000", compare_as: NUMBER}
    category_evaluation: "Exp1 && Exp2"
`

// fixture holds the files one CLI test works on.
type fixture struct {
	dir   string
	db    string
	table string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	cfgFile = ""

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	f := &fixture{
		dir:   dir,
		db:    filepath.Join(dir, "sift.db"),
		table: filepath.Join(dir, "sales.csv"),
	}
	require.NoError(t, os.WriteFile(f.table, []byte(salesCSV), 0o600))
	return f
}

func (f *fixture) file(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// run executes sift with the given stdin and returns stdout.
func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", f.db, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestFilter_ToFile(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "big.yaml", bigSchools)
	out := filepath.Join(f.dir, "out.csv")

	stdout, err := f.run(t, "", "filter", f.table, "--spec", spec, "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 rows")

	got, err := table.LoadFile(out, ',')
	require.NoError(t, err)
	names, err := got.Column("name")
	require.NoError(t, err)
	assert.Equal(t, []string{"north school", "east school"}, names)
}

func TestFilter_FromStdin(t *testing.T) {
	f := newFixture(t)

	stdout, err := f.run(t, bigSchools+".\n", "filter", f.table)
	require.NoError(t, err)
	assert.Contains(t, stdout, "north school")
	assert.NotContains(t, stdout, "west annex")
}

func TestFilter_CancelToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "cancel\n.\n", "filter", f.table)
	assert.ErrorIs(t, err, common.ErrCancelled)
}

func TestFilter_UnknownReference(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "bad.yaml", strings.Replace(bigSchools, `"Exp1 && Exp2"`, `"Exp1 && Exp9"`, 1))

	_, err := f.run(t, "", "filter", f.table, "--spec", spec)
	var unknown *expression.UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Exp9", unknown.Name)
}

func TestCount(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "big.yaml", bigSchools)

	stdout, err := f.run(t, "", "count", f.table, "-s", spec)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 of 4 rows match (Exp1 && Exp2)")
}

func TestDerive_InPlaceAndOverwrite(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "flag.yaml", bigFlag)

	_, err := f.run(t, "", "derive", f.table, "--spec", spec, "--in-place")
	require.NoError(t, err)

	got, err := table.LoadFile(f.table, ',')
	require.NoError(t, err)
	flags, err := got.Column("big")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0", "1", "1"}, flags)

	_, err = f.run(t, "", "derive", f.table, "--spec", spec, "--in-place")
	assert.ErrorIs(t, err, engine.ErrColumnExists)

	_, err = f.run(t, "", "derive", f.table, "--spec", spec, "--in-place", "--overwrite")
	require.NoError(t, err)
	got, err = table.LoadFile(f.table, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value", "opened", "big"}, got.Columns())
}

func TestCategorize(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "sizes.yaml", sizes)
	out := filepath.Join(f.dir, "sized.csv")

	_, err := f.run(t, "", "categorize", f.table, "--spec", spec, "-o", out)
	require.NoError(t, err)

	got, err := table.LoadFile(out, ',')
	require.NoError(t, err)
	labels, err := got.Column("size")
	require.NoError(t, err)
	assert.Equal(t, []string{"medium", "Uncategorized", "large", "medium"}, labels)
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "big.yaml", bigSchools)

	stdout, err := f.run(t, "", "check", "--spec", spec, "--row", "value=1500", "--row", "name=north school")
	require.NoError(t, err)
	assert.Contains(t, stdout, "=> true")

	stdout, err = f.run(t, "", "check", "--spec", spec, "--row", "value=1500", "--row", "name=depot")
	require.NoError(t, err)
	assert.Contains(t, stdout, "=> false")

	cats := f.file(t, "sizes.yaml", sizes)
	stdout, err = f.run(t, "", "check", "-k", "categorize", "--spec", cats, "--row", "value=9000")
	require.NoError(t, err)
	assert.Contains(t, stdout, "category: large")
	assert.Contains(t, stdout, "not reached")

	_, err = f.run(t, "", "check", "--spec", spec, "--row", "novalue")
	assert.Error(t, err)

	_, err = f.run(t, "", "check", "--spec", spec, "--row", "name=x")
	assert.ErrorIs(t, err, expression.ErrMissingColumn)
}

func TestSpecs_Lifecycle(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "big.yaml", bigSchools)

	stdout, err := f.run(t, "", "specs", "save", "big-schools", "--spec", spec, "-d", "large schools")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Saved filter spec "big-schools"`)

	stdout, err = f.run(t, "", "count", f.table, "--saved", "big-schools")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 of 4 rows match")

	stdout, err = f.run(t, "", "specs", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "big-schools")
	assert.Contains(t, stdout, "large schools")

	stdout, err = f.run(t, "", "specs", "show", "big-schools")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exp1 && Exp2")

	_, err = f.run(t, "", "derive", f.table, "--saved", "big-schools")
	var ue *common.UserError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.UserMessage, "is a filter spec")

	_, err = f.run(t, "", "specs", "delete", "big-schools")
	require.NoError(t, err)

	_, err = f.run(t, "", "specs", "show", "big-schools")
	assert.ErrorIs(t, err, storage.ErrSpecNotFound)
}

func TestSpecs_SaveRejectsInvalid(t *testing.T) {
	f := newFixture(t)
	spec := f.file(t, "flag.yaml", bigFlag)

	_, err := f.run(t, "", "specs", "save", "flag", "--spec", spec, "--kind", "filter")
	assert.Error(t, err)

	_, err = f.run(t, "", "specs", "save", "flag", "--spec", spec, "--kind", "derive")
	assert.NoError(t, err)

	_, err = f.run(t, "", "specs", "save", "flag", "--spec", spec, "--kind", "select")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	stdout, err := f.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "sift dev\n", stdout)
}
