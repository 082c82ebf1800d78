package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/sift/internal/authoring"
	"github.com/Veraticus/sift/internal/cli"
	"github.com/Veraticus/sift/internal/common"
	"github.com/Veraticus/sift/internal/expression"
	"github.com/Veraticus/sift/internal/model"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var (
		src   specSource
		kind  string
		cells []string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a specification against one row",
		Long: `Evaluate a specification against a single row given as column=value pairs
and show every predicate result alongside the outcome. Useful for testing
a specification before running it over a whole table.`,
		Example: `  sift check --spec big.yaml --row value=1500 --row name="public school"
  sift check --kind categorize --saved sizes --row value=1500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specKind, err := model.ParseSpecKind(kind)
			if err != nil {
				return fmt.Errorf("%w: %q", err, kind)
			}
			row, err := parseRow(cells)
			if err != nil {
				return err
			}
			body, err := src.load(cmd, specKind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch specKind {
			case model.SpecKindCategorize:
				spec, err := authoring.DecodeCategories(bytes.NewReader(body))
				if err != nil {
					return err
				}
				return checkCategories(out, spec.Categories, row)
			case model.SpecKindDerive:
				spec, err := authoring.DecodeDerivation(bytes.NewReader(body))
				if err != nil {
					return err
				}
				return checkFormula(out, "Derive "+spec.Column, spec.Formula, row)
			default:
				spec, err := authoring.DecodeFilter(bytes.NewReader(body))
				if err != nil {
					return err
				}
				return checkFormula(out, "Filter", spec.Formula, row)
			}
		},
	}

	addSpecFlags(cmd, &src)
	cmd.Flags().StringVarP(&kind, "kind", "k", string(model.SpecKindFilter), "specification kind (filter, derive, categorize)")
	cmd.Flags().StringArrayVarP(&cells, "row", "r", nil, "cell as column=value (repeatable)")

	return cmd
}

func parseRow(cells []string) (expression.MapRow, error) {
	if len(cells) == 0 {
		return nil, common.NewUserError("Give at least one --row column=value", nil)
	}
	row := make(expression.MapRow, len(cells))
	for _, c := range cells {
		column, value, ok := strings.Cut(c, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, common.NewUserError(fmt.Sprintf("Row cell %q is not column=value", c), nil)
		}
		row[column] = value
	}
	return row, nil
}

func checkFormula(w io.Writer, title string, f *expression.Formula, row expression.Row) error {
	results, err := f.Results(row)
	if err != nil {
		return err
	}
	outcome, err := expression.Evaluate(f.Root(), results)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, p := range f.Predicates() {
		fmt.Fprintf(&b, "%s %s: %s\n", cli.FormatMark(results[p.Name()]), p.Name(), p)
	}
	fmt.Fprintf(&b, "\n%s %s", f.Root(), verdict(outcome))

	_, err = fmt.Fprintln(w, cli.RenderBox(title, b.String()))
	return err
}

func checkCategories(w io.Writer, list *expression.CategoryList, row expression.Row) error {
	var b strings.Builder
	matched := false
	for _, rule := range list.Rules() {
		if matched {
			fmt.Fprintf(&b, "%s %s: %s\n", cli.SubtleStyle.Render("-"), rule.Name(), cli.SubtleStyle.Render("not reached"))
			continue
		}
		ok, err := rule.Formula().Match(row)
		if err != nil {
			return fmt.Errorf("category %q: %w", rule.Name(), err)
		}
		matched = ok
		fmt.Fprintf(&b, "%s %s: %s\n", cli.FormatMark(ok), rule.Name(), rule.Formula().Root())
	}

	category, err := list.Resolve(row)
	if err != nil {
		return err
	}
	fmt.Fprintf(&b, "\ncategory: %s", cli.SuccessStyle.Render(category))

	_, err = fmt.Fprintln(w, cli.RenderBox("Categorize", b.String()))
	return err
}

func verdict(ok bool) string {
	if ok {
		return cli.SuccessStyle.Render("=> true")
	}
	return cli.ErrorStyle.Render("=> false")
}
