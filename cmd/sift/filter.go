package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/sift/internal/authoring"
	"github.com/Veraticus/sift/internal/cli"
	"github.com/Veraticus/sift/internal/model"
	"github.com/spf13/cobra"
)

func filterCmd() *cobra.Command {
	var (
		src      specSource
		output   string
		limit    int
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "filter <table.csv>",
		Short: "Keep the rows that satisfy a formula",
		Long: `Evaluate a filter specification against every row and keep those for which
the formula is true. Row order is preserved.

Without --spec or --saved the specification is read from stdin (or $EDITOR
with --editor).`,
		Example: `  sift filter sales.csv --spec big.yaml
  sift filter sales.csv --saved big-values --output big.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInterrupts(cmd, "Filter", output, func(ctx context.Context) error {
				body, err := src.load(cmd, model.SpecKindFilter)
				if err != nil {
					return err
				}
				spec, err := authoring.DecodeFilter(bytes.NewReader(body))
				if err != nil {
					return err
				}
				tbl, err := loadTable(args[0])
				if err != nil {
					return err
				}

				eng, finish := newEngine(cmd, progress, false, "Filtering rows")
				sel, err := eng.Filter(tbl, spec.Formula)
				finish()
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}

				slog.Info("filter complete", "formula", spec.Formula.Text(), "kept", sel.Count(), "scanned", sel.Scanned)
				return emit(cmd, tbl.FilterRows(sel.Keep), output, limit)
			})
		},
	}

	addSpecFlags(cmd, &src)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write matching rows to this CSV file instead of the terminal")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")

	return cmd
}

func countCmd() *cobra.Command {
	var src specSource

	cmd := &cobra.Command{
		Use:   "count <table.csv>",
		Short: "Count the rows that satisfy a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := src.load(cmd, model.SpecKindFilter)
			if err != nil {
				return err
			}
			spec, err := authoring.DecodeFilter(bytes.NewReader(body))
			if err != nil {
				return err
			}
			tbl, err := loadTable(args[0])
			if err != nil {
				return err
			}

			eng, _ := newEngine(cmd, false, false, "")
			n, err := eng.Count(tbl, spec.Formula)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%d of %d rows match %s", n, tbl.RowCount(), spec.Formula.Root())))
			return err
		},
	}

	addSpecFlags(cmd, &src)
	return cmd
}
