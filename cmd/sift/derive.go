package main

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/Veraticus/sift/internal/authoring"
	"github.com/Veraticus/sift/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// writeOptions are shared by the commands that add a column.
type writeOptions struct {
	output   string
	limit    int
	inPlace  bool
	progress bool
}

func addWriteFlags(cmd *cobra.Command, opts *writeOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result to this CSV file instead of the terminal")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "rewrite the input file")
	cmd.Flags().IntVar(&opts.limit, "limit", 50, "maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar")
	cmd.Flags().Bool("overwrite", false, "replace the target column if it already exists")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")
}

func (o writeOptions) target(input string) string {
	if o.inPlace {
		return input
	}
	return o.output
}

func deriveCmd() *cobra.Command {
	var (
		src  specSource
		opts writeOptions
	)

	cmd := &cobra.Command{
		Use:   "derive <table.csv>",
		Short: "Add a 0/1 column from a formula",
		Long: `Evaluate a derive specification against every row and append the column
named by new_column_name, holding "1" where the formula is true and "0"
elsewhere. An existing column is only replaced with --overwrite.`,
		Example: `  sift derive sales.csv --spec flag.yaml --in-place
  sift derive sales.csv --saved big-flag --overwrite -o flagged.csv`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return viper.BindPFlag("derive.overwrite", cmd.Flags().Lookup("overwrite"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := opts.target(args[0])
			return withInterrupts(cmd, "Derive", output, func(ctx context.Context) error {
				body, err := src.load(cmd, model.SpecKindDerive)
				if err != nil {
					return err
				}
				spec, err := authoring.DecodeDerivation(bytes.NewReader(body))
				if err != nil {
					return err
				}
				tbl, err := loadTable(args[0])
				if err != nil {
					return err
				}

				eng, finish := newEngine(cmd, opts.progress, viper.GetBool("derive.overwrite"), "Deriving "+spec.Column)
				err = eng.DeriveBoolean(tbl, spec.Column, spec.Formula)
				finish()
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}

				slog.Info("derive complete", "column", spec.Column, "formula", spec.Formula.Text(), "rows", tbl.RowCount())
				return emit(cmd, tbl, output, opts.limit)
			})
		},
	}

	addSpecFlags(cmd, &src)
	addWriteFlags(cmd, &opts)
	return cmd
}

func categorizeCmd() *cobra.Command {
	var (
		src  specSource
		opts writeOptions
	)

	cmd := &cobra.Command{
		Use:   "categorize <table.csv>",
		Short: "Add a category column from ordered rules",
		Long: `Evaluate a categorize specification against every row. Each row gets the
name of the first category whose formula is true, or "Uncategorized" when
none match.`,
		Example: `  sift categorize sales.csv --spec sizes.yaml -o sized.csv`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return viper.BindPFlag("derive.overwrite", cmd.Flags().Lookup("overwrite"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := opts.target(args[0])
			return withInterrupts(cmd, "Categorize", output, func(ctx context.Context) error {
				body, err := src.load(cmd, model.SpecKindCategorize)
				if err != nil {
					return err
				}
				spec, err := authoring.DecodeCategories(bytes.NewReader(body))
				if err != nil {
					return err
				}
				tbl, err := loadTable(args[0])
				if err != nil {
					return err
				}

				eng, finish := newEngine(cmd, opts.progress, viper.GetBool("derive.overwrite"), "Categorizing rows")
				err = eng.Categorize(tbl, spec.Column, spec.Categories)
				finish()
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}

				slog.Info("categorize complete", "column", spec.Column, "rules", len(spec.Categories.Rules()), "rows", tbl.RowCount())
				return emit(cmd, tbl, output, opts.limit)
			})
		},
	}

	addSpecFlags(cmd, &src)
	addWriteFlags(cmd, &opts)
	return cmd
}
