package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/sift/internal/authoring"
	"github.com/Veraticus/sift/internal/cli"
	"github.com/Veraticus/sift/internal/common"
	"github.com/Veraticus/sift/internal/model"
	"github.com/spf13/cobra"
)

func specsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Manage saved specifications",
		Long: `Saved specifications are kept in a local library so they can be reused with
--saved on filter, count, derive, categorize and check.`,
	}

	cmd.AddCommand(specsListCmd())
	cmd.AddCommand(specsShowCmd())
	cmd.AddCommand(specsSaveCmd())
	cmd.AddCommand(specsDeleteCmd())

	return cmd
}

func specsListCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved specifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			specs, err := store.ListSpecs(ctx, model.SpecKind(kind))
			if err != nil {
				return fmt.Errorf("failed to list specs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(specs) == 0 {
				_, err := fmt.Fprintln(out, cli.InfoStyle.Render("No saved specs. Use 'sift specs save' to create one."))
				return err
			}

			if _, err := fmt.Fprintln(out, cli.FormatTitle("Saved specs")); err != nil {
				return err
			}
			return writeSpecTable(out, specs)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only list this kind (filter, derive, categorize)")
	return cmd
}

func writeSpecTable(out io.Writer, specs []model.SavedSpec) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Name"),
		cli.TableHeaderStyle.Render("Kind"),
		cli.TableHeaderStyle.Render("Uses"),
		cli.TableHeaderStyle.Render("Last Used"),
		cli.TableHeaderStyle.Render("Description")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 20),
		strings.Repeat("─", 10),
		strings.Repeat("─", 5),
		strings.Repeat("─", 12),
		strings.Repeat("─", 20)); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, spec := range specs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			spec.Name,
			spec.Kind,
			spec.UseCount,
			formatLastUsed(spec.LastUsedAt),
			spec.Description); err != nil {
			return fmt.Errorf("failed to write spec row: %w", err)
		}
	}

	return w.Flush()
}

func formatLastUsed(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Format("2006-01-02")
}

func specsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			spec, err := store.GetSpec(ctx, args[0])
			if err != nil {
				return err
			}

			title := fmt.Sprintf("%s (%s)", spec.Name, spec.Kind)
			if spec.Description != "" {
				title += " - " + spec.Description
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(title, strings.TrimRight(spec.Body, "\n")))
			return err
		},
	}
}

func specsSaveCmd() *cobra.Command {
	var (
		src         specSource
		kind        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Validate and save a specification",
		Long: `Validate a specification and store it under a name. Saving under an existing
name replaces it. Without --spec the document is authored on stdin or in
$EDITOR (--editor), starting from a template of the chosen kind.`,
		Example: `  sift specs save big-values --kind filter --spec big.yaml
  sift specs save sizes --kind categorize --editor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			specKind, err := model.ParseSpecKind(kind)
			if err != nil {
				return fmt.Errorf("%w: %q", err, kind)
			}
			body, err := src.load(cmd, specKind)
			if err != nil {
				return err
			}
			if err := authoring.Validate(specKind, body); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			spec := &model.SavedSpec{
				Name:        args[0],
				Kind:        specKind,
				Description: description,
				Body:        string(body),
			}
			if err := store.SaveSpec(ctx, spec); err != nil {
				return fmt.Errorf("failed to save spec: %w", err)
			}
			common.LogInfo("saved spec", common.Fields{"name": spec.Name, "kind": spec.Kind, "id": spec.ID})

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %s spec %q", spec.Kind, spec.Name)))
			return err
		},
	}

	cmd.Flags().StringVarP(&src.file, "spec", "s", "", "specification file (YAML or JSON)")
	cmd.Flags().BoolVarP(&src.editor, "editor", "e", false, "author the specification in $EDITOR")
	cmd.MarkFlagsMutuallyExclusive("spec", "editor")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(model.SpecKindFilter), "specification kind (filter, derive, categorize)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "short description")

	return cmd
}

func specsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			if err := store.DeleteSpec(ctx, args[0]); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted spec %q", args[0])))
			return err
		},
	}
}
