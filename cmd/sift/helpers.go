package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/sift/internal/authoring"
	"github.com/Veraticus/sift/internal/cli"
	"github.com/Veraticus/sift/internal/common"
	"github.com/Veraticus/sift/internal/config"
	"github.com/Veraticus/sift/internal/engine"
	"github.com/Veraticus/sift/internal/model"
	"github.com/Veraticus/sift/internal/storage"
	"github.com/Veraticus/sift/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage opens the saved spec library with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	opts := common.DefaultRetryOptions()
	opts.Retryable = storage.IsBusy
	if err := common.WithRetry(ctx, func() error { return store.Migrate(ctx) }, opts); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "failed to close storage", common.Fields{"path": store.Path()})
	}
}

// specSource says where a command's specification document comes from.
type specSource struct {
	file   string
	saved  string
	editor bool
}

func addSpecFlags(cmd *cobra.Command, src *specSource) {
	cmd.Flags().StringVarP(&src.file, "spec", "s", "", "specification file (YAML or JSON)")
	cmd.Flags().StringVar(&src.saved, "saved", "", "name of a saved specification")
	cmd.Flags().BoolVarP(&src.editor, "editor", "e", false, "author the specification in $EDITOR")
	cmd.MarkFlagsMutuallyExclusive("spec", "saved", "editor")
}

// load returns the document body. With no file or saved name the user
// authors it in an editor or on stdin.
func (src specSource) load(cmd *cobra.Command, kind model.SpecKind) ([]byte, error) {
	ctx := cmd.Context()

	var body []byte
	switch {
	case src.file != "":
		data, err := os.ReadFile(src.file) //nolint:gosec // user-supplied spec path
		if err != nil {
			return nil, fmt.Errorf("failed to read spec: %w", err)
		}
		body = data

	case src.saved != "":
		store, err := initStorage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeStorage(store)

		spec, err := store.GetSpec(ctx, src.saved)
		if err != nil {
			return nil, err
		}
		if spec.Kind != kind {
			return nil, common.NewUserError(
				fmt.Sprintf("Saved spec %q is a %s spec, not %s", spec.Name, spec.Kind, kind), nil)
		}
		if err := store.RecordSpecUse(ctx, spec.Name); err != nil {
			common.LogError(err, "failed to record spec use", common.Fields{"spec": spec.Name})
		}
		body = []byte(spec.Body)

	case src.editor:
		text, err := cli.EditDocument(ctx, editorCommand(), authoring.Template(kind))
		if err != nil {
			return nil, err
		}
		body = []byte(text)

	default:
		text, err := readFromStdin(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), kind)
		if err != nil {
			return nil, err
		}
		body = []byte(text)
	}

	if authoring.IsCancel(body) {
		return nil, common.ErrCancelled
	}
	return body, nil
}

func readFromStdin(ctx context.Context, in io.Reader, prompt io.Writer, kind model.SpecKind) (string, error) {
	_, _ = fmt.Fprintln(prompt, cli.FormatPrompt(fmt.Sprintf("Enter the %s specification", kind)))
	_, _ = fmt.Fprintln(prompt, cli.SubtleStyle.Render(
		fmt.Sprintf("End with a line containing %q. Type %q to abort.", cli.DocumentTerminator, authoring.CancelToken)))

	reader := cli.NewNonBlockingReader(in)
	text, err := reader.ReadDocument(ctx)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return "", common.ErrNoSpecification
	}
	return text, nil
}

func editorCommand() string {
	if e := viper.GetString("editor"); e != "" {
		return e
	}
	return cli.EditorFromEnv("vi")
}

func loadTable(path string) (*table.Table, error) {
	tbl, err := table.LoadFile(path, config.Delimiter(viper.GetString("table.delimiter")))
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}
	common.LogDebug("loaded table", common.Fields{"path": path, "rows": tbl.RowCount(), "columns": len(tbl.Columns())})
	return tbl, nil
}

// emit writes tbl to output, or renders it on stdout when output is empty.
func emit(cmd *cobra.Command, tbl *table.Table, output string, limit int) error {
	if output == "" {
		return cli.RenderTable(cmd.OutOrStdout(), tbl, limit)
	}
	if err := tbl.SaveFile(output, config.Delimiter(viper.GetString("table.delimiter"))); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d rows to %s", tbl.RowCount(), output)))
	return err
}

// newEngine builds an engine that shows a progress bar on stderr when asked.
func newEngine(cmd *cobra.Command, showProgress, overwrite bool, label string) (*engine.Engine, func()) {
	cfg := engine.DefaultConfig()
	cfg.Overwrite = overwrite
	if !showProgress {
		return engine.NewWithConfig(cfg), func() {}
	}
	progress := cli.NewProgress(cmd.ErrOrStderr(), label)
	cfg.Progress = progress.Func()
	return engine.NewWithConfig(cfg), progress.Finish
}

// withInterrupts wraps work so Ctrl-C reports that output was left alone.
func withInterrupts(cmd *cobra.Command, operation, output string, work func(ctx context.Context) error) error {
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), operation, output)
	defer handler.Stop()

	if err := work(ctx); err != nil {
		return err
	}
	if handler.WasInterrupted() {
		return context.Canceled
	}
	return nil
}
