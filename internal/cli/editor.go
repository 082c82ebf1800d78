package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNoEditor is returned when no editor command is configured.
var ErrNoEditor = errors.New("no editor configured")

// EditDocument opens initial in editor and returns what was saved.
// The editor string may carry arguments, e.g. "code --wait".
func EditDocument(ctx context.Context, editor, initial string) (string, error) {
	args := strings.Fields(editor)
	if len(args) == 0 {
		return "", ErrNoEditor
	}

	path := filepath.Join(os.TempDir(), "sift-"+uuid.NewString()+".yaml")
	if err := os.WriteFile(path, []byte(initial), 0o600); err != nil {
		return "", fmt.Errorf("failed to write draft: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...) //nolint:gosec // editor is user configuration
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s failed: %w", args[0], err)
	}

	body, err := os.ReadFile(path) //nolint:gosec // path is our own temp file
	if err != nil {
		return "", fmt.Errorf("failed to read draft: %w", err)
	}
	return string(body), nil
}

// EditorFromEnv returns $VISUAL, then $EDITOR, then fallback.
func EditorFromEnv(fallback string) string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return fallback
}
