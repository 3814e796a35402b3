package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"monday-export/internal/models"
)

const defaultFileStem = "monday_board"

// ExportError reports a failure to build or write a workbook.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("build workbook: %v", e.Err)
	}
	return fmt.Sprintf("write workbook %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Export builds the workbook for board and writes it to destination, creating
// parent directories as needed. It returns the absolute path written.
func (b *Builder) Export(board models.Board, destination string) (string, error) {
	path, err := resolveDestination(destination)
	if err != nil {
		return "", &ExportError{Path: destination, Err: err}
	}

	wb, err := b.Build(board)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	if err := wb.SaveAs(path); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	return path, nil
}

// resolveDestination expands a leading ~, makes the path absolute, creates the
// parent directory and resolves symlinks in it.
func resolveDestination(destination string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", fmt.Errorf("destination path is required")
	}
	if destination == "~" || strings.HasPrefix(destination, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		destination = filepath.Join(home, strings.TrimPrefix(destination, "~"))
	}

	abs, err := filepath.Abs(destination)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

// DefaultOutputPath derives "<board-name>.xlsx" from a board name, keeping
// letters, digits, spaces, dashes and underscores and joining words with
// underscores.
func DefaultOutputPath(boardName string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(boardName) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	stem := strings.Join(strings.Fields(b.String()), "_")
	if stem == "" {
		stem = defaultFileStem
	}
	return stem + ".xlsx"
}
