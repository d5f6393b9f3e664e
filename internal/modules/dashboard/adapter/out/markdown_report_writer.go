package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"smarttrack/internal/platform/markdown"
)

// MarkdownReportWriter writes reports as markdown with YAML frontmatter.
// Rewriting an existing file only replaces the generated block.
type MarkdownReportWriter struct{}

func NewMarkdownReportWriter() MarkdownReportWriter {
	return MarkdownReportWriter{}
}

func (MarkdownReportWriter) WriteReport(_ context.Context, path string, meta map[string]any, body string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read report: %w", err)
	}
	content, err := markdown.Merge(string(existing), meta, body)
	if err != nil {
		return fmt.Errorf("merge report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}
