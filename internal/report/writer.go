package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdoutPath is the output path that selects standard output.
const StdoutPath = "-"

// FullFileName is the file name of the full-text document. It is written
// next to llms.txt.
const FullFileName = "llms-full.txt"

// Writer writes rendered documents to a file or to standard output.
type Writer struct {
	path   string
	stdout io.Writer
}

// NewWriter returns a Writer for path. When path is StdoutPath the
// documents are written to stdout instead.
func NewWriter(path string, stdout io.Writer) *Writer {
	return &Writer{path: path, stdout: stdout}
}

// IsStdout reports whether documents go to standard output.
func (w *Writer) IsStdout() bool {
	return w.path == StdoutPath
}

// WriteLLMsTxt writes the llms.txt document and returns where it went.
func (w *Writer) WriteLLMsTxt(content string) (string, error) {
	return w.write(w.path, content)
}

// WriteLLMsFullTxt writes llms-full.txt into the directory of the llms.txt
// output and returns its path. On stdout it follows llms.txt after a blank
// line.
func (w *Writer) WriteLLMsFullTxt(content string) (string, error) {
	if w.IsStdout() {
		return w.write(StdoutPath, "\n"+content)
	}
	return w.write(filepath.Join(filepath.Dir(w.path), FullFileName), content)
}

func (w *Writer) write(path, content string) (string, error) {
	if path == StdoutPath {
		if w.stdout == nil {
			return "", errors.New("no stdout writer configured")
		}
		if _, err := fmt.Fprintln(w.stdout, content); err != nil {
			return "", fmt.Errorf("failed to write to stdout: %w", err)
		}
		return "stdout", nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // llms.txt is meant to be published
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
