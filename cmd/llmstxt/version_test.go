package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests the build information fallbacks.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if getVersion() == "" {
		t.Error("expected non-empty version")
	}
	if getCommit() == "" {
		t.Error("expected non-empty commit")
	}
	if getDate() == "" {
		t.Error("expected non-empty date")
	}
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"llmstxt version", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}
