package database

import (
	"context"
	"fmt"
	"strings"
)

// Comparison describes how the llms.txt of a site changed between two runs.
type Comparison struct {
	Older *RunRecord
	Newer *RunRecord

	// Changed is false when both documents have the same digest.
	Changed bool

	// Added holds lines present only in the newer document and Removed
	// lines present only in the older one, each in document order.
	Added   []string
	Removed []string
}

// Compare diffs two runs line by line. Blank lines are ignored.
func Compare(older, newer *RunRecord) *Comparison {
	c := &Comparison{
		Older:   older,
		Newer:   newer,
		Changed: older.Digest != newer.Digest,
	}
	if !c.Changed {
		return c
	}

	oldLines := lineSet(older.LLMsTxt)
	newLines := lineSet(newer.LLMsTxt)
	for _, line := range nonBlankLines(newer.LLMsTxt) {
		if _, ok := oldLines[line]; !ok {
			c.Added = append(c.Added, line)
		}
	}
	for _, line := range nonBlankLines(older.LLMsTxt) {
		if _, ok := newLines[line]; !ok {
			c.Removed = append(c.Removed, line)
		}
	}
	return c
}

// CompareLatest compares the two most recent runs of rootURL.
func (h *HistoryDB) CompareLatest(ctx context.Context, rootURL string) (*Comparison, error) {
	runs, err := h.LatestRuns(ctx, rootURL, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, fmt.Errorf("%w for %s (found %d)", ErrNotEnoughRuns, rootURL, len(runs))
	}
	return Compare(runs[1], runs[0]), nil
}

func nonBlankLines(s string) []string {
	var out []string
	for line := range strings.Lines(s) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func lineSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range nonBlankLines(s) {
		set[line] = struct{}{}
	}
	return set
}
