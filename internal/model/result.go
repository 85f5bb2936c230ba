package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Result is the outcome of one generation run.
type Result struct {
	// RootURL is the site the run started from.
	RootURL string `json:"root_url"`

	// SiteName is the generated (or fallback) site name.
	SiteName string `json:"site_name"`

	// LLMsTxt is the rendered llms.txt document.
	LLMsTxt string `json:"llms_txt"`

	// LLMsFullTxt is the rendered llms-full.txt document. Empty unless
	// full output was requested.
	LLMsFullTxt string `json:"llms_full_txt,omitempty"`

	// ProcessedCount is the number of pages that yielded content.
	ProcessedCount int `json:"num_urls_processed"`

	// TotalCount is the number of URLs left after filtering.
	TotalCount int `json:"num_urls_total"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Digest returns the hex SHA-256 of LLMsTxt. Two runs producing the same
// document have the same digest.
func (r *Result) Digest() string {
	sum := sha256.Sum256([]byte(r.LLMsTxt))
	return hex.EncodeToString(sum[:])
}
