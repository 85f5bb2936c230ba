package firecrawl

import (
	"errors"
	"fmt"
)

var (
	// ErrMapUnsuccessful is returned when /map answers with success=false.
	ErrMapUnsuccessful = errors.New("firecrawl map was not successful")

	// ErrScrapeUnsuccessful is returned when /scrape answers with
	// success=false and no content.
	ErrScrapeUnsuccessful = errors.New("firecrawl scrape was not successful")

	// ErrEmptyContent is returned by Fetch when the page has no Markdown.
	ErrEmptyContent = errors.New("page has no content")
)

// APIError is a non-2xx response from Firecrawl.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("firecrawl %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("firecrawl %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
}
