package config

import "errors"

// Configuration errors returned by Config.Validate. Callers match them
// with errors.Is.
var (
	// ErrNoTarget is returned when no root URL was given.
	ErrNoTarget = errors.New("no target specified: provide the root URL of a website")

	// ErrInvalidURL is returned when the root URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

	// ErrMaxPagesOutOfRange is returned when the page limit is outside MinMaxPages..MaxMaxPages.
	ErrMaxPagesOutOfRange = errors.New("invalid max pages: must be between 5 and 50")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the fetch pool width is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrUnknownBackend is returned for a backend other than firecrawl or native.
	ErrUnknownBackend = errors.New("unknown backend: must be firecrawl or native")

	// ErrMissingOpenAIKey is returned when OPENAI_API_KEY is not set.
	ErrMissingOpenAIKey = errors.New("missing API key: set OPENAI_API_KEY in the environment or a .env file")

	// ErrMissingFirecrawlKey is returned when the firecrawl backend is
	// selected and FIRECRAWL_API_KEY is not set.
	ErrMissingFirecrawlKey = errors.New("missing API key: set FIRECRAWL_API_KEY in the environment or a .env file")

	// ErrInvalidProxy is returned when the proxy URL has an unsupported scheme.
	ErrInvalidProxy = errors.New("invalid proxy: must be a socks5, http or https URL")

	// ErrInvalidCrawlRate is returned when the native crawl rate is negative.
	ErrInvalidCrawlRate = errors.New("invalid crawl rate: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size limit is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxDepth is returned when the crawl depth is negative.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")
)
