// Package log builds the slog loggers used by llmstxt.
//
// Every logger returned from this package is wrapped in a SecureHandler,
// which masks credentials before a record reaches the output. The
// generator talks to two credentialed services (Firecrawl and an
// OpenAI-compatible endpoint), so request headers, API keys and any value
// shaped like one are replaced with MaskValue, even in verbose mode.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Error("scrape failed", "url", u, "authorization", "Bearer fc-...")
//	// authorization=***REDACTED***
package log
