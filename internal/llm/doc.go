// Package llm generates page and site summaries with an OpenAI-compatible
// chat-completion API.
//
// Summaries never fail a run. When a call fails, the reply is not valid
// JSON, or a field is missing, the affected fields fall back to the
// placeholders defined in package model and the cause is returned next to
// the (fallback) summary so callers can log it.
package llm
