package llm

import "errors"

var (
	// ErrNoChoices is returned when the completion has no choices.
	ErrNoChoices = errors.New("completion returned no choices")

	// ErrIncompleteReply is returned when the JSON reply lacks a field.
	ErrIncompleteReply = errors.New("completion reply is missing fields")
)
