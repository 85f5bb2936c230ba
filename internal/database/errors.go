package database

import "errors"

var (
	// ErrNotFound is returned when no database file exists and creation
	// was not requested.
	ErrNotFound = errors.New("history database not found")

	// ErrRunNotFound is returned when a run ID does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrNotEnoughRuns is returned when a comparison needs two runs of a
	// site but fewer are stored.
	ErrNotEnoughRuns = errors.New("at least two runs are needed to compare")
)
