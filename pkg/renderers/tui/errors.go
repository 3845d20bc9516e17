package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrStillInvalid is returned when the record fails validation after
	// the configured number of correction passes.
	ErrStillInvalid = errors.New("tui: record still invalid")
)
