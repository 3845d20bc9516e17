package collab

import (
	"fmt"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// CollaboratorError wraps a failed search or save. Record holds the snapshot
// that was sent so the caller can retry without losing edits.
type CollaboratorError struct {
	Op     string
	Err    error
	Record model.Record
}

func (e *CollaboratorError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("collab: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RejectedError is returned by a SaveCollaborator when the backend refuses
// the record. Fields is keyed by whatever paths the backend reports; see
// render.MapErrorPayload.
type RejectedError struct {
	Message string
	Fields  map[string][]string
}

func (e *RejectedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return "rejected: " + e.Message
	}
	return fmt.Sprintf("rejected: %d field errors", len(e.Fields))
}
