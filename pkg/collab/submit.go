package collab

import (
	"context"
	"errors"

	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/session"
	"github.com/goliatone/go-uirenderer/pkg/validation"
)

// Submit validates the session's record and hands a deep copy to saver.
// An invalid form returns *validation.Error without calling saver; a saver
// failure returns *CollaboratorError carrying the snapshot. A nil validator
// uses the default rules.
func Submit(ctx context.Context, sess *session.Session, validator *validation.Validator, saver SaveCollaborator) (SaveResult, error) {
	if sess == nil || !sess.Ready() {
		return SaveResult{}, render.ErrNotInitialized
	}
	if saver == nil {
		return SaveResult{}, errors.New("collab: save collaborator is required")
	}
	if validator == nil {
		validator = validation.New()
	}

	if result := validator.ValidateForm(sess.Layout.Sections, sess.Record); !result.Valid {
		return SaveResult{}, result.Err()
	}

	snapshot := sess.Record.Clone()
	res, err := saver.Save(ctx, SaveRequest{
		SessionID: sess.ID,
		ObjectID:  sess.ObjectID,
		Mode:      sess.Mode,
		Record:    snapshot,
	})
	if err != nil {
		return SaveResult{}, &CollaboratorError{Op: "save", Err: err, Record: sess.Record.Clone()}
	}
	return res, nil
}
