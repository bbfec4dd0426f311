package notes

import (
	"context"

	"github.com/kotche/notekeeper/internal/model"
)

type (
	// Service owns the note lifecycle. Every operation takes the
	// authenticated user id explicitly; a note of another user is
	// indistinguishable from a missing one.
	Service interface {
		Create(ctx context.Context, userID model.UserID, title, content string) (model.NoteID, error)
		Get(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error)
		List(ctx context.Context, userID model.UserID) ([]model.Note, error)
		Update(ctx context.Context, noteID model.NoteID, userID model.UserID, title, content *string) error
		Delete(ctx context.Context, noteID model.NoteID, userID model.UserID) error
		AssignCategory(ctx context.Context, noteID model.NoteID, categoryID model.CategoryID, userID model.UserID) error
		ToggleFavorite(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error)
		Search(ctx context.Context, userID model.UserID, query string) ([]model.Note, error)
	}
)
