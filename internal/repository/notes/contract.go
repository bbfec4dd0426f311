package notes

import (
	"context"

	"github.com/kotche/notekeeper/internal/model"
)

type (
	Repository interface {
		CreateNote(ctx context.Context, note model.Note) (model.NoteID, error)
		NoteExists(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error)
		GetNote(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error)
		UpdateNote(ctx context.Context, note model.Note) error
		DeleteNote(ctx context.Context, noteID model.NoteID, userID model.UserID) error
		ListNotes(ctx context.Context, userID model.UserID) ([]model.Note, error)
		SearchNotes(ctx context.Context, userID model.UserID, query string) ([]model.Note, error)
		SetNoteCategory(ctx context.Context, noteID model.NoteID, userID model.UserID, categoryID model.CategoryID) error
		ToggleFavorite(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error)
		CreateCategory(ctx context.Context, category model.Category) (model.CategoryID, error)
		CategoryExists(ctx context.Context, categoryID model.CategoryID, userID model.UserID) (bool, error)
	}
)
