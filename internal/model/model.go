package model

import (
	"time"

	"github.com/google/uuid"
)

type (
	UserID     = uuid.UUID
	NoteID     = uuid.UUID
	CategoryID = uuid.UUID
)

type (
	User struct {
		ID           UserID
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	Category struct {
		ID        CategoryID
		UserID    UserID
		Name      string
		CreatedAt time.Time
	}

	Note struct {
		ID         NoteID
		UserID     UserID
		Title      string
		Content    string
		CategoryID *CategoryID
		// CategoryName is filled on reads by joining categories, nil when
		// the note has no category.
		CategoryName *string
		IsFavorite   bool
		CreatedAt    time.Time
	}
)

// NoteEvent is published to the broker after every note mutation.
type NoteEvent struct {
	Type   string    `json:"type"`
	NoteID NoteID    `json:"note_id"`
	UserID UserID    `json:"user_id"`
	At     time.Time `json:"at"`
}

const (
	EventNoteCreated      = "note_created"
	EventNoteUpdated      = "note_updated"
	EventNoteDeleted      = "note_deleted"
	EventFavoriteToggled  = "favorite_toggled"
	EventCategoryAssigned = "category_assigned"
)
