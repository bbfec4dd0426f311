package notes

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kotche/notekeeper/internal/model"
	"github.com/kotche/notekeeper/internal/repository/notes"
	"github.com/kotche/notekeeper/internal/service/kafka"
)

type DefaultService struct {
	repo   notes.Repository
	broker kafka.MessageBroker
	log    zerolog.Logger
}

// NewDefaultService builds the note service. The broker may be nil, in which
// case no lifecycle events are published.
func NewDefaultService(repo notes.Repository, broker kafka.MessageBroker, log zerolog.Logger) *DefaultService {
	return &DefaultService{repo: repo, broker: broker, log: log}
}

func (d *DefaultService) Create(ctx context.Context, userID model.UserID, title, content string) (model.NoteID, error) {
	noteID, err := d.repo.CreateNote(ctx, model.Note{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return uuid.Nil, err
	}

	d.publish(ctx, model.EventNoteCreated, noteID, userID)
	return noteID, nil
}

func (d *DefaultService) Get(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	return d.repo.GetNote(ctx, noteID, userID)
}

func (d *DefaultService) List(ctx context.Context, userID model.UserID) ([]model.Note, error) {
	return d.repo.ListNotes(ctx, userID)
}

// Update replaces only the supplied fields. A nil title or content leaves the
// stored value untouched.
func (d *DefaultService) Update(ctx context.Context, noteID model.NoteID, userID model.UserID, title, content *string) error {
	note, err := d.repo.GetNote(ctx, noteID, userID)
	if err != nil {
		return err
	}

	if title != nil {
		note.Title = *title
	}
	if content != nil {
		note.Content = *content
	}

	if err = d.repo.UpdateNote(ctx, *note); err != nil {
		return err
	}

	d.publish(ctx, model.EventNoteUpdated, noteID, userID)
	return nil
}

func (d *DefaultService) Delete(ctx context.Context, noteID model.NoteID, userID model.UserID) error {
	exists, err := d.repo.NoteExists(ctx, noteID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrNoteNotFound
	}

	if err = d.repo.DeleteNote(ctx, noteID, userID); err != nil {
		return err
	}

	d.publish(ctx, model.EventNoteDeleted, noteID, userID)
	return nil
}

// AssignCategory resolves the note and the category independently, both
// scoped to the owner, and reports a single combined error when either is
// missing.
func (d *DefaultService) AssignCategory(ctx context.Context, noteID model.NoteID, categoryID model.CategoryID, userID model.UserID) error {
	noteExists, err := d.repo.NoteExists(ctx, noteID, userID)
	if err != nil {
		return err
	}

	categoryExists, err := d.repo.CategoryExists(ctx, categoryID, userID)
	if err != nil {
		return err
	}

	if !noteExists || !categoryExists {
		return model.ErrInvalidReference
	}

	if err = d.repo.SetNoteCategory(ctx, noteID, userID, categoryID); err != nil {
		return err
	}

	d.publish(ctx, model.EventCategoryAssigned, noteID, userID)
	return nil
}

func (d *DefaultService) ToggleFavorite(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error) {
	isFavorite, err := d.repo.ToggleFavorite(ctx, noteID, userID)
	if err != nil {
		return false, err
	}

	d.publish(ctx, model.EventFavoriteToggled, noteID, userID)
	return isFavorite, nil
}

func (d *DefaultService) Search(ctx context.Context, userID model.UserID, query string) ([]model.Note, error) {
	return d.repo.SearchNotes(ctx, userID, query)
}

// publish is best-effort: a broker failure never fails the request.
func (d *DefaultService) publish(ctx context.Context, eventType string, noteID model.NoteID, userID model.UserID) {
	if d.broker == nil {
		return
	}

	value, err := json.Marshal(model.NoteEvent{
		Type:   eventType,
		NoteID: noteID,
		UserID: userID,
		At:     time.Now(),
	})
	if err != nil {
		d.log.Error().Err(err).Str("type", eventType).Str("note_id", noteID.String()).Msg("failed to marshal event")
		return
	}

	if err = d.broker.SendMessage(ctx, []byte(userID.String()), value); err != nil {
		d.log.Error().Err(err).Str("type", eventType).Str("note_id", noteID.String()).Msg("failed to publish event")
	}
}
