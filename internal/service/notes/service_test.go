package notes

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotche/notekeeper/internal/model"
)

type fakeRepo struct {
	notes      map[uuid.UUID]model.Note
	categories map[uuid.UUID]model.Category
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		notes:      make(map[uuid.UUID]model.Note),
		categories: make(map[uuid.UUID]model.Category),
	}
}

func (f *fakeRepo) CreateNote(_ context.Context, note model.Note) (model.NoteID, error) {
	f.notes[note.ID] = note
	return note.ID, nil
}

func (f *fakeRepo) NoteExists(_ context.Context, noteID model.NoteID, userID model.UserID) (bool, error) {
	note, ok := f.notes[noteID]
	return ok && note.UserID == userID, nil
}

func (f *fakeRepo) GetNote(_ context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	note, ok := f.notes[noteID]
	if !ok || note.UserID != userID {
		return nil, model.ErrNoteNotFound
	}
	if note.CategoryID != nil {
		category := f.categories[*note.CategoryID]
		note.CategoryName = &category.Name
	}
	return &note, nil
}

func (f *fakeRepo) UpdateNote(_ context.Context, note model.Note) error {
	stored, ok := f.notes[note.ID]
	if !ok || stored.UserID != note.UserID {
		return nil
	}
	stored.Title = note.Title
	stored.Content = note.Content
	f.notes[note.ID] = stored
	return nil
}

func (f *fakeRepo) DeleteNote(_ context.Context, noteID model.NoteID, userID model.UserID) error {
	if note, ok := f.notes[noteID]; ok && note.UserID == userID {
		delete(f.notes, noteID)
	}
	return nil
}

func (f *fakeRepo) ListNotes(_ context.Context, userID model.UserID) ([]model.Note, error) {
	var notes []model.Note
	for _, note := range f.notes {
		if note.UserID == userID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (f *fakeRepo) SearchNotes(ctx context.Context, userID model.UserID, query string) ([]model.Note, error) {
	all, _ := f.ListNotes(ctx, userID)
	q := strings.ToLower(query)

	var notes []model.Note
	for _, note := range all {
		categoryName := ""
		if note.CategoryID != nil {
			categoryName = f.categories[*note.CategoryID].Name
		}
		if strings.Contains(strings.ToLower(note.Title), q) ||
			strings.Contains(strings.ToLower(note.Content), q) ||
			(categoryName != "" && strings.Contains(strings.ToLower(categoryName), q)) {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (f *fakeRepo) SetNoteCategory(_ context.Context, noteID model.NoteID, userID model.UserID, categoryID model.CategoryID) error {
	if note, ok := f.notes[noteID]; ok && note.UserID == userID {
		note.CategoryID = &categoryID
		f.notes[noteID] = note
	}
	return nil
}

func (f *fakeRepo) ToggleFavorite(_ context.Context, noteID model.NoteID, userID model.UserID) (bool, error) {
	note, ok := f.notes[noteID]
	if !ok || note.UserID != userID {
		return false, model.ErrNoteNotFound
	}
	note.IsFavorite = !note.IsFavorite
	f.notes[noteID] = note
	return note.IsFavorite, nil
}

func (f *fakeRepo) CreateCategory(_ context.Context, category model.Category) (model.CategoryID, error) {
	f.categories[category.ID] = category
	return category.ID, nil
}

func (f *fakeRepo) CategoryExists(_ context.Context, categoryID model.CategoryID, userID model.UserID) (bool, error) {
	category, ok := f.categories[categoryID]
	return ok && category.UserID == userID, nil
}

type fakeBroker struct {
	events []string
	err    error
}

func (f *fakeBroker) SendMessage(_ context.Context, _, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, string(value))
	return nil
}

func (f *fakeBroker) ReadMessage(_ context.Context) ([]byte, []byte, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeBroker) Close() error { return nil }

func TestCreateThenGet(t *testing.T) {
	serv := NewDefaultService(newFakeRepo(), nil, zerolog.Nop())
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "Shopping", "milk, eggs")
	require.NoError(t, err)

	note, err := serv.Get(context.Background(), noteID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", note.Title)
	assert.Equal(t, "milk, eggs", note.Content)
	assert.Nil(t, note.CategoryName)
	assert.False(t, note.IsFavorite)
}

func TestOwnershipIsCollapsedIntoNotFound(t *testing.T) {
	serv := NewDefaultService(newFakeRepo(), nil, zerolog.Nop())
	owner := uuid.New()
	stranger := uuid.New()

	noteID, err := serv.Create(context.Background(), owner, "secret", "mine")
	require.NoError(t, err)

	_, err = serv.Get(context.Background(), noteID, stranger)
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	title := "hijacked"
	err = serv.Update(context.Background(), noteID, stranger, &title, nil)
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	err = serv.Delete(context.Background(), noteID, stranger)
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	_, err = serv.ToggleFavorite(context.Background(), noteID, stranger)
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	// the owner still sees the note untouched
	note, err := serv.Get(context.Background(), noteID, owner)
	require.NoError(t, err)
	assert.Equal(t, "secret", note.Title)
}

func TestUpdateReplacesOnlySuppliedFields(t *testing.T) {
	serv := NewDefaultService(newFakeRepo(), nil, zerolog.Nop())
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "old title", "old content")
	require.NoError(t, err)

	title := "new title"
	require.NoError(t, serv.Update(context.Background(), noteID, userID, &title, nil))

	note, err := serv.Get(context.Background(), noteID, userID)
	require.NoError(t, err)
	assert.Equal(t, "new title", note.Title)
	assert.Equal(t, "old content", note.Content)

	content := "new content"
	require.NoError(t, serv.Update(context.Background(), noteID, userID, nil, &content))

	note, err = serv.Get(context.Background(), noteID, userID)
	require.NoError(t, err)
	assert.Equal(t, "new title", note.Title)
	assert.Equal(t, "new content", note.Content)
}

func TestToggleFavoriteIsAnInvolution(t *testing.T) {
	serv := NewDefaultService(newFakeRepo(), nil, zerolog.Nop())
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "t", "c")
	require.NoError(t, err)

	first, err := serv.ToggleFavorite(context.Background(), noteID, userID)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := serv.ToggleFavorite(context.Background(), noteID, userID)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestAssignCategory(t *testing.T) {
	repo := newFakeRepo()
	serv := NewDefaultService(repo, nil, zerolog.Nop())
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "t", "c")
	require.NoError(t, err)

	categoryID, err := repo.CreateCategory(context.Background(), model.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Errands",
	})
	require.NoError(t, err)

	require.NoError(t, serv.AssignCategory(context.Background(), noteID, categoryID, userID))

	note, err := serv.Get(context.Background(), noteID, userID)
	require.NoError(t, err)
	require.NotNil(t, note.CategoryName)
	assert.Equal(t, "Errands", *note.CategoryName)
}

func TestAssignCategoryCombinedError(t *testing.T) {
	repo := newFakeRepo()
	serv := NewDefaultService(repo, nil, zerolog.Nop())
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "t", "c")
	require.NoError(t, err)

	categoryID, err := repo.CreateCategory(context.Background(), model.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Errands",
	})
	require.NoError(t, err)

	// missing note
	err = serv.AssignCategory(context.Background(), uuid.New(), categoryID, userID)
	assert.ErrorIs(t, err, model.ErrInvalidReference)

	// missing category
	err = serv.AssignCategory(context.Background(), noteID, uuid.New(), userID)
	assert.ErrorIs(t, err, model.ErrInvalidReference)

	// category of another user reads the same as a missing one
	otherCategoryID, err := repo.CreateCategory(context.Background(), model.Category{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "Foreign",
	})
	require.NoError(t, err)

	err = serv.AssignCategory(context.Background(), noteID, otherCategoryID, userID)
	assert.ErrorIs(t, err, model.ErrInvalidReference)
}

func TestSearchScopedToOwner(t *testing.T) {
	serv := NewDefaultService(newFakeRepo(), nil, zerolog.Nop())
	alice := uuid.New()
	bob := uuid.New()

	_, err := serv.Create(context.Background(), alice, "Groceries", "milk, eggs")
	require.NoError(t, err)
	_, err = serv.Create(context.Background(), bob, "Groceries", "bread")
	require.NoError(t, err)

	// case-insensitive substring
	found, err := serv.Search(context.Background(), alice, "GRO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, alice, found[0].UserID)

	// empty query matches everything the caller owns
	found, err = serv.Search(context.Background(), alice, "")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMutationsPublishEvents(t *testing.T) {
	broker := &fakeBroker{}
	serv := NewDefaultService(newFakeRepo(), broker, zerolog.Nop())
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "t", "c")
	require.NoError(t, err)

	_, err = serv.ToggleFavorite(context.Background(), noteID, userID)
	require.NoError(t, err)

	require.NoError(t, serv.Delete(context.Background(), noteID, userID))

	require.Len(t, broker.events, 3)
	assert.Contains(t, broker.events[0], model.EventNoteCreated)
	assert.Contains(t, broker.events[1], model.EventFavoriteToggled)
	assert.Contains(t, broker.events[2], model.EventNoteDeleted)
}

func TestBrokerFailureDoesNotFailTheRequest(t *testing.T) {
	broker := &fakeBroker{err: errors.New("broker down")}
	var logged bytes.Buffer
	serv := NewDefaultService(newFakeRepo(), broker, zerolog.New(&logged))
	userID := uuid.New()

	noteID, err := serv.Create(context.Background(), userID, "t", "c")
	require.NoError(t, err)

	_, err = serv.Get(context.Background(), noteID, userID)
	assert.NoError(t, err)

	// the failure is logged, not surfaced
	assert.Contains(t, logged.String(), "failed to publish event")
	assert.Contains(t, logged.String(), "broker down")
}
