package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Masterminds/squirrel"

	"github.com/kotche/notekeeper/infrastructure/tracing"
	"github.com/kotche/notekeeper/internal/model"
)

type DefaultRepository struct {
	db *sql.DB
}

func NewDefaultRepository(pg *sql.DB) *DefaultRepository {
	return &DefaultRepository{pg}
}

func (d *DefaultRepository) CreateNote(ctx context.Context, note model.Note) (model.NoteID, error) {
	query := `
		INSERT INTO notes (id, user_id, title, content, is_favorite, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id
	`

	var noteID model.NoteID
	err := d.db.QueryRowContext(ctx, query, note.ID, note.UserID, note.Title, note.Content).Scan(&noteID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create note: %w", err)
	}

	return noteID, nil
}

func (d *DefaultRepository) NoteExists(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1 AND user_id = $2)`
	err := d.db.QueryRowContext(ctx, query, noteID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to get note '%s' for user '%s' exists: %w", noteID, userID, err)
	}
	return exists, nil
}

func (d *DefaultRepository) GetNote(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	note := &model.Note{}
	query := `
		SELECT n.id, n.user_id, n.title, n.content, n.category_id, c.name, n.is_favorite, n.created_at
		FROM notes n
		LEFT JOIN categories c ON c.id = n.category_id
		WHERE n.id = $1 AND n.user_id = $2
	`

	var (
		categoryID   uuid.NullUUID
		categoryName sql.NullString
	)
	err := d.db.QueryRowContext(ctx, query, noteID, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &categoryID, &categoryName, &note.IsFavorite, &note.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note '%s' for user '%s': %w", noteID, userID, err)
	}

	if categoryID.Valid {
		note.CategoryID = &categoryID.UUID
	}
	if categoryName.Valid {
		note.CategoryName = &categoryName.String
	}

	return note, nil
}

func (d *DefaultRepository) UpdateNote(ctx context.Context, note model.Note) error {
	query := `UPDATE notes SET title = $1, content = $2 WHERE id = $3 AND user_id = $4`
	if _, err := d.db.ExecContext(ctx, query, note.Title, note.Content, note.ID, note.UserID); err != nil {
		return fmt.Errorf("failed to update note '%s' for user '%s': %w", note.ID, note.UserID, err)
	}
	return nil
}

func (d *DefaultRepository) DeleteNote(ctx context.Context, noteID model.NoteID, userID model.UserID) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	if _, err := d.db.ExecContext(ctx, query, noteID, userID); err != nil {
		return fmt.Errorf("failed to delete note '%s' for user '%s': %w", noteID, userID, err)
	}
	return nil
}

func (d *DefaultRepository) ListNotes(ctx context.Context, userID model.UserID) ([]model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "ListNotes_repo")
	defer span.End()

	queryBuilder := notesProjection().
		Where(squirrel.Eq{"n.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return d.queryNotes(ctx, query, args)
}

func (d *DefaultRepository) SearchNotes(ctx context.Context, userID model.UserID, searchQuery string) ([]model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "SearchNotes_repo")
	defer span.End()

	query, args, err := buildSearchQuery(userID, searchQuery).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return d.queryNotes(ctx, query, args)
}

// buildSearchQuery matches the query as a case-insensitive substring against
// the note title, content and assigned category name, scoped to the owner.
// An empty query matches every note.
func buildSearchQuery(userID model.UserID, searchQuery string) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(searchQuery) + "%"

	return notesProjection().
		Where(squirrel.Eq{"n.user_id": userID}).
		Where(squirrel.Or{
			squirrel.ILike{"n.title": pattern},
			squirrel.ILike{"n.content": pattern},
			squirrel.ILike{"c.name": pattern},
		}).
		PlaceholderFormat(squirrel.Dollar)
}

// escapeLike neutralizes LIKE metacharacters so the query matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func notesProjection() squirrel.SelectBuilder {
	return squirrel.
		Select("n.id",
			"n.user_id",
			"n.title",
			"n.content",
			"n.category_id",
			"c.name",
			"n.is_favorite",
			"n.created_at").
		From("notes n").
		LeftJoin("categories c ON c.id = n.category_id")
}

func (d *DefaultRepository) queryNotes(ctx context.Context, query string, args []interface{}) ([]model.Note, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var (
			note         model.Note
			categoryID   uuid.NullUUID
			categoryName sql.NullString
		)
		if err = rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content,
			&categoryID, &categoryName, &note.IsFavorite, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if categoryID.Valid {
			note.CategoryID = &categoryID.UUID
		}
		if categoryName.Valid {
			note.CategoryName = &categoryName.String
		}
		notes = append(notes, note)
	}

	return notes, nil
}

func (d *DefaultRepository) SetNoteCategory(ctx context.Context, noteID model.NoteID, userID model.UserID, categoryID model.CategoryID) error {
	query := `UPDATE notes SET category_id = $1 WHERE id = $2 AND user_id = $3`
	if _, err := d.db.ExecContext(ctx, query, categoryID, noteID, userID); err != nil {
		return fmt.Errorf("failed to set category '%s' on note '%s' for user '%s': %w", categoryID, noteID, userID, err)
	}
	return nil
}

func (d *DefaultRepository) ToggleFavorite(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error) {
	query := `
		UPDATE notes SET is_favorite = NOT is_favorite
		WHERE id = $1 AND user_id = $2
		RETURNING is_favorite
	`

	var isFavorite bool
	err := d.db.QueryRowContext(ctx, query, noteID, userID).Scan(&isFavorite)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, model.ErrNoteNotFound
		}
		return false, fmt.Errorf("failed to toggle favorite on note '%s' for user '%s': %w", noteID, userID, err)
	}

	return isFavorite, nil
}

func (d *DefaultRepository) CreateCategory(ctx context.Context, category model.Category) (model.CategoryID, error) {
	query := `
		INSERT INTO categories (id, user_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`

	var categoryID model.CategoryID
	err := d.db.QueryRowContext(ctx, query, category.ID, category.UserID, category.Name).Scan(&categoryID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create category: %w", err)
	}

	return categoryID, nil
}

func (d *DefaultRepository) CategoryExists(ctx context.Context, categoryID model.CategoryID, userID model.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`
	err := d.db.QueryRowContext(ctx, query, categoryID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to get category '%s' for user '%s' exists: %w", categoryID, userID, err)
	}
	return exists, nil
}
