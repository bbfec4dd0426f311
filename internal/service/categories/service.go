package categories

import (
	"context"

	"github.com/google/uuid"

	"github.com/kotche/notekeeper/internal/model"
	"github.com/kotche/notekeeper/internal/repository/notes"
)

type DefaultService struct {
	repo notes.Repository
}

func NewDefaultService(repo notes.Repository) *DefaultService {
	return &DefaultService{repo: repo}
}

func (d *DefaultService) Create(ctx context.Context, userID model.UserID, name string) (model.CategoryID, error) {
	return d.repo.CreateCategory(ctx, model.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	})
}
