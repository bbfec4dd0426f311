package categories

import (
	"context"

	"github.com/kotche/notekeeper/internal/model"
)

type (
	// Service creates categories. Categories are create-only: they are
	// referenced by id from note assignment and never updated or deleted.
	Service interface {
		Create(ctx context.Context, userID model.UserID, name string) (model.CategoryID, error)
	}
)
