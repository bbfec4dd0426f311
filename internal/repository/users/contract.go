package users

import (
	"context"

	"github.com/kotche/notekeeper/internal/model"
)

type (
	Repository interface {
		UsernameExists(ctx context.Context, username string) (bool, error)
		CreateUser(ctx context.Context, user model.User) error
		GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	}
)
