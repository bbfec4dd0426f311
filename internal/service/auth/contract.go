package auth

import (
	"context"

	"github.com/kotche/notekeeper/internal/model"
)

type (
	// Service is the identity boundary: it verifies credentials and turns a
	// bearer token into the current user id handed to every other service.
	Service interface {
		Register(ctx context.Context, username, password string) error
		Login(ctx context.Context, username, password string) (string, error)
		ParseToken(token string) (model.UserID, error)
	}
)
