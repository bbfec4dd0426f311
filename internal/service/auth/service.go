package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kotche/notekeeper/internal/model"
	"github.com/kotche/notekeeper/internal/repository/users"
)

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type DefaultService struct {
	repo      users.Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewDefaultService(repo users.Repository, jwtSecret string, tokenTTL time.Duration) *DefaultService {
	return &DefaultService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (d *DefaultService) Register(ctx context.Context, username, password string) error {
	exists, err := d.repo.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return d.repo.CreateUser(ctx, model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	})
}

func (d *DefaultService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := d.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.tokenTTL)),
			Issuer:    "notekeeper",
		},
	})

	signed, err := token.SignedString(d.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (d *DefaultService) ParseToken(token string) (model.UserID, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return d.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, model.ErrInvalidToken
	}

	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok {
		return uuid.Nil, model.ErrInvalidToken
	}

	userID, err := uuid.Parse(tokenClaims.UserID)
	if err != nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	return userID, nil
}
