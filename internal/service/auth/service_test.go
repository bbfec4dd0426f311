package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotche/notekeeper/internal/model"
)

type fakeUsersRepo struct {
	users map[string]model.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]model.User)}
}

func (f *fakeUsersRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUsersRepo) CreateUser(_ context.Context, user model.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUsersRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	return &user, nil
}

func newService(repo *fakeUsersRepo, ttl time.Duration) *DefaultService {
	return NewDefaultService(repo, "test-secret", ttl)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUsersRepo()
	serv := newService(repo, time.Hour)

	require.NoError(t, serv.Register(context.Background(), "alice", "pw1"))

	token, err := serv.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := serv.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, repo.users["alice"].ID, userID)
}

func TestRegisterTakenUsername(t *testing.T) {
	repo := newFakeUsersRepo()
	serv := newService(repo, time.Hour)

	require.NoError(t, serv.Register(context.Background(), "alice", "pw1"))

	err := serv.Register(context.Background(), "alice", "other")
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
	assert.Len(t, repo.users, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	serv := newService(newFakeUsersRepo(), time.Hour)

	require.NoError(t, serv.Register(context.Background(), "alice", "pw1"))

	_, err := serv.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	serv := newService(newFakeUsersRepo(), time.Hour)

	_, err := serv.Login(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestParseTokenGarbage(t *testing.T) {
	serv := newService(newFakeUsersRepo(), time.Hour)

	_, err := serv.ParseToken("not-a-token")
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	serv := newService(newFakeUsersRepo(), -time.Minute)

	require.NoError(t, serv.Register(context.Background(), "alice", "pw1"))

	token, err := serv.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	_, err = serv.ParseToken(token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestParseTokenForeignSignature(t *testing.T) {
	serv := newService(newFakeUsersRepo(), time.Hour)
	require.NoError(t, serv.Register(context.Background(), "alice", "pw1"))

	token, err := serv.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	other := NewDefaultService(newFakeUsersRepo(), "other-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}
