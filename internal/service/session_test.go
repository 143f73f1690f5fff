package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/auth"
	"github.com/notshort/notshort/internal/model"
	"github.com/notshort/notshort/internal/service"
)

type memUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*model.User{}, byID: map[string]*model.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *model.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return r.byEmail[email], nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	return r.byID[id], nil
}

type memTokenRepo struct {
	tokens map[string]*model.RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]*model.RefreshToken{}}
}

func (r *memTokenRepo) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *memTokenRepo) GetValidRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	rt, ok := r.tokens[token]
	if !ok || rt.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return rt, nil
}

func (r *memTokenRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func newSessionService(t *testing.T) (*service.SessionService, *memUserRepo, *memTokenRepo, *auth.Auth) {
	t.Helper()
	a, err := auth.New("test-secret", "HS256", 1)
	require.NoError(t, err)
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	return service.NewSessionService(users, tokens, a, zap.NewNop()), users, tokens, a
}

func TestRegister(t *testing.T) {
	svc, users, _, _ := newSessionService(t)

	id, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stored := users.byEmail["u@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.NotEmpty(t, stored.Salt)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newSessionService(t)

	_, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "u@example.com", "other")
	assert.ErrorIs(t, err, service.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	svc, _, tokens, a := newSessionService(t)

	id, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	bundle, err := svc.Login(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", bundle.TokenType)
	assert.Equal(t, 3600, bundle.ExpiresIn)
	assert.NotEmpty(t, bundle.RefreshToken)
	assert.Contains(t, tokens.tokens, bundle.RefreshToken)

	claims, err := a.ValidateAccessToken(bundle.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _, _ := newSessionService(t)

	_, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "hunter2")
	_, errWrong := svc.Login(context.Background(), "u@example.com", "wrong")

	assert.ErrorIs(t, errUnknown, service.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, service.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrong)
}

func TestRefresh(t *testing.T) {
	svc, _, tokens, _ := newSessionService(t)

	_, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)
	first, err := svc.Login(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The exchanged token keeps working until its own expiry.
	assert.Contains(t, tokens.tokens, first.RefreshToken)
	third, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, third.AccessToken)
}

func TestRefresh_UnknownToken(t *testing.T) {
	svc, _, _, _ := newSessionService(t)

	_, err := svc.Refresh(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	svc, _, tokens, _ := newSessionService(t)

	_, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)
	bundle, err := svc.Login(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	tokens.tokens[bundle.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.Refresh(context.Background(), bundle.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	svc, _, tokens, _ := newSessionService(t)

	_, err := svc.Register(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)
	bundle, err := svc.Login(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), bundle.RefreshToken))
	assert.NotContains(t, tokens.tokens, bundle.RefreshToken)

	// Logging out twice, or with garbage, is fine.
	assert.NoError(t, svc.Logout(context.Background(), bundle.RefreshToken))
	assert.NoError(t, svc.Logout(context.Background(), ""))

	_, err = svc.Refresh(context.Background(), bundle.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _, _, _ := newSessionService(t)

	_, err := svc.GetUser(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
