package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/auth"
	"github.com/notshort/notshort/internal/model"
	"github.com/notshort/notshort/internal/repositories"
)

const refreshTokenLifetime = 30 * 24 * time.Hour

// SessionService owns the register/login/refresh/logout transitions.
type SessionService struct {
	Users  repositories.UserRepositoryInterface
	Tokens repositories.TokenRepositoryInterface
	Auth   *auth.Auth
	Logger *zap.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(users repositories.UserRepositoryInterface, tokens repositories.TokenRepositoryInterface, a *auth.Auth, logger *zap.Logger) *SessionService {
	return &SessionService{Users: users, Tokens: tokens, Auth: a, Logger: logger}
}

// Register creates an account and returns its id. Fails with
// ErrEmailExists when the email is taken.
func (s *SessionService) Register(ctx context.Context, email, password string) (string, error) {
	existing, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailExists
	}

	hash, salt, err := auth.HashPassword(password, "")
	if err != nil {
		return "", err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		// Concurrent registration of the same email loses the race here.
		if errors.Is(err, repositories.ErrEmailTaken) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return user.ID, nil
}

// Login verifies credentials and issues a fresh token pair. The error is
// the same for an unknown email and a wrong password.
func (s *SessionService) Login(ctx context.Context, email, password string) (*model.TokenBundle, error) {
	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash, user.Salt) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The
// previous refresh token stays valid until its own expiry.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*model.TokenBundle, error) {
	rt, err := s.Tokens.GetValidRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Users.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}
	return s.issueTokens(ctx, user)
}

// Logout invalidates a refresh token. Idempotent: an unknown token is
// not an error.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Tokens.DeleteRefreshToken(ctx, refreshToken)
}

// GetUser loads the user an access token refers to.
func (s *SessionService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *SessionService) issueTokens(ctx context.Context, user *model.User) (*model.TokenBundle, error) {
	accessToken, err := s.Auth.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	rt := &model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(refreshTokenLifetime),
	}
	if err := s.Tokens.SaveRefreshToken(ctx, rt); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &model.TokenBundle{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
		ExpiresIn:    int(s.Auth.Lifetime().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
