package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notshort/notshort/internal/model"
)

// TokenRepositoryInterface defines refresh-token persistence operations.
type TokenRepositoryInterface interface {
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetValidRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// TokenRepository implements TokenRepositoryInterface over PostgreSQL.
type TokenRepository struct {
	Pool *pgxpool.Pool
}

// NewTokenRepository creates a TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{Pool: pool}
}

// SaveRefreshToken persists a freshly issued refresh token.
func (r *TokenRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (token, user_id, expires_at, created_at)
              VALUES ($1, $2, $3, NOW())`

	_, err := r.Pool.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetValidRefreshToken returns the token row when it exists and has not
// expired, or nil. Expiry is checked in SQL so clock handling stays in
// one place.
func (r *TokenRepository) GetValidRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	query := `SELECT token, user_id, expires_at, created_at FROM refresh_tokens
              WHERE token = $1 AND expires_at > NOW()`
	rt := &model.RefreshToken{}
	err := r.Pool.QueryRow(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rt, nil
}

// DeleteRefreshToken removes a token. Deleting an absent token is not an
// error; logout stays idempotent.
func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	if _, err := r.Pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	return nil
}
