package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notshort/notshort/internal/model"
)

// UserRepositoryInterface defines user persistence operations.
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UserRepository implements UserRepositoryInterface over PostgreSQL.
type UserRepository struct {
	Pool *pgxpool.Pool
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Pool: pool}
}

// CreateUser inserts a new account. Returns ErrEmailTaken on a duplicate
// email.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, salt, created_at)
              VALUES ($1, $2, $3, $4, $5)`

	_, err := r.Pool.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.Salt, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email, or nil.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, salt, created_at FROM users WHERE email = $1`
	user := &model.User{}
	err := r.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Salt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

// GetUserByID returns the user with the given id, or nil.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, password_hash, salt, created_at FROM users WHERE id = $1`
	user := &model.User{}
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Salt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}
