package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notshort/notshort/internal/model"
)

// URLRepositoryInterface defines short-URL persistence operations.
type URLRepositoryInterface interface {
	SaveShortURL(ctx context.Context, rec *model.ShortURL) error
	GetBySlug(ctx context.Context, slug string) (*model.ShortURL, error)
	GetByURL(ctx context.Context, url string) (*model.ShortURL, error)
	ListByUser(ctx context.Context, userID string) ([]*model.ShortURL, error)
	UpdateShortURL(ctx context.Context, slug, newURL, newSlug string) (*model.ShortURL, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// URLRepository implements URLRepositoryInterface over PostgreSQL.
type URLRepository struct {
	Pool *pgxpool.Pool
}

// NewURLRepository creates a URLRepository.
func NewURLRepository(pool *pgxpool.Pool) *URLRepository {
	return &URLRepository{Pool: pool}
}

// SaveShortURL inserts a slug record. The slug column carries a unique
// constraint; a violation is surfaced as ErrSlugTaken so the generator
// can treat a concurrent insert as a collision and retry.
func (r *URLRepository) SaveShortURL(ctx context.Context, rec *model.ShortURL) error {
	query := `INSERT INTO shortened_urls (id, slug, url, user_id)
              VALUES ($1, $2, $3, $4)`

	_, err := r.Pool.Exec(ctx, query, rec.ID, rec.Slug, rec.URL, rec.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetBySlug returns the record for a slug, or nil.
func (r *URLRepository) GetBySlug(ctx context.Context, slug string) (*model.ShortURL, error) {
	query := `SELECT id, slug, url, user_id FROM shortened_urls WHERE slug = $1`
	rec := &model.ShortURL{}
	err := r.Pool.QueryRow(ctx, query, slug).Scan(&rec.ID, &rec.Slug, &rec.URL, &rec.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rec, nil
}

// GetByURL returns the record for a long URL, or nil. Long URLs are not
// unique; the earliest record wins.
func (r *URLRepository) GetByURL(ctx context.Context, url string) (*model.ShortURL, error) {
	query := `SELECT id, slug, url, user_id FROM shortened_urls WHERE url = $1 LIMIT 1`
	rec := &model.ShortURL{}
	err := r.Pool.QueryRow(ctx, query, url).Scan(&rec.ID, &rec.Slug, &rec.URL, &rec.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rec, nil
}

// ListByUser returns all slug records owned by a user.
func (r *URLRepository) ListByUser(ctx context.Context, userID string) ([]*model.ShortURL, error) {
	query := `SELECT id, slug, url, user_id FROM shortened_urls WHERE user_id = $1`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query URLs by user: %w", err)
	}
	defer rows.Close()

	var results []*model.ShortURL
	for rows.Next() {
		rec := &model.ShortURL{}
		if err := rows.Scan(&rec.ID, &rec.Slug, &rec.URL, &rec.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// UpdateShortURL rewrites the URL and optionally the slug of a record.
// An empty newSlug keeps the existing one. Returns ErrSlugTaken when
// newSlug collides with another record.
func (r *URLRepository) UpdateShortURL(ctx context.Context, slug, newURL, newSlug string) (*model.ShortURL, error) {
	if newSlug == "" {
		newSlug = slug
	}
	query := `UPDATE shortened_urls SET url = $1, slug = $2 WHERE slug = $3
              RETURNING id, slug, url, user_id`
	rec := &model.ShortURL{}
	err := r.Pool.QueryRow(ctx, query, newURL, newSlug, slug).Scan(&rec.ID, &rec.Slug, &rec.URL, &rec.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("database update error: %w", err)
	}
	return rec, nil
}

// DeleteBySlug removes a slug record. Associated visits go with it via
// the ON DELETE CASCADE constraint. Deleting an absent slug is not an
// error.
func (r *URLRepository) DeleteBySlug(ctx context.Context, slug string) error {
	query := `DELETE FROM shortened_urls WHERE slug = $1`
	if _, err := r.Pool.Exec(ctx, query, slug); err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	return nil
}
