package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notshort/notshort/internal/model"
)

// VisitRepositoryInterface defines visit-record persistence operations.
type VisitRepositoryInterface interface {
	SaveVisit(ctx context.Context, visit *model.Visit) error
	ListByUser(ctx context.Context, userID string) ([]*model.Visit, error)
	ListByShortURL(ctx context.Context, shortURLID string) ([]*model.Visit, error)
}

// VisitRepository implements VisitRepositoryInterface over PostgreSQL.
type VisitRepository struct {
	Pool *pgxpool.Pool
}

// NewVisitRepository creates a VisitRepository.
func NewVisitRepository(pool *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{Pool: pool}
}

// SaveVisit inserts one visit record.
func (r *VisitRepository) SaveVisit(ctx context.Context, visit *model.Visit) error {
	query := `INSERT INTO url_visits (id, shortened_url_id, visit_time)
              VALUES ($1, $2, $3)`

	_, err := r.Pool.Exec(ctx, query, visit.ID, visit.ShortenedURLID, visit.VisitTime)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// ListByUser returns visits across all of the user's slugs.
func (r *VisitRepository) ListByUser(ctx context.Context, userID string) ([]*model.Visit, error) {
	query := `SELECT v.id, v.shortened_url_id, v.visit_time
              FROM url_visits v
              JOIN shortened_urls u ON u.id = v.shortened_url_id
              WHERE u.user_id = $1
              ORDER BY v.visit_time DESC`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits by user: %w", err)
	}
	defer rows.Close()

	var results []*model.Visit
	for rows.Next() {
		v := &model.Visit{}
		if err := rows.Scan(&v.ID, &v.ShortenedURLID, &v.VisitTime); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

// ListByShortURL returns visits for a single slug record.
func (r *VisitRepository) ListByShortURL(ctx context.Context, shortURLID string) ([]*model.Visit, error) {
	query := `SELECT id, shortened_url_id, visit_time FROM url_visits
              WHERE shortened_url_id = $1
              ORDER BY visit_time DESC`
	rows, err := r.Pool.Query(ctx, query, shortURLID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var results []*model.Visit
	for rows.Next() {
		v := &model.Visit{}
		if err := rows.Scan(&v.ID, &v.ShortenedURLID, &v.VisitTime); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, v)
	}
	return results, rows.Err()
}
