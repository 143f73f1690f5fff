package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEmailTaken is returned when the users.email unique constraint fires.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSlugTaken is returned when the shortened_urls.slug unique
	// constraint fires. The slug generator treats it as a collision.
	ErrSlugTaken = errors.New("slug already in use")
)

// isUniqueViolation reports whether err is a Postgres 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
