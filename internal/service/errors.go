package service

import "errors"

var (
	// ErrEmailExists is returned by Register for a duplicate email.
	ErrEmailExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken covers missing, expired and unknown refresh
	// tokens.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUserNotFound is returned when a token references a deleted user.
	ErrUserNotFound = errors.New("user not found")
	// ErrSlugNotFound is returned for unknown or foreign slugs.
	ErrSlugNotFound = errors.New("short URL not found")
	// ErrSlugInUse is returned when an update targets an occupied slug.
	ErrSlugInUse = errors.New("slug already in use")
	// ErrSlugExhausted means five generation attempts all collided.
	ErrSlugExhausted = errors.New("failed to generate a unique slug after multiple attempts")
)
