package model

import "time"

// RefreshToken is a long-lived opaque credential persisted per login.
// Expires 30 days after issuance; deleted on logout.
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenBundle is returned by login and refresh.
type TokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RegisterRequest is the body of POST /register and POST /login.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /refresh-token and POST /logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
