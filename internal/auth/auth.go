package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notshort/notshort/internal/model"
)

var (
	// ErrTokenExpired means the signature checked out but the token is stale.
	ErrTokenExpired = errors.New("Token has expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("Invalid token")
)

// Claims is the access-token payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth hashes credentials and issues/validates access tokens.
type Auth struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
}

// New builds an Auth. The secret is mandatory: without it every issued
// token would be unverifiable, so construction fails instead.
func New(secret, algorithm string, expHours int) (*Auth, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not set")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	return &Auth{
		secret:   []byte(secret),
		method:   method,
		lifetime: time.Duration(expHours) * time.Hour,
	}, nil
}

// HashPassword digests password+salt. An empty salt means a fresh
// 32-byte random salt is generated; the salt used is always returned so
// the same call serves both storing and verifying.
func HashPassword(password, salt string) (string, string, error) {
	if salt == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return "", "", fmt.Errorf("generate salt: %w", err)
		}
		salt = hex.EncodeToString(raw)
	}
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:]), salt, nil
}

// VerifyPassword recomputes the digest with the stored salt and compares
// in constant time.
func VerifyPassword(password, storedHash, storedSalt string) bool {
	computed, _, err := HashPassword(password, storedSalt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// Lifetime is the configured access-token validity window.
func (a *Auth) Lifetime() time.Duration {
	return a.lifetime
}

// IssueAccessToken signs a stateless assertion for the user.
func (a *Auth) IssueAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.lifetime)),
		},
	}
	token := jwt.NewWithClaims(a.method, claims)
	return token.SignedString(a.secret)
}

// ValidateAccessToken checks signature and expiry. Expiry is reported
// separately from tampering so clients can tell when to refresh.
func (a *Auth) ValidateAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != a.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
