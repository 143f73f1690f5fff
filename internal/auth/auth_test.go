package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notshort/notshort/internal/auth"
	"github.com/notshort/notshort/internal/model"
)

func TestHashPassword_FreshSalt(t *testing.T) {
	hash, salt, err := auth.HashPassword("hunter2", "")
	require.NoError(t, err)

	assert.Len(t, salt, 64) // 32 random bytes, hex-encoded
	assert.Len(t, hash, 64)

	again, sameSalt, err := auth.HashPassword("hunter2", salt)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
	assert.Equal(t, salt, sameSalt)
}

func TestVerifyPassword(t *testing.T) {
	hash, salt, err := auth.HashPassword("correct horse", "")
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword("correct horse", hash, salt))
	assert.False(t, auth.VerifyPassword("wrong horse", hash, salt))
	assert.False(t, auth.VerifyPassword("correct horse", hash, "deadbeef"))
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := auth.New("", "HS256", 1)
	assert.Error(t, err)
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	_, err := auth.New("secret", "HS999", 1)
	assert.Error(t, err)
}

func TestIssueAndValidateAccessToken(t *testing.T) {
	a, err := auth.New("test-secret", "HS256", 1)
	require.NoError(t, err)

	user := &model.User{ID: "user-1", Email: "u@example.com"}
	token, err := a.IssueAccessToken(user)
	require.NoError(t, err)

	claims, err := a.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	issuer, err := auth.New("secret-a", "HS256", 1)
	require.NoError(t, err)
	verifier, err := auth.New("secret-b", "HS256", 1)
	require.NoError(t, err)

	token, err := issuer.IssueAccessToken(&model.User{ID: "u", Email: "u@example.com"})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	a, err := auth.New("test-secret", "HS256", 0) // zero lifetime
	require.NoError(t, err)

	token, err := a.IssueAccessToken(&model.User{ID: "u", Email: "u@example.com"})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = a.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	a, err := auth.New("test-secret", "HS256", 1)
	require.NoError(t, err)

	_, err = a.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
