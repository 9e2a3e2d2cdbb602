package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
)

func newTestService(now time.Time) *JWTService {
	s := NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	s.now = func() time.Time { return now }
	return s
}

func TestGenerateAndValidate(t *testing.T) {
	now := time.Now()
	s := newTestService(now)

	token, expiresIn, err := s.GenerateAccessToken(&models.User{ID: 7, Role: models.RoleLibrarian})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "LIBRARIAN", claims.Role)

	exp, ok := TokenExpiry(token)
	require.True(t, ok)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)
}

func TestValidateExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, _, err := newTestService(issued).GenerateAccessToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = newTestService(time.Now()).ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Now()).GenerateAccessToken(&models.User{ID: 1})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenExpiryOpaque(t *testing.T) {
	_, ok := TokenExpiry("opaque-token")
	assert.False(t, ok)
	_, ok = TokenExpiry("a.b.c")
	assert.False(t, ok)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("Basic xyz")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
