package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens("s3cret", 24*time.Hour)
	tokens.now = func() time.Time { return now }

	raw, err := tokens.Issue("u1", "ana@example.com", "Ana")
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokensRejectOtherAlgorithms(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRequireSubject(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)
	raw, err := tokens.Issue("", "ana@example.com", "Ana")
	require.NoError(t, err)

	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
