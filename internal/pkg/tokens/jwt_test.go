package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	tok, err := GenerateToken(userID, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseUserID(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestParseUserID_Rejects(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	expired, err := GenerateToken(userID, secret, -time.Minute)
	require.NoError(t, err)

	wrongKey, err := GenerateToken(userID, []byte("other"), time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   wrongKey,
		"bad subject": badSubject,
		"garbage":     "a.b.c",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseUserID(tok, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
