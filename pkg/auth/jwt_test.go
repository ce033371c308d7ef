package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateAccessToken(7, "admin", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseValidate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin", claims.Username)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateAccessToken(1, "user", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseValidate(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := CreateAccessToken(1, "user", "alice", time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseValidate(token)
	assert.Error(t, err)
}
