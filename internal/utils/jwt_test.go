// internal/utils/jwt_test.go
package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	token, err := GenerateJWT(userID, "alice", "manager", 24*time.Hour, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "freshtrack", claims.Issuer)
}

func TestValidateJWTExpired(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	token, err := GenerateJWT(userID, "alice", "viewer", 24*time.Hour, now)
	require.NoError(t, err)

	// Still valid just before the 24h mark.
	_, err = ValidateJWT(token, now.Add(24*time.Hour-time.Minute))
	assert.NoError(t, err)

	// Rejected once past it.
	_, err = ValidateJWT(token, now.Add(25*time.Hour))
	assert.Error(t, err)
}

func TestValidateJWTRememberTTL(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	token, err := GenerateJWT(userID, "alice", "viewer", 720*time.Hour, now)
	require.NoError(t, err)

	_, err = ValidateJWT(token, now.Add(29*24*time.Hour))
	assert.NoError(t, err)

	_, err = ValidateJWT(token, now.Add(31*24*time.Hour))
	assert.Error(t, err)
}

func TestValidateJWTTampered(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	token, err := GenerateJWT(userID, "alice", "viewer", time.Hour, now)
	require.NoError(t, err)

	_, err = ValidateJWT(token+"x", now)
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token", now)
	assert.Error(t, err)
}

func TestValidateJWTNotYetValid(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	token, err := GenerateJWT(userID, "alice", "viewer", time.Hour, now)
	require.NoError(t, err)

	_, err = ValidateJWT(token, now.Add(-time.Hour))
	assert.Error(t, err)
}
