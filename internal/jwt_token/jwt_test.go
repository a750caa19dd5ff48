package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sovereign/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"sovereign-guard",
	"process-guard",
)
var expiresIn = 30 * time.Second

func Test_GeneratePresenceToken(t *testing.T) {
	token, err := jwtService.GeneratePresenceToken("device-1", "icpt-1", "wallet.exe", 4242, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidatePresenceToken(token)
	require.NoError(t, err)
	assert.Equal(t, PresenceStatus, claims.Status)
	assert.Equal(t, "device-1", claims.Subject)
	assert.Equal(t, "icpt-1", claims.InterceptID)
	assert.Equal(t, "wallet.exe", claims.Process)
	assert.Equal(t, 4242, claims.PID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidatePresenceToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidatePresenceToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidatePresenceToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GeneratePresenceToken("device-1", "icpt-1", "wallet.exe", 1, -time.Minute)
	require.NoError(t, err)

	_, err = jwtService.ValidatePresenceToken(token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func Test_ValidatePresenceToken_WrongKeyOrAudience(t *testing.T) {
	token, err := jwtService.GeneratePresenceToken("device-1", "icpt-1", "wallet.exe", 1, expiresIn)
	require.NoError(t, err)

	other := NewJWTService("other-key", "sovereign-guard", "process-guard")
	_, err = other.ValidatePresenceToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	wrongAudience := NewJWTService("test-signing-key", "sovereign-guard", "browser")
	_, err = wrongAudience.ValidatePresenceToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
