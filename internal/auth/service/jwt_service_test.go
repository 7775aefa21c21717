package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/voltpass/volt/internal/errors"
)

func newTestJWTService(t *testing.T, accessTTL, refreshTTL time.Duration) JWTService {
	t.Helper()
	svc, err := NewJWTService("volt", "access-secret", "refresh-secret", accessTTL, refreshTTL)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Run("missing secrets", func(t *testing.T) {
		_, err := NewJWTService("volt", "", "refresh", time.Minute, time.Hour)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("shared secret rejected", func(t *testing.T) {
		_, err := NewJWTService("volt", "same", "same", time.Minute, time.Hour)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService(t, 15*time.Minute, 168*time.Hour)
	userID := uuid.Must(uuid.NewV7())

	t.Run("access token round trip", func(t *testing.T) {
		token, err := svc.Issue(AccessToken, userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := svc.Verify(AccessToken, token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		token, err := svc.Issue(RefreshToken, userID)
		require.NoError(t, err)

		got, err := svc.Verify(RefreshToken, token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		token, err := svc.Issue(RefreshToken, userID)
		require.NoError(t, err)

		_, err = svc.Verify(AccessToken, token)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.Verify(AccessToken, "not.a.token")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		other, err := NewJWTService("other-service", "access-secret", "refresh-secret", time.Minute, time.Hour)
		require.NoError(t, err)

		token, err := other.Issue(AccessToken, userID)
		require.NoError(t, err)

		_, err = svc.Verify(AccessToken, token)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})
}

func TestJWTService_Expiry(t *testing.T) {
	svc := newTestJWTService(t, -time.Minute, 168*time.Hour)
	userID := uuid.Must(uuid.NewV7())

	token, err := svc.Issue(AccessToken, userID)
	require.NoError(t, err)

	_, err = svc.Verify(AccessToken, token)
	assert.True(t, apperrors.Is(err, apperrors.ErrTokenExpired))
}

func TestJWTService_TTL(t *testing.T) {
	svc := newTestJWTService(t, 15*time.Minute, 168*time.Hour)

	assert.Equal(t, 15*time.Minute, svc.TTL(AccessToken))
	assert.Equal(t, 168*time.Hour, svc.TTL(RefreshToken))
}
