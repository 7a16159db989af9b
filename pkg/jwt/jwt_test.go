package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "traveller@example.com", []string{"customer"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "traveller@example.com", claims.Email)
	assert.Equal(t, []string{"customer"}, claims.Roles)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateToken(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewService("different-secret", time.Hour)
		token, err := other.GenerateToken(uuid.New(), "a@example.com", nil)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired Token", func(t *testing.T) {
		expired := NewService("test-secret", -time.Minute)
		token, err := expired.GenerateToken(uuid.New(), "a@example.com", nil)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
		assert.True(t, service.IsTokenExpired(token))
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.Error(t, err)
		assert.True(t, service.IsTokenExpired("not-a-token"))
	})
}
