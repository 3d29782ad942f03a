package security

import (
	"strings"
	"testing"

	"fixo-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, 15, 1440)

	t.Run("Access token", func(t *testing.T) {
		token, err := m.GenerateAccessToken("user-1", "user@test.com", domain.RoleProvider)
		assert.NoError(t, err)

		claims, err := m.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "user@test.com", claims.Email)
		assert.Equal(t, domain.RoleProvider, claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.Type)
	})

	t.Run("Refresh token carries no role", func(t *testing.T) {
		token, err := m.GenerateRefreshToken("user-1", "user@test.com")
		assert.NoError(t, err)

		claims, err := m.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, TokenTypeRefresh, claims.Type)
		assert.Empty(t, claims.Role)
	})
}

func TestTokenManager_Validate(t *testing.T) {
	m := NewTokenManager(testSecret, 15, 1440)

	t.Run("Garbage is invalid", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Tampered payload is invalid", func(t *testing.T) {
		token, err := m.GenerateAccessToken("user-1", "user@test.com", domain.RoleCustomer)
		assert.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[1] = "eyJmYWtlIjp0cnVlfQ"
		_, err = m.ValidateToken(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret is invalid", func(t *testing.T) {
		other := NewTokenManager("a-completely-different-secret-key-00", 15, 1440)
		token, err := other.GenerateAccessToken("user-1", "user@test.com", domain.RoleCustomer)
		assert.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token is reported as expired", func(t *testing.T) {
		short := NewTokenManager(testSecret, -1, -1)
		token, err := short.GenerateAccessToken("user-1", "user@test.com", domain.RoleCustomer)
		assert.NoError(t, err)

		_, err = short.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
