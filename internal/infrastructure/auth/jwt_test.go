package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesync/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters!!",
		Expiration: time.Hour,
		Issuer:     "sitesync",
	})
}

func TestJWTServiceRoundTrip(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateToken("ops")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "ops", claims.Name)
	assert.Equal(t, "sitesync", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Greater(t, claims.GetRemainingTTL(), time.Duration(0))
}

func TestJWTServiceValidateToken(t *testing.T) {
	service := newTestJWTService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:     "another-secret-of-sufficient-length!",
			Expiration: time.Hour,
			Issuer:     "sitesync",
		})
		token, _, err := other.GenerateToken("ops")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewJWTService(config.JWTConfig{
			Secret:     "test-secret-at-least-32-characters!!",
			Expiration: -time.Minute,
			Issuer:     "sitesync",
		})
		token, _, err := short.GenerateToken("ops")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-at-least-32-characters!!"))
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})
}

func TestEmbedTokenService(t *testing.T) {
	service := NewEmbedTokenService(&config.WeeblyConfig{APISecret: "app-api-secret"})

	t.Run("round trip", func(t *testing.T) {
		token, err := service.Issue(42, 7, time.Hour)
		require.NoError(t, err)

		userID, siteID, err := service.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
		assert.Equal(t, int64(7), siteID)
	})

	t.Run("no expiry claim", func(t *testing.T) {
		token, err := service.Issue(42, 7, 0)
		require.NoError(t, err)

		_, _, err = service.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := service.Issue(42, 7, -time.Minute)
		require.NoError(t, err)

		_, _, err = service.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewEmbedTokenService(&config.WeeblyConfig{APISecret: "different-secret"})
		token, err := other.Issue(42, 7, time.Hour)
		require.NoError(t, err)

		_, _, err = service.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non-numeric identity", func(t *testing.T) {
		claims := &EmbedClaims{UserID: "abc", SiteID: "7"}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("app-api-secret"))
		require.NoError(t, err)

		_, _, err = service.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestInMemoryRevocationList(t *testing.T) {
	list := NewInMemoryRevocationList()
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// entries past their ttl fall out
	require.NoError(t, list.Revoke(ctx, "jti-2", -time.Second))
	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
