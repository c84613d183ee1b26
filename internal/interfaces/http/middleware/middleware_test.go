package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/infrastructure/config"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an ID when the header is absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		engine.ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, rec.Header().Get("X-Request-ID"), rec.Body.String())
	})

	t.Run("honors an incoming ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "req-123")
		engine.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-123", rec.Body.String())
	})
}

func TestCORS(t *testing.T) {
	newEngine := func(cfg CORSConfig) *gin.Engine {
		engine := gin.New()
		engine.Use(CORS(cfg))
		engine.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
		return engine
	}

	t.Run("allows a configured origin", func(t *testing.T) {
		engine := newEngine(CORSConfig{AllowOrigins: []string{"https://admin.example.com"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		engine.ServeHTTP(rec, req)

		assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("ignores an unknown origin", func(t *testing.T) {
		engine := newEngine(CORSConfig{AllowOrigins: []string{"https://admin.example.com"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		engine.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight requests", func(t *testing.T) {
		engine := newEngine(CORSConfig{AllowOrigins: []string{"*"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAdminAuth(t *testing.T) {
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-admin-secret",
		Expiration: time.Hour,
		Issuer:     "sitesync-test",
	})
	revocations := auth.NewInMemoryRevocationList()

	engine := gin.New()
	engine.Use(RequestID())
	protected := engine.Group("", AdminAuth(tokens, revocations, zap.NewNop()))
	protected.GET("/secret", func(c *gin.Context) {
		c.String(http.StatusOK, GetAdminName(c))
	})

	request := func(token string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secret", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		engine.ServeHTTP(rec, req)
		return rec
	}

	errorCode := func(t *testing.T, rec *httptest.ResponseRecorder) string {
		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		return resp.Error.Code
	}

	t.Run("rejects a missing token", func(t *testing.T) {
		rec := request("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, rec))
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		rec := request("not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, rec))
	})

	t.Run("accepts a valid token", func(t *testing.T) {
		token, _, err := tokens.GenerateToken("admin")
		require.NoError(t, err)

		rec := request(token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin", rec.Body.String())
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		token, _, err := tokens.GenerateToken("admin")
		require.NoError(t, err)
		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(context.Background(), claims.ID, time.Hour))

		rec := request(token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, rec))
	})
}
