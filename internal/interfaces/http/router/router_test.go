package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/infrastructure/config"
	"github.com/sitesync/backend/internal/infrastructure/scheduler"
	"github.com/sitesync/backend/internal/interfaces/http/handler"
	"github.com/sitesync/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) Ping() error { return nil }

type noopJobs struct{}

func (noopJobs) Trigger(context.Context, string) error { return nil }
func (noopJobs) History(int) []*scheduler.Run          { return nil }

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:     "router-test-secret",
		Expiration: time.Hour,
	})
	revocations := auth.NewInMemoryRevocationList()

	engine := gin.New()
	r := New(engine)
	r.Register(&APIRoutes{
		AdminAuth: middleware.AdminAuth(tokens, revocations, logger),
		System:    handler.NewSystemHandler(okPinger{}, noopJobs{}, "test", logger),
		Auth: handler.NewAuthHandler(config.AdminConfig{
			Username: "admin",
			Password: "secret",
		}, tokens, revocations, logger),
		Users:       handler.NewUserHandler(nil, nil, logger),
		Sites:       handler.NewSiteHandler(nil, nil, nil, nil, nil, nil, nil, logger),
		Sync:        handler.NewSyncHandler(nil, logger),
		Account:     handler.NewAccountHandler(nil, logger),
		Payments:    handler.NewPaymentHandler(nil, nil, logger),
		Credentials: handler.NewCredentialHandler(nil, logger),
	})
	r.Setup()
	return engine
}

func TestRouter(t *testing.T) {
	engine := setupRouterTest(t)

	request := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		engine.ServeHTTP(rec, req)
		return rec
	}

	t.Run("health is public", func(t *testing.T) {
		rec := request(http.MethodGet, "/api/v1/health")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("login is public", func(t *testing.T) {
		rec := request(http.MethodPost, "/api/v1/auth/login")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin routes require a token", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/sites",
			"/api/v1/users",
			"/api/v1/credentials",
			"/api/v1/payments",
		} {
			rec := request(http.MethodGet, path)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}

		rec := request(http.MethodPost, "/api/v1/sites/100/refresh")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown routes are 404", func(t *testing.T) {
		rec := request(http.MethodGet, "/api/v1/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
