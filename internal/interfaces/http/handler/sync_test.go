package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	appsync "github.com/sitesync/backend/internal/application/sync"
	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

type fakeSyncService struct {
	changed  bool
	err      error
	lastSite int64
	lastUser int64
}

func (f *fakeSyncService) result() (*appsync.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &appsync.Result{Changed: f.changed}, nil
}

func (f *fakeSyncService) RefreshUser(_ context.Context, userID int64) (*appsync.Result, error) {
	f.lastUser = userID
	return f.result()
}

func (f *fakeSyncService) RefreshSite(_ context.Context, siteID int64) (*appsync.Result, error) {
	f.lastSite = siteID
	return f.result()
}

func (f *fakeSyncService) RefreshAll(_ context.Context, siteID int64) (*appsync.Result, error) {
	f.lastSite = siteID
	return f.result()
}

func (f *fakeSyncService) RefreshPages(_ context.Context, siteID int64) (*appsync.Result, error) {
	f.lastSite = siteID
	return f.result()
}

func (f *fakeSyncService) RefreshBlogs(_ context.Context, siteID int64) (*appsync.Result, error) {
	f.lastSite = siteID
	return f.result()
}

func (f *fakeSyncService) RefreshStore(_ context.Context, siteID int64) (*appsync.Result, error) {
	f.lastSite = siteID
	return f.result()
}

func (f *fakeSyncService) RefreshProductOptions(_ context.Context, siteID, productID int64) (*appsync.Result, error) {
	f.lastSite = siteID
	return f.result()
}

func setupSyncHandlerTest(service *fakeSyncService) *gin.Engine {
	h := NewSyncHandler(service, zap.NewNop())
	engine := gin.New()
	engine.POST("/users/:user_id/refresh", h.RefreshUser)
	engine.POST("/sites/:site_id/refresh", h.RefreshSite)
	engine.POST("/sites/:site_id/refresh/all", h.RefreshAll)
	engine.POST("/sites/:site_id/products/:product_id/options/refresh", h.RefreshProductOptions)
	return engine
}

func TestSyncHandler(t *testing.T) {
	t.Run("reports the refresh outcome", func(t *testing.T) {
		service := &fakeSyncService{changed: true}
		engine := setupSyncHandlerTest(service)

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/refresh", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(100), service.lastSite)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["changed"])
	})

	t.Run("passes the user ID through", func(t *testing.T) {
		service := &fakeSyncService{}
		engine := setupSyncHandlerTest(service)

		rec := performJSON(t, engine, http.MethodPost, "/users/42/refresh", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), service.lastUser)
	})

	t.Run("rejects a non-numeric site ID", func(t *testing.T) {
		engine := setupSyncHandlerTest(&fakeSyncService{})

		rec := performJSON(t, engine, http.MethodPost, "/sites/nope/refresh", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps an unknown site to 404", func(t *testing.T) {
		engine := setupSyncHandlerTest(&fakeSyncService{err: shared.ErrNotFound})

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/refresh", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, rec))
	})

	t.Run("maps a running refresh to 409", func(t *testing.T) {
		engine := setupSyncHandlerTest(&fakeSyncService{err: appsync.ErrRefreshInProgress})

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/refresh/all", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeRefreshInProgress, errorCode(t, rec))
	})

	t.Run("maps a platform failure to 502", func(t *testing.T) {
		engine := setupSyncHandlerTest(&fakeSyncService{err: &platform.RequestError{
			Op:         "list pages",
			Message:    "boom",
			StatusCode: http.StatusInternalServerError,
		}})

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/refresh", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, dto.ErrCodePlatform, errorCode(t, rec))
	})

	t.Run("refreshes product options", func(t *testing.T) {
		service := &fakeSyncService{changed: true}
		engine := setupSyncHandlerTest(service)

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/products/7/options/refresh", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(100), service.lastSite)
	})
}
