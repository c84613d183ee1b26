package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/scheduler"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error {
	return f.err
}

type fakeJobRunner struct {
	triggerErr error
	triggered  string
	history    []*scheduler.Run
}

func (f *fakeJobRunner) Trigger(_ context.Context, name string) error {
	f.triggered = name
	return f.triggerErr
}

func (f *fakeJobRunner) History(limit int) []*scheduler.Run {
	return f.history
}

func setupSystemHandlerTest(db Pinger, jobs JobRunner) *gin.Engine {
	h := NewSystemHandler(db, jobs, "1.2.3", zap.NewNop())
	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.POST("/jobs/:name/trigger", h.TriggerJob)
	engine.GET("/jobs/history", h.JobHistory)
	return engine
}

func TestSystemHandler(t *testing.T) {
	t.Run("reports healthy", func(t *testing.T) {
		engine := setupSystemHandlerTest(&fakePinger{}, &fakeJobRunner{})

		rec := performJSON(t, engine, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "1.2.3", data["version"])
	})

	t.Run("reports an unreachable database", func(t *testing.T) {
		engine := setupSystemHandlerTest(&fakePinger{err: errors.New("connection refused")}, &fakeJobRunner{})

		rec := performJSON(t, engine, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("triggers a job by name", func(t *testing.T) {
		jobs := &fakeJobRunner{}
		engine := setupSystemHandlerTest(&fakePinger{}, jobs)

		rec := performJSON(t, engine, http.MethodPost, "/jobs/refresh/trigger", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "refresh", jobs.triggered)
	})

	t.Run("maps an unknown job to 404", func(t *testing.T) {
		engine := setupSystemHandlerTest(&fakePinger{}, &fakeJobRunner{triggerErr: scheduler.ErrUnknownJob})

		rec := performJSON(t, engine, http.MethodPost, "/jobs/nope/trigger", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("maps a stopped scheduler to 409", func(t *testing.T) {
		engine := setupSystemHandlerTest(&fakePinger{}, &fakeJobRunner{triggerErr: scheduler.ErrSchedulerNotRunning})

		rec := performJSON(t, engine, http.MethodPost, "/jobs/refresh/trigger", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("lists recent job runs", func(t *testing.T) {
		started := time.Now().Add(-time.Minute)
		engine := setupSystemHandlerTest(&fakePinger{}, &fakeJobRunner{history: []*scheduler.Run{
			{Job: "refresh", Status: scheduler.RunStatusSuccess, StartedAt: started},
		}})

		rec := performJSON(t, engine, http.MethodGet, "/jobs/history", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		items := resp.Data.([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "refresh", items[0].(map[string]any)["job"])
	})
}
