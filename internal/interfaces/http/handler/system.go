package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/scheduler"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// Pinger reports whether the database connection is healthy
type Pinger interface {
	Ping() error
}

// JobRunner is the part of the scheduler the handler uses
type JobRunner interface {
	Trigger(ctx context.Context, name string) error
	History(limit int) []*scheduler.Run
}

// HealthResponse reports the service health
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemHandler serves the health and scheduled-job endpoints
type SystemHandler struct {
	BaseHandler
	db      Pinger
	jobs    JobRunner
	version string
	logger  *zap.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, jobs JobRunner, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		db:      db,
		jobs:    jobs,
		version: version,
		logger:  logger.Named("system_handler"),
	}
}

// Health reports the service and database health
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.logger.Error("database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.ErrCodeInternal, "Database unavailable", ""))
		return
	}
	h.Success(c, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
	})
}

// TriggerJob runs a scheduled job out of schedule
// @Router /jobs/{name}/trigger [post]
func (h *SystemHandler) TriggerJob(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		h.BadRequest(c, "Job name is required")
		return
	}

	if err := h.jobs.Trigger(c.Request.Context(), name); err != nil {
		switch err {
		case scheduler.ErrUnknownJob:
			h.NotFound(c, "Unknown job")
		case scheduler.ErrSchedulerNotRunning:
			h.Error(c, http.StatusConflict, dto.ErrCodeInvalidState, "Scheduler is not running")
		default:
			h.HandleError(c, err)
		}
		return
	}
	h.NoContent(c)
}

// JobHistory lists recent scheduled-job runs
// @Router /jobs/history [get]
func (h *SystemHandler) JobHistory(c *gin.Context) {
	h.Success(c, h.jobs.History(50))
}
