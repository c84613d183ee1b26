package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// CredentialHandler serves the stored credential endpoints
type CredentialHandler struct {
	BaseHandler
	credentials weebly.CredentialRepository
	logger      *zap.Logger
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(credentials weebly.CredentialRepository, logger *zap.Logger) *CredentialHandler {
	return &CredentialHandler{
		credentials: credentials,
		logger:      logger.Named("credential_handler"),
	}
}

// List lists stored credentials, tokens excluded
// @Router /credentials [get]
func (h *CredentialHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	credentials, err := h.credentials.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.credentials.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.CredentialResponse, len(credentials))
	for i := range credentials {
		items[i] = dto.ToCredentialResponse(&credentials[i])
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Delete removes a stored credential
// @Router /credentials/{id} [delete]
func (h *CredentialHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid credential ID")
		return
	}
	id := uuid.MustParse(req.ID)

	if _, err := h.credentials.FindByID(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.credentials.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("credential removed", zap.String("credential_id", req.ID))
	h.NoContent(c)
}
