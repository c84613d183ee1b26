package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/application/sync"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// SyncService is the part of the sync application service the handler uses
type SyncService interface {
	RefreshUser(ctx context.Context, userID int64) (*sync.Result, error)
	RefreshSite(ctx context.Context, siteID int64) (*sync.Result, error)
	RefreshAll(ctx context.Context, siteID int64) (*sync.Result, error)
	RefreshPages(ctx context.Context, siteID int64) (*sync.Result, error)
	RefreshBlogs(ctx context.Context, siteID int64) (*sync.Result, error)
	RefreshStore(ctx context.Context, siteID int64) (*sync.Result, error)
	RefreshProductOptions(ctx context.Context, siteID, productID int64) (*sync.Result, error)
}

// RefreshResponse reports the outcome of a refresh operation
type RefreshResponse struct {
	Changed bool `json:"changed"`
}

// SyncHandler serves the refresh endpoints
type SyncHandler struct {
	BaseHandler
	service SyncService
	logger  *zap.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(service SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		service: service,
		logger:  logger.Named("sync_handler"),
	}
}

// RefreshUser pulls the user record from the platform
// @Router /users/{user_id}/refresh [post]
func (h *SyncHandler) RefreshUser(c *gin.Context) {
	var req dto.UserIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	h.refresh(c, func(ctx context.Context) (*sync.Result, error) {
		return h.service.RefreshUser(ctx, req.UserID)
	})
}

// RefreshSite pulls the site record from the platform
// @Router /sites/{site_id}/refresh [post]
func (h *SyncHandler) RefreshSite(c *gin.Context) {
	h.refreshSiteScoped(c, h.service.RefreshSite)
}

// RefreshAll pulls the site and all of its content from the platform
// @Router /sites/{site_id}/refresh/all [post]
func (h *SyncHandler) RefreshAll(c *gin.Context) {
	h.refreshSiteScoped(c, h.service.RefreshAll)
}

// RefreshPages pulls the page list of a site from the platform
// @Router /sites/{site_id}/refresh/pages [post]
func (h *SyncHandler) RefreshPages(c *gin.Context) {
	h.refreshSiteScoped(c, h.service.RefreshPages)
}

// RefreshBlogs pulls the blogs and their posts from the platform
// @Router /sites/{site_id}/refresh/blogs [post]
func (h *SyncHandler) RefreshBlogs(c *gin.Context) {
	h.refreshSiteScoped(c, h.service.RefreshBlogs)
}

// RefreshStore pulls the store products and categories from the platform
// @Router /sites/{site_id}/refresh/store [post]
func (h *SyncHandler) RefreshStore(c *gin.Context) {
	h.refreshSiteScoped(c, h.service.RefreshStore)
}

// RefreshProductOptions pulls the options of a single product
// @Router /sites/{site_id}/products/{product_id}/options/refresh [post]
func (h *SyncHandler) RefreshProductOptions(c *gin.Context) {
	var req dto.ProductRefreshRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid site or product ID")
		return
	}
	h.refresh(c, func(ctx context.Context) (*sync.Result, error) {
		return h.service.RefreshProductOptions(ctx, req.SiteID, req.ProductID)
	})
}

func (h *SyncHandler) refreshSiteScoped(c *gin.Context, op func(context.Context, int64) (*sync.Result, error)) {
	var req dto.SiteIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid site ID")
		return
	}
	h.refresh(c, func(ctx context.Context) (*sync.Result, error) {
		return op(ctx, req.SiteID)
	})
}

func (h *SyncHandler) refresh(c *gin.Context, op func(context.Context) (*sync.Result, error)) {
	result, err := op(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RefreshResponse{Changed: result.Changed})
}
