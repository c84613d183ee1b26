package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// UserHandler serves the read side of the mirrored user records
type UserHandler struct {
	BaseHandler
	users  weebly.SiteUserRepository
	sites  weebly.SiteRepository
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users weebly.SiteUserRepository, sites weebly.SiteRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		sites:  sites,
		logger: logger.Named("user_handler"),
	}
}

// List lists mirrored users
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	users, err := h.users.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.users.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.UserResponse, len(users))
	for i := range users {
		items[i] = dto.ToUserResponse(&users[i])
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Get returns a single mirrored user by its platform user ID, with the
// sites owned by the user
// @Router /users/{user_id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	var req dto.UserIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.users.FindByUserID(c.Request.Context(), req.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sites, err := h.sites.FindByOwner(c.Request.Context(), user.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	siteItems := make([]dto.SiteResponse, len(sites))
	for i := range sites {
		siteItems[i] = dto.ToSiteResponse(&sites[i])
	}
	h.Success(c, gin.H{
		"user":  dto.ToUserResponse(user),
		"sites": siteItems,
	})
}
