package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/application/account"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// AccountService is the part of the account application service the
// handler uses
type AccountService interface {
	Register(ctx context.Context, req account.RegisterRequest) (*weebly.Credential, error)
	Deauthorize(ctx context.Context, siteID int64) error
	PublishSite(ctx context.Context, siteID int64) error
	PublishSnippet(ctx context.Context, siteID int64) error
	UpdateCard(ctx context.Context, siteID int64, cardName string, cardData any, hidden bool) error
	IssueEmbedToken(ctx context.Context, siteID int64) (string, error)
	VerifyEmbedToken(ctx context.Context, token string) (*account.EmbedIdentity, error)
}

// UpdateCardRequest carries a dashboard card update
type UpdateCardRequest struct {
	Name   string `json:"name" binding:"required"`
	Data   any    `json:"data" binding:"required"`
	Hidden bool   `json:"hidden"`
}

// EmbedTokenResponse carries an issued embed token
type EmbedTokenResponse struct {
	Token string `json:"token"`
}

// VerifyEmbedRequest carries an embed token presented for verification
type VerifyEmbedRequest struct {
	Token string `json:"token" binding:"required"`
}

// AccountHandler serves registration, publish and embed endpoints
type AccountHandler struct {
	BaseHandler
	service AccountService
	logger  *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.Named("account_handler"),
	}
}

// Register stores or replaces the credential of a user and site pair
// @Router /account/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req account.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	credential, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToCredentialResponse(credential))
}

// Deauthorize disconnects the application from a site and removes its
// credentials
// @Router /sites/{site_id}/deauthorize [post]
func (h *AccountHandler) Deauthorize(c *gin.Context) {
	h.siteCommand(c, h.service.Deauthorize)
}

// PublishSite publishes a site on the platform
// @Router /sites/{site_id}/publish [post]
func (h *AccountHandler) PublishSite(c *gin.Context) {
	h.siteCommand(c, h.service.PublishSite)
}

// PublishSnippet pushes the embed snippet to a site
// @Router /sites/{site_id}/publish-snippet [post]
func (h *AccountHandler) PublishSnippet(c *gin.Context) {
	h.siteCommand(c, h.service.PublishSnippet)
}

// UpdateCard updates a dashboard card of a site
// @Router /sites/{site_id}/card [put]
func (h *AccountHandler) UpdateCard(c *gin.Context) {
	var uri dto.SiteIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid site ID")
		return
	}
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.UpdateCard(c.Request.Context(), uri.SiteID, req.Name, req.Data, req.Hidden); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// IssueEmbedToken issues a short-lived token for the embedded dashboard
// @Router /sites/{site_id}/embed-token [post]
func (h *AccountHandler) IssueEmbedToken(c *gin.Context) {
	var uri dto.SiteIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid site ID")
		return
	}

	token, err := h.service.IssueEmbedToken(c.Request.Context(), uri.SiteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, EmbedTokenResponse{Token: token})
}

// VerifyEmbedToken verifies an embed token and returns its identity.
// This endpoint is public, the token is the credential.
// @Router /embed/verify [post]
func (h *AccountHandler) VerifyEmbedToken(c *gin.Context) {
	var req VerifyEmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	identity, err := h.service.VerifyEmbedToken(c.Request.Context(), req.Token)
	if err != nil {
		h.logger.Warn("rejecting embed token", zap.Error(err))
		h.Unauthorized(c, "Invalid embed token")
		return
	}
	h.Success(c, identity)
}

func (h *AccountHandler) siteCommand(c *gin.Context, op func(context.Context, int64) error) {
	var uri dto.SiteIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid site ID")
		return
	}
	if err := op(c.Request.Context(), uri.SiteID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
