package handler

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/infrastructure/config"
	"github.com/sitesync/backend/internal/interfaces/http/middleware"
)

// LoginRequest carries the admin credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthHandler serves the admin login and logout endpoints
type AuthHandler struct {
	BaseHandler
	admin       config.AdminConfig
	tokens      *auth.JWTService
	revocations auth.RevocationList
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(admin config.AdminConfig, tokens *auth.JWTService, revocations auth.RevocationList, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		admin:       admin,
		tokens:      tokens,
		revocations: revocations,
		logger:      logger.Named("auth_handler"),
	}
}

// Login verifies the admin credentials and issues a JWT
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if h.admin.Password == "" || !h.credentialsMatch(req.Username, req.Password) {
		h.logger.Warn("admin login rejected", zap.String("username", req.Username))
		h.Unauthorized(c, "Invalid credentials")
		return
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.Username)
	if err != nil {
		h.logger.Error("generating admin token", zap.Error(err))
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout revokes the presented admin token
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	claims, err := h.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		h.Unauthorized(c, "Invalid token")
		return
	}

	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
		h.logger.Error("revoking admin token", zap.Error(err))
		h.InternalError(c, "Failed to revoke token")
		return
	}

	h.logger.Info("admin logged out", zap.String("admin", middleware.GetAdminName(c)))
	h.NoContent(c)
}

func (h *AuthHandler) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.admin.Password)) == 1
	return userOK && passOK
}
