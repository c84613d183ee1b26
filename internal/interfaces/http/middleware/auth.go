package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

const (
	// AdminNameKey is the gin context key carrying the authenticated admin name
	AdminNameKey = "admin_name"
	// AdminTokenIDKey is the gin context key carrying the token ID, for logout
	AdminTokenIDKey = "admin_token_id"

	bearerPrefix = "Bearer "
)

// AdminAuth authenticates requests against the admin JWT and the
// revocation list
func AdminAuth(tokens *auth.JWTService, revocations auth.RevocationList, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Invalid token")
			return
		}

		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Error("checking token revocation", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Authorization check failed", GetRequestID(c)))
			return
		}
		if revoked {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token was revoked")
			return
		}

		c.Set(AdminNameKey, claims.Subject)
		c.Set(AdminTokenIDKey, claims.ID)
		c.Next()
	}
}

// GetAdminName returns the authenticated admin name, empty when the
// request is not authenticated
func GetAdminName(c *gin.Context) string {
	return c.GetString(AdminNameKey)
}

// GetAdminTokenID returns the ID of the presented admin token
func GetAdminTokenID(c *gin.Context) string {
	return c.GetString(AdminTokenIDKey)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(code, message, GetRequestID(c)))
}
