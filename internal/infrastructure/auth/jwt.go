package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sitesync/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims represents the admin API token claims
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// JWTService issues and validates admin API tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateToken creates a signed admin API token for the named caller
func (s *JWTService) GenerateToken(name string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   name,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name: name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates an admin API token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// Expiration returns the configured token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EmbedClaims are the claims of an embed token. The platform sends
// user and site IDs as strings.
type EmbedClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	SiteID string `json:"site_id"`
}

// EmbedTokenService signs and verifies the embed tokens exchanged with
// the platform dashboard. Both sides share the app API secret.
type EmbedTokenService struct {
	secret []byte
}

// NewEmbedTokenService creates an embed token service signing with the
// app API secret
func NewEmbedTokenService(cfg *config.WeeblyConfig) *EmbedTokenService {
	return &EmbedTokenService{secret: []byte(cfg.APISecret)}
}

// Issue creates a signed embed token for the given platform identity.
// A zero ttl issues a token without an expiry claim.
func (s *EmbedTokenService) Issue(userID, siteID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &EmbedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: strconv.FormatInt(userID, 10),
		SiteID: strconv.FormatInt(siteID, 10),
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates an embed token and returns the platform identity it
// carries
func (s *EmbedTokenService) Verify(tokenString string) (userID, siteID int64, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &EmbedClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, 0, ErrExpiredToken
		}
		return 0, 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*EmbedClaims)
	if !ok || !token.Valid {
		return 0, 0, ErrInvalidClaims
	}
	userID, err = strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidClaims
	}
	siteID, err = strconv.ParseInt(claims.SiteID, 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidClaims
	}
	return userID, siteID, nil
}
