package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/infrastructure/config"
)

// embedTokenTTL bounds how long an issued embed token stays valid
const embedTokenTTL = 12 * time.Hour

// ErrNoCredential is returned when a site has no credential to act with
var ErrNoCredential = shared.NewDomainError("NO_CREDENTIAL", "No credential available for this site")

// ErrNotDisconnected is returned when the platform reports an
// unexpected status for an app disconnect
var ErrNotDisconnected = shared.NewDomainError("NOT_DISCONNECTED", "Platform did not confirm the disconnect")

// RegisterRequest carries the result of a completed OAuth authorization
type RegisterRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	SiteID int64  `json:"site_id" binding:"required"`
	Token  string `json:"token" binding:"required"`
	// Version is the app version the authorization callback reported
	Version string `json:"version"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Title   string `json:"title"`
	Domain  string `json:"domain"`
}

// EmbedIdentity is the verified identity carried by an embed token
type EmbedIdentity struct {
	UserID int64 `json:"user_id"`
	SiteID int64 `json:"site_id"`
}

// Service manages credentials and the site-facing platform commands
type Service struct {
	users       weebly.SiteUserRepository
	sites       weebly.SiteRepository
	credentials weebly.CredentialRepository
	gateway     platform.Gateway
	embedTokens *auth.EmbedTokenService
	cfg         *config.Config
	logger      *zap.Logger
}

// NewService creates a new account service
func NewService(users weebly.SiteUserRepository, sites weebly.SiteRepository, credentials weebly.CredentialRepository, gateway platform.Gateway, embedTokens *auth.EmbedTokenService, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		users:       users,
		sites:       sites,
		credentials: credentials,
		gateway:     gateway,
		embedTokens: embedTokens,
		cfg:         cfg,
		logger:      logger.Named("account"),
	}
}

// Register stores the access token a completed authorization produced.
// User and site records are created on first contact; a repeated
// authorization for the same pair replaces the stored token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*weebly.Credential, error) {
	user, err := s.users.FindByUserID(ctx, req.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		user, err = weebly.NewSiteUser(req.UserID, req.Name, req.Email)
		if err != nil {
			return nil, err
		}
		err = s.users.Save(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	site, err := s.sites.FindBySiteID(ctx, req.SiteID)
	if errors.Is(err, shared.ErrNotFound) {
		site, err = weebly.NewSite(user.ID, req.SiteID, req.Title, req.Domain)
		if err != nil {
			return nil, err
		}
		err = s.sites.Save(ctx, site)
	}
	if err != nil {
		return nil, err
	}

	credential, err := s.credentials.FindByUserAndSite(ctx, user.ID, site.ID)
	if errors.Is(err, shared.ErrNotFound) {
		credential, err = weebly.NewCredential(user.ID, site.ID, req.Token, req.Version)
		if err != nil {
			return nil, err
		}
		s.logger.Info("registering credential",
			zap.Int64("user_id", req.UserID),
			zap.Int64("site_id", req.SiteID))
		if err := s.credentials.Save(ctx, credential); err != nil {
			return nil, err
		}
		return credential, nil
	}
	if err != nil {
		return nil, err
	}

	if err := credential.ReplaceToken(req.Token, req.Version); err != nil {
		return nil, err
	}
	s.logger.Info("replacing credential token",
		zap.Int64("user_id", req.UserID),
		zap.Int64("site_id", req.SiteID))
	if err := s.credentials.Save(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// Deauthorize disconnects the app from a site and removes the stored
// credentials. The credentials are removed even when the platform call
// fails, since a failed disconnect usually means the token is already
// dead.
func (s *Service) Deauthorize(ctx context.Context, siteID int64) error {
	site, err := s.sites.FindBySiteID(ctx, siteID)
	if err != nil {
		return err
	}
	credentials, err := s.credentials.FindBySite(ctx, site.ID)
	if err != nil {
		return err
	}
	if len(credentials) == 0 {
		return ErrNoCredential
	}

	token, err := s.tokenForSite(ctx, site)
	if err != nil {
		return err
	}

	status, err := s.gateway.Deauthorize(ctx, token, site.SiteID)
	switch {
	case err != nil:
		s.logger.Warn("disconnect call failed, removing credentials anyway",
			zap.Int64("site_id", site.SiteID),
			zap.Error(err))
	case status != platform.DeauthorizeStatusDisconnected:
		s.logger.Error("unexpected disconnect status",
			zap.Int64("site_id", site.SiteID),
			zap.String("status", status))
		return ErrNotDisconnected
	}

	for i := range credentials {
		if err := s.credentials.Delete(ctx, credentials[i].ID); err != nil {
			return fmt.Errorf("deleting credential: %w", err)
		}
	}
	s.logger.Info("credentials removed",
		zap.Int64("site_id", site.SiteID),
		zap.Int("count", len(credentials)))
	return nil
}

// PublishSite publishes a site on the platform
func (s *Service) PublishSite(ctx context.Context, siteID int64) error {
	site, token, err := s.siteAndToken(ctx, siteID)
	if err != nil {
		return err
	}
	if err := s.gateway.PublishSite(ctx, token, site.SiteID); err != nil {
		if platform.IsExpected(err) {
			s.logger.Warn("site cannot be published",
				zap.Int64("site_id", site.SiteID),
				zap.Error(err))
		}
		return err
	}
	s.logger.Info("site published", zap.Int64("site_id", site.SiteID))
	return nil
}

// PublishSnippet installs the configured embed snippet on a site
func (s *Service) PublishSnippet(ctx context.Context, siteID int64) error {
	site, token, err := s.siteAndToken(ctx, siteID)
	if err != nil {
		return err
	}
	if err := s.gateway.PublishSnippet(ctx, token, site.SiteID, s.cfg.Weebly.Snippet); err != nil {
		return err
	}
	s.logger.Info("snippet published", zap.Int64("site_id", site.SiteID))
	return nil
}

// UpdateCard updates an app dashboard card of a site
func (s *Service) UpdateCard(ctx context.Context, siteID int64, cardName string, cardData any, hidden bool) error {
	site, token, err := s.siteAndToken(ctx, siteID)
	if err != nil {
		return err
	}
	if err := s.gateway.UpdateCard(ctx, token, site.SiteID, cardName, cardData, hidden); err != nil {
		return err
	}
	s.logger.Info("card updated",
		zap.Int64("site_id", site.SiteID),
		zap.String("card", cardName))
	return nil
}

// IssueEmbedToken signs a short-lived token the embedded dashboard
// frontend presents to authenticate a site owner
func (s *Service) IssueEmbedToken(ctx context.Context, siteID int64) (string, error) {
	site, err := s.sites.FindBySiteID(ctx, siteID)
	if err != nil {
		return "", err
	}
	owner, err := s.users.FindByID(ctx, site.OwnerID)
	if err != nil {
		return "", fmt.Errorf("resolving site owner: %w", err)
	}
	return s.embedTokens.Issue(owner.UserID, site.SiteID, embedTokenTTL)
}

// VerifyEmbedToken checks an embed token and returns the identity it
// carries. The site has to be one this service still mirrors.
func (s *Service) VerifyEmbedToken(ctx context.Context, token string) (*EmbedIdentity, error) {
	userID, siteID, err := s.embedTokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if _, err := s.sites.FindBySiteID(ctx, siteID); err != nil {
		return nil, err
	}
	return &EmbedIdentity{UserID: userID, SiteID: siteID}, nil
}

func (s *Service) siteAndToken(ctx context.Context, siteID int64) (*weebly.Site, platform.AccessToken, error) {
	site, err := s.sites.FindBySiteID(ctx, siteID)
	if err != nil {
		return nil, platform.AccessToken{}, err
	}
	token, err := s.tokenForSite(ctx, site)
	if err != nil {
		return nil, platform.AccessToken{}, err
	}
	return site, token, nil
}

func (s *Service) tokenForSite(ctx context.Context, site *weebly.Site) (platform.AccessToken, error) {
	credentials, err := s.credentials.FindBySite(ctx, site.ID)
	if err != nil {
		return platform.AccessToken{}, err
	}
	credential := weebly.DefaultCredentialForSite(site, credentials)
	if credential == nil {
		return platform.AccessToken{}, ErrNoCredential
	}
	user, err := s.users.FindByID(ctx, credential.UserID)
	if err != nil {
		return platform.AccessToken{}, fmt.Errorf("resolving credential user: %w", err)
	}
	return platform.AccessToken{
		Token:  credential.Token,
		UserID: user.UserID,
		SiteID: site.SiteID,
	}, nil
}
