package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/infrastructure/alert"
	"github.com/sitesync/backend/internal/infrastructure/cache"
)

// refreshLockTTL bounds a site refresh lock in case a run dies without
// releasing it
const refreshLockTTL = 30 * time.Minute

// ErrRefreshInProgress is returned when a refresh run for the same
// site already holds the lock
var ErrRefreshInProgress = shared.NewDomainError("REFRESH_IN_PROGRESS", "A refresh for this site is already running")

// ErrNoCredential is returned when a site has no credential to act with
var ErrNoCredential = shared.NewDomainError("NO_CREDENTIAL", "No credential available for this site")

// Result reports the outcome of a refresh operation
type Result struct {
	Changed bool `json:"changed"`
}

// Repositories groups the mirrored-record repositories the sync
// service works on
type Repositories struct {
	Users       weebly.SiteUserRepository
	Sites       weebly.SiteRepository
	Credentials weebly.CredentialRepository
	Pages       weebly.PageRepository
	Blogs       weebly.BlogRepository
	Posts       weebly.BlogPostRepository
	Products    weebly.StoreProductRepository
	Options     weebly.StoreProductOptionRepository
	Categories  weebly.StoreCategoryRepository
}

// Service reconciles the local mirrored records against the platform
type Service struct {
	repos    Repositories
	gateway  platform.Gateway
	guard    cache.SyncGuard
	notifier alert.Notifier
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewService creates a new sync service
func NewService(repos Repositories, gateway platform.Gateway, guard cache.SyncGuard, notifier alert.Notifier, events shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		repos:    repos,
		gateway:  gateway,
		guard:    guard,
		notifier: notifier,
		events:   events,
		logger:   logger.Named("sync"),
	}
}

// ---------------------------------------------------------------------------
// Credential handling
// ---------------------------------------------------------------------------

// tokenForSite resolves the credential to act on a site with. A
// credential of the site owner wins over credentials other users
// granted for the same site.
func (s *Service) tokenForSite(ctx context.Context, site *weebly.Site) (platform.AccessToken, *weebly.Credential, error) {
	credentials, err := s.repos.Credentials.FindBySite(ctx, site.ID)
	if err != nil {
		return platform.AccessToken{}, nil, err
	}
	credential := weebly.DefaultCredentialForSite(site, credentials)
	if credential == nil {
		return platform.AccessToken{}, nil, ErrNoCredential
	}
	return s.tokenFor(ctx, credential, site.SiteID)
}

// tokenFor builds the access token of a credential
func (s *Service) tokenFor(ctx context.Context, credential *weebly.Credential, platformSiteID int64) (platform.AccessToken, *weebly.Credential, error) {
	user, err := s.repos.Users.FindByID(ctx, credential.UserID)
	if err != nil {
		return platform.AccessToken{}, nil, fmt.Errorf("resolving credential user: %w", err)
	}
	token := platform.AccessToken{
		Token:  credential.Token,
		UserID: user.UserID,
		SiteID: platformSiteID,
	}
	if !credential.IsValid {
		s.logger.Warn("making request with invalid credential",
			zap.String("credential", token.Label()))
	}
	return token, credential, nil
}

// recordOutcome updates the credential validity from the outcome of a
// platform call. A rejected token invalidates the credential; a
// successful call restores one previously invalidated.
func (s *Service) recordOutcome(ctx context.Context, credential *weebly.Credential, callErr error) {
	switch {
	case errors.Is(callErr, platform.ErrUnknownAPIKey):
		if credential.IsValid {
			s.logger.Warn("credential no longer valid",
				zap.String("credential_id", credential.ID.String()))
		}
		credential.Invalidate()
	case callErr == nil && !credential.IsValid:
		credential.Revalidate()
	default:
		return
	}
	if err := s.repos.Credentials.Save(ctx, credential); err != nil {
		s.logger.Error("saving credential validity", zap.Error(err))
		return
	}
	s.publishEvents(ctx, credential)
}

// publishEvents flushes the pending domain events of an aggregate
func (s *Service) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("publishing domain events", zap.Error(err))
		return
	}
	aggregate.ClearDomainEvents()
}

// alertSkipped reports remote items a reconciliation run could not
// mirror to the administrators
func (s *Service) alertSkipped(ctx context.Context, kind string, site *weebly.Site, count int, payload string) {
	subject := fmt.Sprintf("problems updating %s of site %d", kind, site.SiteID)
	s.logger.Error(subject, zap.Int("skipped", count))
	if err := s.notifier.Notify(ctx, subject, payload); err != nil {
		s.logger.Error("sending alert", zap.Error(err))
	}
}

func (s *Service) siteBySiteID(ctx context.Context, siteID int64) (*weebly.Site, error) {
	return s.repos.Sites.FindBySiteID(ctx, siteID)
}

// ---------------------------------------------------------------------------
// User and site details
// ---------------------------------------------------------------------------

// RefreshUser updates a mirrored user record from the platform,
// using any valid credential the user has granted.
func (s *Service) RefreshUser(ctx context.Context, userID int64) (*Result, error) {
	user, err := s.repos.Users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	credentials, err := s.repos.Credentials.FindValidByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(credentials) == 0 {
		return nil, ErrNoCredential
	}
	credential := &credentials[0]

	site, err := s.repos.Sites.FindByID(ctx, credential.SiteID)
	if err != nil {
		return nil, fmt.Errorf("resolving credential site: %w", err)
	}

	token, credential, err := s.tokenFor(ctx, credential, site.SiteID)
	if err != nil {
		return nil, err
	}

	remote, err := s.gateway.GetUser(ctx, token, user.UserID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return nil, err
	}

	changed := user.Apply(Unescape(remote.Name), ValidEmail(remote.Email))
	if changed {
		if err := s.repos.Users.Save(ctx, user); err != nil {
			return nil, err
		}
	}
	return &Result{Changed: changed}, nil
}

// RefreshSite updates a mirrored site record from the platform. A
// site the platform no longer knows is marked missing and kept.
func (s *Service) RefreshSite(ctx context.Context, siteID int64) (*Result, error) {
	site, err := s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	token, credential, err := s.tokenForSite(ctx, site)
	if err != nil {
		return nil, err
	}

	remote, err := s.gateway.GetSite(ctx, token, site.SiteID)
	s.recordOutcome(ctx, credential, err)
	if errors.Is(err, platform.ErrSiteNotFound) {
		changed := site.IsFound
		site.MarkMissing()
		if changed {
			if err := s.repos.Sites.Save(ctx, site); err != nil {
				return nil, err
			}
			site.AddDomainEvent(weebly.NewSiteRefreshedEvent(site, true))
			s.publishEvents(ctx, site)
		}
		s.logger.Warn("site not found on platform", zap.Int64("site_id", site.SiteID))
		return &Result{Changed: changed}, nil
	}
	if err != nil {
		return nil, err
	}

	language := ""
	if remote.LanguageValid {
		language = remote.Language
	}
	changed := site.Apply(Unescape(remote.Title), remote.Domain, remote.IsPublished, language)
	if remote.UserID > 0 {
		owner, err := s.ownerByUserID(ctx, remote.UserID)
		if err != nil {
			return nil, err
		}
		if site.AssignOwner(owner.ID) {
			changed = true
		}
	}
	if changed {
		if err := s.repos.Sites.Save(ctx, site); err != nil {
			return nil, err
		}
		site.AddDomainEvent(weebly.NewSiteRefreshedEvent(site, true))
		s.publishEvents(ctx, site)
	}
	return &Result{Changed: changed}, nil
}

// ownerByUserID resolves the local record of a platform user, creating
// a bare one on first sight. Name and email arrive with the next user
// refresh.
func (s *Service) ownerByUserID(ctx context.Context, userID int64) (*weebly.SiteUser, error) {
	user, err := s.repos.Users.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		user, err = weebly.NewSiteUser(userID, "", "")
		if err != nil {
			return nil, err
		}
		if err := s.repos.Users.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ---------------------------------------------------------------------------
// Full refresh
// ---------------------------------------------------------------------------

// RefreshAll refreshes everything mirrored for one site: the site
// record, its pages, blogs with posts, and the store. Concurrent runs
// for the same site are rejected.
func (s *Service) RefreshAll(ctx context.Context, siteID int64) (*Result, error) {
	site, err := s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	acquired, err := s.guard.TryLock(ctx, site.SiteID, refreshLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrRefreshInProgress
	}
	defer func() {
		if err := s.guard.Unlock(ctx, site.SiteID); err != nil {
			s.logger.Error("releasing refresh lock", zap.Error(err))
		}
	}()

	changed := false
	result, err := s.RefreshSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	changed = changed || result.Changed

	// nothing below can succeed for a site the platform lost
	site, err = s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if !site.IsFound {
		return &Result{Changed: changed}, nil
	}

	for _, step := range []func(context.Context, int64) (*Result, error){
		s.RefreshPages,
		s.RefreshBlogs,
		s.RefreshStore,
	} {
		result, err := step(ctx, siteID)
		if err != nil {
			if platform.IsExpected(err) {
				s.logger.Warn("refresh step skipped", zap.Error(err))
				continue
			}
			return nil, err
		}
		changed = changed || result.Changed
	}

	return &Result{Changed: changed}, nil
}

// RefreshAllSites refreshes every site still known to the platform.
// Failures are logged per site so one broken site does not starve the
// rest. Returns the number of sites refreshed without error.
func (s *Service) RefreshAllSites(ctx context.Context) (int, error) {
	sites, err := s.repos.Sites.FindFound(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range sites {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := s.RefreshAll(ctx, sites[i].SiteID); err != nil {
			s.logger.Error("refreshing site",
				zap.Int64("site_id", sites[i].SiteID),
				zap.Error(err))
			continue
		}
		refreshed++
	}
	s.logger.Info("site refresh sweep finished",
		zap.Int("sites", len(sites)),
		zap.Int("refreshed", refreshed))
	return refreshed, nil
}

// ptrs converts a value slice into a pointer slice over its elements
func ptrs[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
