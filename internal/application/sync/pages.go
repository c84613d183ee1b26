package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/weebly"
)

// RefreshPages makes the mirrored pages of a site match the platform
func (s *Service) RefreshPages(ctx context.Context, siteID int64) (*Result, error) {
	site, err := s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	token, credential, err := s.tokenForSite(ctx, site)
	if err != nil {
		return nil, err
	}

	remotes, err := s.gateway.ListPages(ctx, token, site.SiteID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return nil, err
	}

	locals, err := s.repos.Pages.FindBySite(ctx, site.ID)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.Int64("site_id", site.SiteID))
	changed, skipped, err := reconcile(ctx, log, ptrs(locals), remotes, reconcileOps[weebly.Page, platform.RemotePage]{
		kind:      "page",
		localKey:  func(p *weebly.Page) int64 { return p.PageID },
		remoteKey: func(r platform.RemotePage) int64 { return r.PageID },
		create: func(r platform.RemotePage) (*weebly.Page, error) {
			return weebly.NewPage(site.ID, r.PageID, Unescape(r.Title), URLPath(r.PageURL))
		},
		apply: func(p *weebly.Page, r platform.RemotePage) bool {
			return p.Apply(Unescape(r.Title), URLPath(r.PageURL), r.Hidden, r.PageOrder, r.ParentID)
		},
		refetch: func(ctx context.Context, r platform.RemotePage) (*weebly.Page, error) {
			return s.repos.Pages.FindByPageID(ctx, r.PageID)
		},
		save: s.repos.Pages.Save,
		delete: func(ctx context.Context, p *weebly.Page) error {
			return s.repos.Pages.Delete(ctx, p.ID)
		},
	})
	if len(skipped) > 0 {
		s.alertSkipped(ctx, "pages", site, len(skipped), skippedPayload(skipped))
	}
	if err != nil {
		return nil, err
	}
	return &Result{Changed: changed}, nil
}
