package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/weebly"
)

// categoryPasses bounds the category reconciliation loop. A category
// can reference a parent that only gets created by the same run, so
// parent links may need a second pass to resolve.
const categoryPasses = 3

// RefreshStore makes the mirrored store products, their options, and
// the store categories of a site match the platform
func (s *Service) RefreshStore(ctx context.Context, siteID int64) (*Result, error) {
	site, err := s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	token, credential, err := s.tokenForSite(ctx, site)
	if err != nil {
		return nil, err
	}

	changed, err := s.refreshProducts(ctx, token, credential, site)
	if err != nil {
		return nil, err
	}

	categoriesChanged, err := s.refreshCategories(ctx, token, credential, site)
	if err != nil {
		return nil, err
	}
	return &Result{Changed: changed || categoriesChanged}, nil
}

// RefreshProductOptions makes the mirrored options of a single product
// match the platform, without touching the rest of the store
func (s *Service) RefreshProductOptions(ctx context.Context, siteID, productID int64) (*Result, error) {
	site, err := s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	token, credential, err := s.tokenForSite(ctx, site)
	if err != nil {
		return nil, err
	}

	product, err := s.repos.Products.FindBySiteAndProductID(ctx, site.ID, productID)
	if err != nil {
		return nil, err
	}

	remotes, err := s.gateway.ListProductOptions(ctx, token, site.SiteID, product.ProductID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return nil, err
	}

	changed, err := s.reconcileOptions(ctx, site, product, remotes)
	if err != nil {
		return nil, err
	}
	return &Result{Changed: changed}, nil
}

func (s *Service) refreshProducts(ctx context.Context, token platform.AccessToken, credential *weebly.Credential, site *weebly.Site) (bool, error) {
	remotes, err := s.gateway.ListProducts(ctx, token, site.SiteID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return false, err
	}

	locals, err := s.repos.Products.FindBySite(ctx, site.ID)
	if err != nil {
		return false, err
	}

	log := s.logger.With(zap.Int64("site_id", site.SiteID))
	changed, skipped, err := reconcile(ctx, log, ptrs(locals), remotes, reconcileOps[weebly.StoreProduct, platform.RemoteProduct]{
		kind:      "product",
		localKey:  func(p *weebly.StoreProduct) int64 { return p.ProductID },
		remoteKey: func(r platform.RemoteProduct) int64 { return r.ProductID },
		create: func(r platform.RemoteProduct) (*weebly.StoreProduct, error) {
			return weebly.NewStoreProduct(site.ID, r.ProductID, Unescape(r.Name))
		},
		apply: func(p *weebly.StoreProduct, r platform.RemoteProduct) bool {
			return p.Apply(Unescape(r.Name), p.Description, r.URL)
		},
		refetch: func(ctx context.Context, r platform.RemoteProduct) (*weebly.StoreProduct, error) {
			return s.repos.Products.FindBySiteAndProductID(ctx, site.ID, r.ProductID)
		},
		save: s.repos.Products.Save,
		delete: func(ctx context.Context, p *weebly.StoreProduct) error {
			return s.repos.Products.Delete(ctx, p.ID)
		},
	})
	if len(skipped) > 0 {
		s.alertSkipped(ctx, "products", site, len(skipped), skippedPayload(skipped))
	}
	if err != nil {
		return changed, err
	}

	products, err := s.repos.Products.FindBySite(ctx, site.ID)
	if err != nil {
		return changed, err
	}
	for i := range products {
		detailChanged, err := s.refreshProductDetail(ctx, token, credential, site, &products[i])
		if err != nil {
			if platform.IsExpected(err) {
				log.Warn("skipping product detail",
					zap.Int64("product_id", products[i].ProductID),
					zap.Error(err))
				continue
			}
			return changed, err
		}
		changed = changed || detailChanged
	}
	return changed, nil
}

// refreshProductDetail applies the full product record, options included
func (s *Service) refreshProductDetail(ctx context.Context, token platform.AccessToken, credential *weebly.Credential, site *weebly.Site, product *weebly.StoreProduct) (bool, error) {
	detail, err := s.gateway.GetProduct(ctx, token, site.SiteID, product.ProductID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return false, err
	}

	changed := false
	if product.Apply(Unescape(detail.Name), Unescape(detail.ShortDescription), detail.URL) {
		s.logger.Info("updating product details",
			zap.Int64("site_id", site.SiteID),
			zap.Int64("product_id", product.ProductID))
		if err := s.repos.Products.Save(ctx, product); err != nil {
			return false, err
		}
		changed = true
	}

	optionsChanged, err := s.reconcileOptions(ctx, site, product, detail.Options)
	if err != nil {
		return changed, err
	}
	return changed || optionsChanged, nil
}

func (s *Service) reconcileOptions(ctx context.Context, site *weebly.Site, product *weebly.StoreProduct, remotes []platform.RemoteProductOption) (bool, error) {
	locals, err := s.repos.Options.FindByProduct(ctx, product.ID)
	if err != nil {
		return false, err
	}

	log := s.logger.With(
		zap.Int64("site_id", site.SiteID),
		zap.Int64("product_id", product.ProductID))
	changed, skipped, err := reconcile(ctx, log, ptrs(locals), remotes, reconcileOps[weebly.StoreProductOption, platform.RemoteProductOption]{
		kind:      "option",
		localKey:  func(o *weebly.StoreProductOption) int64 { return o.OptionID },
		remoteKey: func(r platform.RemoteProductOption) int64 { return r.OptionID },
		create: func(r platform.RemoteProductOption) (*weebly.StoreProductOption, error) {
			return weebly.NewStoreProductOption(product.ID, r.OptionID, Unescape(r.Name))
		},
		apply: func(o *weebly.StoreProductOption, r platform.RemoteProductOption) bool {
			return o.Apply(Unescape(r.Name), weebly.ChoiceList(CleanChoices(r.Choices)))
		},
		refetch: func(ctx context.Context, r platform.RemoteProductOption) (*weebly.StoreProductOption, error) {
			return s.repos.Options.FindByProductAndOptionID(ctx, product.ID, r.OptionID)
		},
		save: s.repos.Options.Save,
		delete: func(ctx context.Context, o *weebly.StoreProductOption) error {
			return s.repos.Options.Delete(ctx, o.ID)
		},
	})
	if len(skipped) > 0 {
		s.alertSkipped(ctx, "product options", site, len(skipped), skippedPayload(skipped))
	}
	return changed, err
}

// refreshCategories reconciles the store categories of a site. Parent
// links point at categories of the same listing, so the run loops
// until every link resolves or the pass limit is hit.
func (s *Service) refreshCategories(ctx context.Context, token platform.AccessToken, credential *weebly.Credential, site *weebly.Site) (bool, error) {
	remotes, err := s.gateway.ListCategories(ctx, token, site.SiteID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return false, err
	}

	log := s.logger.With(zap.Int64("site_id", site.SiteID))
	changed := false
	for pass := 1; pass <= categoryPasses; pass++ {
		locals, err := s.repos.Categories.FindBySite(ctx, site.ID)
		if err != nil {
			return changed, err
		}
		byCategoryID := make(map[int64]uuid.UUID, len(locals))
		for i := range locals {
			byCategoryID[locals[i].CategoryID] = locals[i].ID
		}

		missing := 0
		resolveParent := func(r platform.RemoteCategory) *uuid.UUID {
			if r.ParentCategoryID == nil {
				return nil
			}
			id, ok := byCategoryID[*r.ParentCategoryID]
			if !ok {
				missing++
				return nil
			}
			return &id
		}

		passChanged, skipped, err := reconcile(ctx, log, ptrs(locals), remotes, reconcileOps[weebly.StoreCategory, platform.RemoteCategory]{
			kind:      "category",
			localKey:  func(c *weebly.StoreCategory) int64 { return c.CategoryID },
			remoteKey: func(r platform.RemoteCategory) int64 { return r.CategoryID },
			create: func(r platform.RemoteCategory) (*weebly.StoreCategory, error) {
				return weebly.NewStoreCategory(site.ID, r.CategoryID, Unescape(r.Name))
			},
			apply: func(c *weebly.StoreCategory, r platform.RemoteCategory) bool {
				return c.Apply(Unescape(r.Name), resolveParent(r))
			},
			refetch: func(ctx context.Context, r platform.RemoteCategory) (*weebly.StoreCategory, error) {
				return s.repos.Categories.FindBySiteAndCategoryID(ctx, site.ID, r.CategoryID)
			},
			save: s.repos.Categories.Save,
			delete: func(ctx context.Context, c *weebly.StoreCategory) error {
				return s.repos.Categories.Delete(ctx, c.ID)
			},
		})
		if len(skipped) > 0 {
			s.alertSkipped(ctx, "categories", site, len(skipped), skippedPayload(skipped))
		}
		if err != nil {
			return changed, err
		}
		changed = changed || passChanged

		if missing == 0 {
			break
		}
		if pass == categoryPasses {
			subject := fmt.Sprintf("category parents of site %d still unresolved after %d passes", site.SiteID, categoryPasses)
			log.Warn(subject, zap.Int("missing", missing))
			if err := s.notifier.Notify(ctx, subject, skippedPayload(remotes)); err != nil {
				log.Error("sending alert", zap.Error(err))
			}
		}
	}
	return changed, nil
}
