package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormSiteRepository implements SiteRepository using GORM
type GormSiteRepository struct {
	db *gorm.DB
}

// NewGormSiteRepository creates a new GormSiteRepository
func NewGormSiteRepository(db *gorm.DB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

// FindByID finds a site by its local ID
func (r *GormSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.Site, error) {
	var site weebly.Site
	if err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &site, nil
}

// FindBySiteID finds a site by its platform site ID
func (r *GormSiteRepository) FindBySiteID(ctx context.Context, siteID int64) (*weebly.Site, error) {
	var site weebly.Site
	if err := r.db.WithContext(ctx).First(&site, "site_id = ?", siteID).Error; err != nil {
		return nil, translateError(err)
	}
	return &site, nil
}

// FindByOwner finds all sites of a local user record
func (r *GormSiteRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]weebly.Site, error) {
	var sites []weebly.Site
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("site_id ASC").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// FindAll finds all sites matching the filter
func (r *GormSiteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]weebly.Site, error) {
	var sites []weebly.Site
	query := applyFilter(r.db.WithContext(ctx).Model(&weebly.Site{}), filter, SiteSortFields)
	if err := query.Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// FindFound finds all sites still known to the platform
func (r *GormSiteRepository) FindFound(ctx context.Context) ([]weebly.Site, error) {
	var sites []weebly.Site
	if err := r.db.WithContext(ctx).
		Where("is_found = ?", true).
		Order("site_id ASC").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// Save creates or updates a site
func (r *GormSiteRepository) Save(ctx context.Context, site *weebly.Site) error {
	return translateError(r.db.WithContext(ctx).Save(site).Error)
}

// Delete deletes a site
func (r *GormSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.Site{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sites matching the filter
func (r *GormSiteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&weebly.Site{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
