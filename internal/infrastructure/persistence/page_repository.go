package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormPageRepository implements PageRepository using GORM
type GormPageRepository struct {
	db *gorm.DB
}

// NewGormPageRepository creates a new GormPageRepository
func NewGormPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

// FindByID finds a page by its local ID
func (r *GormPageRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.Page, error) {
	var page weebly.Page
	if err := r.db.WithContext(ctx).First(&page, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &page, nil
}

// FindByPageID finds a page by its platform page ID
func (r *GormPageRepository) FindByPageID(ctx context.Context, pageID int64) (*weebly.Page, error) {
	var page weebly.Page
	if err := r.db.WithContext(ctx).First(&page, "page_id = ?", pageID).Error; err != nil {
		return nil, translateError(err)
	}
	return &page, nil
}

// FindBySite finds all pages of a site
func (r *GormPageRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]weebly.Page, error) {
	var pages []weebly.Page
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("page_order ASC, page_id ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// Save creates or updates a page
func (r *GormPageRepository) Save(ctx context.Context, page *weebly.Page) error {
	return translateError(r.db.WithContext(ctx).Save(page).Error)
}

// Delete deletes a page
func (r *GormPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.Page{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
