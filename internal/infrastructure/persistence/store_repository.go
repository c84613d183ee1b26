package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormStoreProductRepository implements StoreProductRepository using GORM
type GormStoreProductRepository struct {
	db *gorm.DB
}

// NewGormStoreProductRepository creates a new GormStoreProductRepository
func NewGormStoreProductRepository(db *gorm.DB) *GormStoreProductRepository {
	return &GormStoreProductRepository{db: db}
}

// FindByID finds a product by its local ID
func (r *GormStoreProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.StoreProduct, error) {
	var product weebly.StoreProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindBySiteAndProductID finds a product by site and platform product ID
func (r *GormStoreProductRepository) FindBySiteAndProductID(ctx context.Context, siteID uuid.UUID, productID int64) (*weebly.StoreProduct, error) {
	var product weebly.StoreProduct
	if err := r.db.WithContext(ctx).
		Where("site_id = ? AND product_id = ?", siteID, productID).
		First(&product).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindBySite finds all products of a site
func (r *GormStoreProductRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]weebly.StoreProduct, error) {
	var products []weebly.StoreProduct
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("product_id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormStoreProductRepository) Save(ctx context.Context, product *weebly.StoreProduct) error {
	return translateError(r.db.WithContext(ctx).Save(product).Error)
}

// Delete deletes a product
func (r *GormStoreProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.StoreProduct{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStoreProductOptionRepository implements StoreProductOptionRepository using GORM
type GormStoreProductOptionRepository struct {
	db *gorm.DB
}

// NewGormStoreProductOptionRepository creates a new GormStoreProductOptionRepository
func NewGormStoreProductOptionRepository(db *gorm.DB) *GormStoreProductOptionRepository {
	return &GormStoreProductOptionRepository{db: db}
}

// FindByID finds an option by its local ID
func (r *GormStoreProductOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.StoreProductOption, error) {
	var option weebly.StoreProductOption
	if err := r.db.WithContext(ctx).First(&option, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &option, nil
}

// FindByProductAndOptionID finds an option by product and platform option ID
func (r *GormStoreProductOptionRepository) FindByProductAndOptionID(ctx context.Context, productID uuid.UUID, optionID int64) (*weebly.StoreProductOption, error) {
	var option weebly.StoreProductOption
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND option_id = ?", productID, optionID).
		First(&option).Error; err != nil {
		return nil, translateError(err)
	}
	return &option, nil
}

// FindByProduct finds all options of a product
func (r *GormStoreProductOptionRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]weebly.StoreProductOption, error) {
	var options []weebly.StoreProductOption
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("option_id ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Save creates or updates an option
func (r *GormStoreProductOptionRepository) Save(ctx context.Context, option *weebly.StoreProductOption) error {
	return translateError(r.db.WithContext(ctx).Save(option).Error)
}

// Delete deletes an option
func (r *GormStoreProductOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.StoreProductOption{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStoreCategoryRepository implements StoreCategoryRepository using GORM
type GormStoreCategoryRepository struct {
	db *gorm.DB
}

// NewGormStoreCategoryRepository creates a new GormStoreCategoryRepository
func NewGormStoreCategoryRepository(db *gorm.DB) *GormStoreCategoryRepository {
	return &GormStoreCategoryRepository{db: db}
}

// FindByID finds a category by its local ID
func (r *GormStoreCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.StoreCategory, error) {
	var category weebly.StoreCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindBySiteAndCategoryID finds a category by site and platform category ID
func (r *GormStoreCategoryRepository) FindBySiteAndCategoryID(ctx context.Context, siteID uuid.UUID, categoryID int64) (*weebly.StoreCategory, error) {
	var category weebly.StoreCategory
	if err := r.db.WithContext(ctx).
		Where("site_id = ? AND category_id = ?", siteID, categoryID).
		First(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindBySite finds all categories of a site
func (r *GormStoreCategoryRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]weebly.StoreCategory, error) {
	var categories []weebly.StoreCategory
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("category_id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormStoreCategoryRepository) Save(ctx context.Context, category *weebly.StoreCategory) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

// Delete deletes a category
func (r *GormStoreCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.StoreCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
