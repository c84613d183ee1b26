package weebly

import (
	"context"

	"github.com/google/uuid"
)

// StoreProductRepository defines the interface for mirrored store
// product persistence
type StoreProductRepository interface {
	// FindByID finds a product by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*StoreProduct, error)

	// FindBySiteAndProductID finds a product by site and platform product ID
	FindBySiteAndProductID(ctx context.Context, siteID uuid.UUID, productID int64) (*StoreProduct, error)

	// FindBySite finds all products of a site
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]StoreProduct, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *StoreProduct) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoreProductOptionRepository defines the interface for mirrored
// product option persistence
type StoreProductOptionRepository interface {
	// FindByID finds an option by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*StoreProductOption, error)

	// FindByProductAndOptionID finds an option by product and platform option ID
	FindByProductAndOptionID(ctx context.Context, productID uuid.UUID, optionID int64) (*StoreProductOption, error)

	// FindByProduct finds all options of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StoreProductOption, error)

	// Save creates or updates an option
	Save(ctx context.Context, option *StoreProductOption) error

	// Delete deletes an option
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoreCategoryRepository defines the interface for mirrored store
// category persistence
type StoreCategoryRepository interface {
	// FindByID finds a category by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*StoreCategory, error)

	// FindBySiteAndCategoryID finds a category by site and platform category ID
	FindBySiteAndCategoryID(ctx context.Context, siteID uuid.UUID, categoryID int64) (*StoreCategory, error)

	// FindBySite finds all categories of a site
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]StoreCategory, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *StoreCategory) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error
}
