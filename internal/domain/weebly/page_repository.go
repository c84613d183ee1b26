package weebly

import (
	"context"

	"github.com/google/uuid"
)

// PageRepository defines the interface for mirrored page persistence
type PageRepository interface {
	// FindByID finds a page by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Page, error)

	// FindByPageID finds a page by its platform page ID
	FindByPageID(ctx context.Context, pageID int64) (*Page, error)

	// FindBySite finds all pages of a site
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]Page, error)

	// Save creates or updates a page
	Save(ctx context.Context, page *Page) error

	// Delete deletes a page
	Delete(ctx context.Context, id uuid.UUID) error
}
