package weebly

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// SiteRepository defines the interface for mirrored site persistence
type SiteRepository interface {
	// FindByID finds a site by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Site, error)

	// FindBySiteID finds a site by its platform site ID
	FindBySiteID(ctx context.Context, siteID int64) (*Site, error)

	// FindByOwner finds all sites of a local user record
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Site, error)

	// FindAll finds all sites matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Site, error)

	// FindFound finds all sites still known to the platform
	FindFound(ctx context.Context) ([]Site, error)

	// Save creates or updates a site
	Save(ctx context.Context, site *Site) error

	// Delete deletes a site
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sites matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
