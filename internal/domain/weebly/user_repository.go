package weebly

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// SiteUserRepository defines the interface for mirrored user persistence
type SiteUserRepository interface {
	// FindByID finds a user by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*SiteUser, error)

	// FindByUserID finds a user by its platform user ID
	FindByUserID(ctx context.Context, userID int64) (*SiteUser, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SiteUser, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *SiteUser) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
