package weebly

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// CredentialRepository defines the interface for credential persistence
type CredentialRepository interface {
	// FindByID finds a credential by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Credential, error)

	// FindByUserAndSite finds the credential of a user and site pair
	FindByUserAndSite(ctx context.Context, userID, siteID uuid.UUID) (*Credential, error)

	// FindBySite finds all credentials of a site, most recent first
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]Credential, error)

	// FindValidByUser finds the valid credentials of a user, most recent first
	FindValidByUser(ctx context.Context, userID uuid.UUID) ([]Credential, error)

	// FindAll finds all credentials matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Credential, error)

	// Save creates or updates a credential
	Save(ctx context.Context, credential *Credential) error

	// Delete deletes a credential
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts credentials matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DefaultCredentialForSite picks the credential used when acting on a
// site. A credential of the site owner wins, otherwise the most recent
// one. The input is expected most recent first, as FindBySite returns.
func DefaultCredentialForSite(site *Site, credentials []Credential) *Credential {
	for i := range credentials {
		if credentials[i].UserID == site.OwnerID {
			return &credentials[i]
		}
	}
	if len(credentials) > 0 {
		return &credentials[0]
	}
	return nil
}
