package weebly

import (
	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// Credential is an access token granted by the platform for one
// user and site pair. A pair holds at most one credential; a re-grant
// replaces the token and the reported app version.
type Credential struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_credentials_user_site,priority:1"`
	SiteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_credentials_user_site,priority:2"`
	Token  string    `gorm:"type:varchar(255);not null"`
	// IsValid is cleared when the platform stops accepting the token
	// and set again after the next successful request
	IsValid bool `gorm:"not null;default:true"`
	// Version is the app version the platform sent with the
	// authorization callback
	Version string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Credential) TableName() string {
	return "credentials"
}

// NewCredential creates a credential for a user and site pair
func NewCredential(userID, siteID uuid.UUID, token, version string) (*Credential, error) {
	if userID == uuid.Nil || siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIAL_REF", "Credential requires a user and a site")
	}
	if token == "" {
		return nil, shared.NewDomainError("EMPTY_TOKEN", "Access token must not be empty")
	}

	credential := &Credential{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		SiteID:            siteID,
		Token:             token,
		IsValid:           true,
		Version:           version,
	}

	return credential, nil
}

// ReplaceToken stores a newly granted token for the same pair along
// with the app version the grant reported
func (c *Credential) ReplaceToken(token, version string) error {
	if token == "" {
		return shared.NewDomainError("EMPTY_TOKEN", "Access token must not be empty")
	}
	c.Token = token
	c.IsValid = true
	c.Version = version
	c.Touch()
	return nil
}

// Invalidate records that the platform rejected the token
func (c *Credential) Invalidate() {
	if !c.IsValid {
		return
	}
	c.IsValid = false
	c.Touch()
	c.AddDomainEvent(NewCredentialInvalidatedEvent(c))
}

// Revalidate records a successful request made with the token
func (c *Credential) Revalidate() {
	if c.IsValid {
		return
	}
	c.IsValid = true
	c.Touch()
}
