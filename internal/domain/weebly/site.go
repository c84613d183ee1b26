package weebly

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// Site represents a platform site mirrored locally
type Site struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SiteID      int64     `gorm:"not null;uniqueIndex"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Domain      string    `gorm:"type:varchar(255);not null"`
	IsPublished bool      `gorm:"not null;default:false"`
	Language    string    `gorm:"type:varchar(10)"`
	// IsFound is cleared when the platform reports the site as gone
	IsFound bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Site) TableName() string {
	return "sites"
}

// NewSite creates a new mirrored site record owned by a local user record
func NewSite(ownerID uuid.UUID, siteID int64, title, domain string) (*Site, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Site owner is required")
	}
	if siteID <= 0 {
		return nil, shared.NewDomainError("INVALID_SITE_ID", "Site ID must be positive")
	}

	site := &Site{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		SiteID:            siteID,
		Title:             strings.TrimSpace(title),
		Domain:            strings.TrimSpace(domain),
		IsFound:           true,
	}

	return site, nil
}

// AssignOwner rebinds the site to another local user record and
// reports whether the owner changed. The platform reports the owning
// user with the site details, so an ownership transfer lands here.
func (s *Site) AssignOwner(ownerID uuid.UUID) bool {
	if ownerID == uuid.Nil || s.OwnerID == ownerID {
		return false
	}
	s.OwnerID = ownerID
	s.Touch()
	return true
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed. An empty language means the
// platform did not report one and the stored value is kept.
func (s *Site) Apply(title, domain string, isPublished bool, language string) bool {
	title = strings.TrimSpace(title)
	domain = strings.TrimSpace(domain)

	changed := false
	if s.Title != title {
		s.Title = title
		changed = true
	}
	if s.Domain != domain {
		s.Domain = domain
		changed = true
	}
	if s.IsPublished != isPublished {
		s.IsPublished = isPublished
		changed = true
	}
	if language != "" && s.Language != language {
		s.Language = language
		changed = true
	}
	if !s.IsFound {
		s.IsFound = true
		changed = true
	}
	if changed {
		s.Touch()
	}
	return changed
}

// MarkMissing records that the platform no longer knows this site
func (s *Site) MarkMissing() {
	if !s.IsFound {
		return
	}
	s.IsFound = false
	s.Touch()
}
