package weebly

import (
	"strings"

	"github.com/sitesync/backend/internal/domain/shared"
)

// SiteUser represents a platform account owner mirrored locally
type SiteUser struct {
	shared.BaseAggregateRoot
	UserID int64  `gorm:"not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(255);not null"`
	Email  string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (SiteUser) TableName() string {
	return "site_users"
}

// NewSiteUser creates a new mirrored user record
func NewSiteUser(userID int64, name, email string) (*SiteUser, error) {
	if userID <= 0 {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID must be positive")
	}

	user := &SiteUser{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Name:              strings.TrimSpace(name),
		Email:             strings.TrimSpace(email),
	}

	return user, nil
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (u *SiteUser) Apply(name, email string) bool {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	changed := false
	if u.Name != name {
		u.Name = name
		changed = true
	}
	if u.Email != email {
		u.Email = email
		changed = true
	}
	if changed {
		u.Touch()
	}
	return changed
}
