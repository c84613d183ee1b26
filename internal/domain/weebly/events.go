package weebly

import (
	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSite                = "Site"
	AggregateTypeCredential          = "Credential"
	AggregateTypePaymentNotification = "PaymentNotification"
)

// Event type constants
const (
	EventTypeSiteRefreshed         = "SiteRefreshed"
	EventTypeCredentialInvalidated = "CredentialInvalidated"
	EventTypePaymentNotified       = "PaymentNotified"
)

// SiteRefreshedEvent is published after a site refresh run completes
type SiteRefreshedEvent struct {
	shared.BaseDomainEvent
	SiteID         uuid.UUID `json:"site_id"`
	PlatformSiteID int64     `json:"platform_site_id"`
	Changed        bool      `json:"changed"`
}

// NewSiteRefreshedEvent creates a new SiteRefreshedEvent
func NewSiteRefreshedEvent(site *Site, changed bool) *SiteRefreshedEvent {
	return &SiteRefreshedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteRefreshed, site.ID, AggregateTypeSite),
		SiteID:          site.ID,
		PlatformSiteID:  site.SiteID,
		Changed:         changed,
	}
}

// CredentialInvalidatedEvent is published when the platform stops
// accepting an access token
type CredentialInvalidatedEvent struct {
	shared.BaseDomainEvent
	CredentialID uuid.UUID `json:"credential_id"`
	UserID       uuid.UUID `json:"user_id"`
	SiteID       uuid.UUID `json:"site_id"`
}

// NewCredentialInvalidatedEvent creates a new CredentialInvalidatedEvent
func NewCredentialInvalidatedEvent(credential *Credential) *CredentialInvalidatedEvent {
	return &CredentialInvalidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCredentialInvalidated, credential.ID, AggregateTypeCredential),
		CredentialID:    credential.ID,
		UserID:          credential.UserID,
		SiteID:          credential.SiteID,
	}
}

// PaymentNotifiedEvent is published when a payment notification is
// accepted by the platform or settled locally
type PaymentNotifiedEvent struct {
	shared.BaseDomainEvent
	NotificationID uuid.UUID `json:"notification_id"`
	SiteID         uuid.UUID `json:"site_id"`
	PayableAmount  string    `json:"payable_amount"`
	Currency       string    `json:"currency"`
}

// NewPaymentNotifiedEvent creates a new PaymentNotifiedEvent
func NewPaymentNotifiedEvent(notification *PaymentNotification) *PaymentNotifiedEvent {
	return &PaymentNotifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentNotified, notification.ID, AggregateTypePaymentNotification),
		NotificationID:  notification.ID,
		SiteID:          notification.SiteID,
		PayableAmount:   notification.PayableAmount.StringFixed(2),
		Currency:        notification.Currency,
	}
}
