package weebly

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// PaymentNotificationRepository defines the interface for payment
// notification persistence
type PaymentNotificationRepository interface {
	// FindByID finds a notification by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentNotification, error)

	// FindBySite finds all notifications of a site
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]PaymentNotification, error)

	// FindUnnotified finds all notifications not yet accepted by the platform
	FindUnnotified(ctx context.Context) ([]PaymentNotification, error)

	// FindAll finds all notifications matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PaymentNotification, error)

	// Save creates or updates a notification
	Save(ctx context.Context, notification *PaymentNotification) error

	// Delete deletes a notification
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts notifications matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
