package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormPaymentNotificationRepository implements PaymentNotificationRepository using GORM
type GormPaymentNotificationRepository struct {
	db *gorm.DB
}

// NewGormPaymentNotificationRepository creates a new GormPaymentNotificationRepository
func NewGormPaymentNotificationRepository(db *gorm.DB) *GormPaymentNotificationRepository {
	return &GormPaymentNotificationRepository{db: db}
}

// FindByID finds a notification by its local ID
func (r *GormPaymentNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.PaymentNotification, error) {
	var notification weebly.PaymentNotification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &notification, nil
}

// FindBySite finds all notifications of a site
func (r *GormPaymentNotificationRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]weebly.PaymentNotification, error) {
	var notifications []weebly.PaymentNotification
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindUnnotified finds all notifications not yet accepted by the platform
func (r *GormPaymentNotificationRepository) FindUnnotified(ctx context.Context) ([]weebly.PaymentNotification, error) {
	var notifications []weebly.PaymentNotification
	if err := r.db.WithContext(ctx).
		Where("notified = ?", false).
		Order("created_at ASC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindAll finds all notifications matching the filter
func (r *GormPaymentNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]weebly.PaymentNotification, error) {
	var notifications []weebly.PaymentNotification
	query := applyFilter(r.db.WithContext(ctx).Model(&weebly.PaymentNotification{}), filter, PaymentNotificationSortFields)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Save creates or updates a notification
func (r *GormPaymentNotificationRepository) Save(ctx context.Context, notification *weebly.PaymentNotification) error {
	return translateError(r.db.WithContext(ctx).Save(notification).Error)
}

// Delete deletes a notification
func (r *GormPaymentNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.PaymentNotification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts notifications matching the filter
func (r *GormPaymentNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&weebly.PaymentNotification{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
