package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormCredentialRepository implements CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindByID finds a credential by its local ID
func (r *GormCredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.Credential, error) {
	var credential weebly.Credential
	if err := r.db.WithContext(ctx).First(&credential, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &credential, nil
}

// FindByUserAndSite finds the credential of a user and site pair
func (r *GormCredentialRepository) FindByUserAndSite(ctx context.Context, userID, siteID uuid.UUID) (*weebly.Credential, error) {
	var credential weebly.Credential
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		First(&credential).Error; err != nil {
		return nil, translateError(err)
	}
	return &credential, nil
}

// FindBySite finds all credentials of a site, most recent first
func (r *GormCredentialRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]weebly.Credential, error) {
	var credentials []weebly.Credential
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").
		Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}

// FindValidByUser finds the valid credentials of a user, most recent first
func (r *GormCredentialRepository) FindValidByUser(ctx context.Context, userID uuid.UUID) ([]weebly.Credential, error) {
	var credentials []weebly.Credential
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_valid = ?", userID, true).
		Order("created_at DESC").
		Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}

// FindAll finds all credentials matching the filter
func (r *GormCredentialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]weebly.Credential, error) {
	var credentials []weebly.Credential
	query := applyFilter(r.db.WithContext(ctx).Model(&weebly.Credential{}), filter, CredentialSortFields)
	if err := query.Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}

// Save creates or updates a credential
func (r *GormCredentialRepository) Save(ctx context.Context, credential *weebly.Credential) error {
	return translateError(r.db.WithContext(ctx).Save(credential).Error)
}

// Delete deletes a credential
func (r *GormCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.Credential{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts credentials matching the filter
func (r *GormCredentialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&weebly.Credential{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
