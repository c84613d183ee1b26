package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormSiteUserRepository implements SiteUserRepository using GORM
type GormSiteUserRepository struct {
	db *gorm.DB
}

// NewGormSiteUserRepository creates a new GormSiteUserRepository
func NewGormSiteUserRepository(db *gorm.DB) *GormSiteUserRepository {
	return &GormSiteUserRepository{db: db}
}

// FindByID finds a user by its local ID
func (r *GormSiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.SiteUser, error) {
	var user weebly.SiteUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByUserID finds a user by its platform user ID
func (r *GormSiteUserRepository) FindByUserID(ctx context.Context, userID int64) (*weebly.SiteUser, error) {
	var user weebly.SiteUser
	if err := r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindAll finds all users matching the filter
func (r *GormSiteUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]weebly.SiteUser, error) {
	var users []weebly.SiteUser
	query := applyFilter(r.db.WithContext(ctx).Model(&weebly.SiteUser{}), filter, SiteUserSortFields)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user
func (r *GormSiteUserRepository) Save(ctx context.Context, user *weebly.SiteUser) error {
	return translateError(r.db.WithContext(ctx).Save(user).Error)
}

// Delete deletes a user
func (r *GormSiteUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.SiteUser{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts users matching the filter
func (r *GormSiteUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&weebly.SiteUser{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query. The sort field is
// checked against the entity's whitelist before it reaches the query.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedSortFields map[string]bool) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if sortField := ValidateSortField(filter.OrderBy, allowedSortFields, "created_at"); sortField != "" {
		query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	}

	return query
}

// applyFilterWithoutPagination applies only the filter conditions
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for field, value := range filter.Filters {
		query = query.Where(field+" = ?", value)
	}
	return query
}
