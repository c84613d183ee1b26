package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"gorm.io/gorm"
)

// GormBlogRepository implements BlogRepository using GORM
type GormBlogRepository struct {
	db *gorm.DB
}

// NewGormBlogRepository creates a new GormBlogRepository
func NewGormBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// FindByID finds a blog by its local ID
func (r *GormBlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.Blog, error) {
	var blog weebly.Blog
	if err := r.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &blog, nil
}

// FindByBlogID finds a blog by its platform blog ID
func (r *GormBlogRepository) FindByBlogID(ctx context.Context, blogID int64) (*weebly.Blog, error) {
	var blog weebly.Blog
	if err := r.db.WithContext(ctx).First(&blog, "blog_id = ?", blogID).Error; err != nil {
		return nil, translateError(err)
	}
	return &blog, nil
}

// FindBySite finds all blogs of a site
func (r *GormBlogRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]weebly.Blog, error) {
	var blogs []weebly.Blog
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("blog_id ASC").
		Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

// Save creates or updates a blog
func (r *GormBlogRepository) Save(ctx context.Context, blog *weebly.Blog) error {
	return translateError(r.db.WithContext(ctx).Save(blog).Error)
}

// Delete deletes a blog
func (r *GormBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.Blog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormBlogPostRepository implements BlogPostRepository using GORM
type GormBlogPostRepository struct {
	db *gorm.DB
}

// NewGormBlogPostRepository creates a new GormBlogPostRepository
func NewGormBlogPostRepository(db *gorm.DB) *GormBlogPostRepository {
	return &GormBlogPostRepository{db: db}
}

// FindByID finds a post by its local ID
func (r *GormBlogPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*weebly.BlogPost, error) {
	var post weebly.BlogPost
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// FindByPostID finds a post by its platform post ID
func (r *GormBlogPostRepository) FindByPostID(ctx context.Context, postID int64) (*weebly.BlogPost, error) {
	var post weebly.BlogPost
	if err := r.db.WithContext(ctx).First(&post, "post_id = ?", postID).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// FindByBlog finds all posts of a blog
func (r *GormBlogPostRepository) FindByBlog(ctx context.Context, blogID uuid.UUID) ([]weebly.BlogPost, error) {
	var posts []weebly.BlogPost
	if err := r.db.WithContext(ctx).
		Where("blog_id = ?", blogID).
		Order("post_id ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Save creates or updates a post
func (r *GormBlogPostRepository) Save(ctx context.Context, post *weebly.BlogPost) error {
	return translateError(r.db.WithContext(ctx).Save(post).Error)
}

// Delete deletes a post
func (r *GormBlogPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&weebly.BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
