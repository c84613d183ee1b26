package weebly

import (
	"context"

	"github.com/google/uuid"
)

// BlogRepository defines the interface for mirrored blog persistence
type BlogRepository interface {
	// FindByID finds a blog by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Blog, error)

	// FindByBlogID finds a blog by its platform blog ID
	FindByBlogID(ctx context.Context, blogID int64) (*Blog, error)

	// FindBySite finds all blogs of a site
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]Blog, error)

	// Save creates or updates a blog
	Save(ctx context.Context, blog *Blog) error

	// Delete deletes a blog
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogPostRepository defines the interface for mirrored blog post persistence
type BlogPostRepository interface {
	// FindByID finds a post by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*BlogPost, error)

	// FindByPostID finds a post by its platform post ID
	FindByPostID(ctx context.Context, postID int64) (*BlogPost, error)

	// FindByBlog finds all posts of a blog
	FindByBlog(ctx context.Context, blogID uuid.UUID) ([]BlogPost, error)

	// Save creates or updates a post
	Save(ctx context.Context, post *BlogPost) error

	// Delete deletes a post
	Delete(ctx context.Context, id uuid.UUID) error
}
