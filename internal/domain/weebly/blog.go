package weebly

import (
	"time"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// Blog represents a platform blog mirrored locally
type Blog struct {
	shared.BaseAggregateRoot
	SiteID uuid.UUID `gorm:"type:uuid;not null;index"`
	BlogID int64     `gorm:"not null;uniqueIndex"`
	// PageID is the platform ID of the page the blog is attached to
	PageID int64  `gorm:"not null"`
	Title  string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (Blog) TableName() string {
	return "blogs"
}

// NewBlog creates a new mirrored blog record
func NewBlog(siteID uuid.UUID, blogID, pageID int64, title string) (*Blog, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SITE_REF", "Blog requires a site")
	}
	if blogID <= 0 {
		return nil, shared.NewDomainError("INVALID_BLOG_ID", "Blog ID must be positive")
	}

	blog := &Blog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		BlogID:            blogID,
		PageID:            pageID,
		Title:             title,
	}

	return blog, nil
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (b *Blog) Apply(pageID int64, title string) bool {
	changed := false
	if b.PageID != pageID {
		b.PageID = pageID
		changed = true
	}
	if b.Title != title {
		b.Title = title
		changed = true
	}
	if changed {
		b.Touch()
	}
	return changed
}

// BlogPost represents a platform blog post mirrored locally
type BlogPost struct {
	shared.BaseAggregateRoot
	BlogID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	PostID       int64      `gorm:"not null;uniqueIndex"`
	Title        string     `gorm:"type:varchar(255);not null"`
	CreatedDate  *time.Time `gorm:""`
	UpdatedDate  *time.Time `gorm:""`
	Body         string     `gorm:"type:text"`
	Link         string     `gorm:"type:varchar(500)"`
	URL          string     `gorm:"type:varchar(500)"`
	ShareMessage string     `gorm:"type:varchar(500)"`
	SEOTitle     string     `gorm:"type:varchar(255)"`
	SEODesc      string     `gorm:"type:varchar(500)"`
	Tags         TagMap     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BlogPost) TableName() string {
	return "blog_posts"
}

// NewBlogPost creates a new mirrored blog post record
func NewBlogPost(blogID uuid.UUID, postID int64, title string) (*BlogPost, error) {
	if blogID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BLOG_REF", "Blog post requires a blog")
	}
	if postID <= 0 {
		return nil, shared.NewDomainError("INVALID_POST_ID", "Post ID must be positive")
	}

	post := &BlogPost{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BlogID:            blogID,
		PostID:            postID,
		Title:             title,
		Tags:              TagMap{},
	}

	return post, nil
}

// BlogPostValues is the full remote state applied to a mirrored post
type BlogPostValues struct {
	Title        string
	CreatedDate  *time.Time
	UpdatedDate  *time.Time
	Body         string
	Link         string
	URL          string
	ShareMessage string
	SEOTitle     string
	SEODesc      string
	Tags         TagMap
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (p *BlogPost) Apply(v BlogPostValues) bool {
	changed := false
	if p.Title != v.Title {
		p.Title = v.Title
		changed = true
	}
	if !timePtrEqual(p.CreatedDate, v.CreatedDate) {
		p.CreatedDate = v.CreatedDate
		changed = true
	}
	if !timePtrEqual(p.UpdatedDate, v.UpdatedDate) {
		p.UpdatedDate = v.UpdatedDate
		changed = true
	}
	if p.Body != v.Body {
		p.Body = v.Body
		changed = true
	}
	if p.Link != v.Link {
		p.Link = v.Link
		changed = true
	}
	if p.URL != v.URL {
		p.URL = v.URL
		changed = true
	}
	if p.ShareMessage != v.ShareMessage {
		p.ShareMessage = v.ShareMessage
		changed = true
	}
	if p.SEOTitle != v.SEOTitle {
		p.SEOTitle = v.SEOTitle
		changed = true
	}
	if p.SEODesc != v.SEODesc {
		p.SEODesc = v.SEODesc
		changed = true
	}
	if !tagMapEqual(p.Tags, v.Tags) {
		if v.Tags == nil {
			p.Tags = TagMap{}
		} else {
			p.Tags = v.Tags
		}
		changed = true
	}
	if changed {
		p.Touch()
	}
	return changed
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return a.Equal(*b)
}

func tagMapEqual(a, b TagMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// MergeTags collects the tags of the given posts into one map. Later
// posts win on conflicting tag IDs.
func MergeTags(posts []BlogPost) TagMap {
	merged := TagMap{}
	for i := range posts {
		for id, name := range posts[i].Tags {
			merged[id] = name
		}
	}
	return merged
}
