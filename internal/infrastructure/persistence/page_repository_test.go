package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesync/backend/internal/domain/weebly"
)

func TestGormPageRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPageRepository(db)
	ctx := context.Background()

	site := newTestSite(t, db, 701)
	other := newTestSite(t, db, 702)

	addPage := func(s *weebly.Site, pageID int64, order int) *weebly.Page {
		page, err := weebly.NewPage(s.ID, pageID, "page", "/p.html")
		require.NoError(t, err)
		page.PageOrder = order
		require.NoError(t, repo.Save(ctx, page))
		return page
	}

	second := addPage(site, 11, 2)
	first := addPage(site, 12, 1)
	addPage(other, 13, 1)

	t.Run("lists only pages of the site in menu order", func(t *testing.T) {
		pages, err := repo.FindBySite(ctx, site.ID)
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, first.PageID, pages[0].PageID)
		assert.Equal(t, second.PageID, pages[1].PageID)
	})

	t.Run("finds by platform page id", func(t *testing.T) {
		found, err := repo.FindByPageID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, second.ID, found.ID)
	})

	t.Run("json-backed column types survive a blog post round-trip", func(t *testing.T) {
		blog, err := weebly.NewBlog(site.ID, 5, 11, "News")
		require.NoError(t, err)
		require.NoError(t, db.Save(blog).Error)

		post, err := weebly.NewBlogPost(blog.ID, 77, "Hello")
		require.NoError(t, err)
		post.Tags = weebly.TagMap{"1": "go", "2": "sync"}
		require.NoError(t, db.Save(post).Error)

		var loaded weebly.BlogPost
		require.NoError(t, db.First(&loaded, "post_id = ?", 77).Error)
		assert.Equal(t, post.Tags, loaded.Tags)
	})
}
