package weebly

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPage(t *testing.T, siteID uuid.UUID, pageID int64, url string, order int, parentID *int64) Page {
	t.Helper()
	page, err := NewPage(siteID, pageID, "page", url)
	require.NoError(t, err)
	page.PageOrder = order
	page.ParentID = parentID
	return *page
}

func int64Ptr(v int64) *int64 { return &v }

func TestNewPage(t *testing.T) {
	siteID := uuid.New()

	t.Run("creates page with valid inputs", func(t *testing.T) {
		page, err := NewPage(siteID, 42, "Home", "/home.html")
		require.NoError(t, err)
		require.NotNil(t, page)

		assert.Equal(t, siteID, page.SiteID)
		assert.Equal(t, int64(42), page.PageID)
		assert.Equal(t, "Home", page.Title)
		assert.NotEmpty(t, page.ID)
	})

	t.Run("fails without site", func(t *testing.T) {
		_, err := NewPage(uuid.Nil, 42, "Home", "/home.html")
		require.Error(t, err)
	})

	t.Run("fails with non-positive page id", func(t *testing.T) {
		_, err := NewPage(siteID, 0, "Home", "/home.html")
		require.Error(t, err)
	})
}

func TestPageApply(t *testing.T) {
	siteID := uuid.New()

	t.Run("reports no change for identical values", func(t *testing.T) {
		page := mustPage(t, siteID, 1, "/a.html", 3, nil)
		changed := page.Apply("page", "/a.html", false, 3, nil)
		assert.False(t, changed)
	})

	t.Run("reports change and updates fields", func(t *testing.T) {
		page := mustPage(t, siteID, 1, "/a.html", 3, nil)
		changed := page.Apply("renamed", "/b.html", true, 5, int64Ptr(9))
		require.True(t, changed)
		assert.Equal(t, "renamed", page.Title)
		assert.Equal(t, "/b.html", page.PageURL)
		assert.True(t, page.Hidden)
		assert.Equal(t, 5, page.PageOrder)
		require.NotNil(t, page.ParentID)
		assert.Equal(t, int64(9), *page.ParentID)
	})

	t.Run("detects parent change between nil and set", func(t *testing.T) {
		page := mustPage(t, siteID, 1, "/a.html", 3, int64Ptr(2))
		assert.True(t, page.Apply("page", "/a.html", false, 3, nil))
		assert.Nil(t, page.ParentID)
	})
}

func TestPageURLHelpers(t *testing.T) {
	siteID := uuid.New()

	t.Run("link pages keep their external url", func(t *testing.T) {
		page := mustPage(t, siteID, 1, "https://example.org/elsewhere", 0, nil)
		assert.True(t, page.IsLink())
		assert.Equal(t, "https://example.org/elsewhere", page.TotalURL("mysite.weebly.com"))
	})

	t.Run("hosted pages are prefixed with the site domain", func(t *testing.T) {
		page := mustPage(t, siteID, 1, "/about.html", 0, nil)
		assert.False(t, page.IsLink())
		assert.Equal(t, "http://mysite.weebly.com/about.html", page.TotalURL("mysite.weebly.com"))
	})

	t.Run("pages without url yield an empty total url", func(t *testing.T) {
		page := mustPage(t, siteID, 1, "", 0, nil)
		assert.Equal(t, "", page.TotalURL("mysite.weebly.com"))
	})
}

func TestPageTree(t *testing.T) {
	siteID := uuid.New()

	//  home(order 0)
	//  about(order 1)
	//    team(order 0)
	//      alice(order 2)
	//  contact(order 2, parent missing upstream)
	pages := []Page{
		mustPage(t, siteID, 1, "/home.html", 0, nil),
		mustPage(t, siteID, 2, "/about.html", 1, nil),
		mustPage(t, siteID, 3, "/team.html", 0, int64Ptr(2)),
		mustPage(t, siteID, 4, "/alice.html", 2, int64Ptr(3)),
		mustPage(t, siteID, 5, "/contact.html", 2, int64Ptr(99)),
	}
	tree := NewPageTree(pages)

	byID := func(id int64) *Page {
		for i := range pages {
			if pages[i].PageID == id {
				return &pages[i]
			}
		}
		t.Fatalf("no page %d", id)
		return nil
	}

	t.Run("parent resolves within the set", func(t *testing.T) {
		parent := tree.Parent(byID(3))
		require.NotNil(t, parent)
		assert.Equal(t, int64(2), parent.PageID)
	})

	t.Run("parent outside the set resolves to nil", func(t *testing.T) {
		assert.Nil(t, tree.Parent(byID(5)))
	})

	t.Run("ancestors are ordered top down", func(t *testing.T) {
		ancestors := tree.Ancestors(byID(4))
		require.Len(t, ancestors, 2)
		assert.Equal(t, int64(2), ancestors[0].PageID)
		assert.Equal(t, int64(3), ancestors[1].PageID)
	})

	t.Run("descendants are collected depth first", func(t *testing.T) {
		descendants := tree.Descendants(byID(2))
		require.Len(t, descendants, 2)
		assert.Equal(t, int64(3), descendants[0].PageID)
		assert.Equal(t, int64(4), descendants[1].PageID)
	})

	t.Run("total order includes ancestor orders", func(t *testing.T) {
		assert.Equal(t, []int{1, 0, 2}, tree.TotalOrder(byID(4)))
		assert.Equal(t, []int{0}, tree.TotalOrder(byID(1)))
	})
}
