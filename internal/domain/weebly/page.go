package weebly

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// Page represents a platform site page mirrored locally.
// ParentID references the platform page ID of the parent page, not a
// local row, because the platform listing is the source of the tree.
type Page struct {
	shared.BaseAggregateRoot
	SiteID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PageID    int64     `gorm:"not null;uniqueIndex"`
	Title     string    `gorm:"type:varchar(255);not null"`
	PageURL   string    `gorm:"type:varchar(500);not null"`
	Hidden    bool      `gorm:"not null;default:false"`
	PageOrder int       `gorm:"not null;default:0"`
	ParentID  *int64    `gorm:"index"`
}

// TableName returns the table name for GORM
func (Page) TableName() string {
	return "pages"
}

// NewPage creates a new mirrored page record
func NewPage(siteID uuid.UUID, pageID int64, title, pageURL string) (*Page, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SITE_REF", "Page requires a site")
	}
	if pageID <= 0 {
		return nil, shared.NewDomainError("INVALID_PAGE_ID", "Page ID must be positive")
	}

	page := &Page{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		PageID:            pageID,
		Title:             title,
		PageURL:           pageURL,
	}

	return page, nil
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (p *Page) Apply(title, pageURL string, hidden bool, pageOrder int, parentID *int64) bool {
	changed := false
	if p.Title != title {
		p.Title = title
		changed = true
	}
	if p.PageURL != pageURL {
		p.PageURL = pageURL
		changed = true
	}
	if p.Hidden != hidden {
		p.Hidden = hidden
		changed = true
	}
	if p.PageOrder != pageOrder {
		p.PageOrder = pageOrder
		changed = true
	}
	if !int64PtrEqual(p.ParentID, parentID) {
		p.ParentID = parentID
		changed = true
	}
	if changed {
		p.Touch()
	}
	return changed
}

// IsLink reports whether the page is an external link rather than a
// page hosted on the site itself
func (p *Page) IsLink() bool {
	url := strings.ToLower(p.PageURL)
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// TotalURL returns the absolute URL of the page on the given site
// domain, or an empty string when the page has no URL at all
func (p *Page) TotalURL(domain string) string {
	if p.IsLink() {
		return p.PageURL
	}
	if p.PageURL == "" {
		return ""
	}
	return fmt.Sprintf("http://%s%s", domain, p.PageURL)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// PageTree indexes the pages of one site for hierarchy traversal
type PageTree struct {
	pages  []Page
	byID   map[int64]int
	byPar  map[int64][]int
	rootIx []int
}

// NewPageTree builds a tree over the given pages. The slice is expected
// to contain the pages of a single site.
func NewPageTree(pages []Page) *PageTree {
	t := &PageTree{
		pages: pages,
		byID:  make(map[int64]int, len(pages)),
		byPar: make(map[int64][]int),
	}
	for i := range pages {
		t.byID[pages[i].PageID] = i
	}
	for i := range pages {
		parent := pages[i].ParentID
		if parent != nil {
			if _, ok := t.byID[*parent]; ok {
				t.byPar[*parent] = append(t.byPar[*parent], i)
				continue
			}
		}
		t.rootIx = append(t.rootIx, i)
	}
	return t
}

// Parent returns the parent page, or nil for a root page
func (t *PageTree) Parent(p *Page) *Page {
	if p.ParentID == nil {
		return nil
	}
	i, ok := t.byID[*p.ParentID]
	if !ok {
		return nil
	}
	return &t.pages[i]
}

// Ancestors returns the chain from the top-level ancestor down to the
// direct parent of the page
func (t *PageTree) Ancestors(p *Page) []*Page {
	var chain []*Page
	seen := map[int64]bool{p.PageID: true}
	for cur := t.Parent(p); cur != nil && !seen[cur.PageID]; cur = t.Parent(cur) {
		seen[cur.PageID] = true
		chain = append([]*Page{cur}, chain...)
	}
	return chain
}

// Children returns the direct children of the page
func (t *PageTree) Children(p *Page) []*Page {
	var out []*Page
	for _, i := range t.byPar[p.PageID] {
		out = append(out, &t.pages[i])
	}
	return out
}

// Descendants returns every page below the given page, depth-first
func (t *PageTree) Descendants(p *Page) []*Page {
	var out []*Page
	for _, child := range t.Children(p) {
		out = append(out, child)
		out = append(out, t.Descendants(child)...)
	}
	return out
}

// TotalOrder returns the order vector of the page, ancestors first.
// Comparing vectors lexicographically sorts pages into menu order.
func (t *PageTree) TotalOrder(p *Page) []int {
	var order []int
	for _, a := range t.Ancestors(p) {
		order = append(order, a.PageOrder)
	}
	return append(order, p.PageOrder)
}
