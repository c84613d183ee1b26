package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// SiteHandler serves the read side of the mirrored site records
type SiteHandler struct {
	BaseHandler
	sites      weebly.SiteRepository
	pages      weebly.PageRepository
	blogs      weebly.BlogRepository
	posts      weebly.BlogPostRepository
	products   weebly.StoreProductRepository
	options    weebly.StoreProductOptionRepository
	categories weebly.StoreCategoryRepository
	logger     *zap.Logger
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(
	sites weebly.SiteRepository,
	pages weebly.PageRepository,
	blogs weebly.BlogRepository,
	posts weebly.BlogPostRepository,
	products weebly.StoreProductRepository,
	options weebly.StoreProductOptionRepository,
	categories weebly.StoreCategoryRepository,
	logger *zap.Logger,
) *SiteHandler {
	return &SiteHandler{
		sites:      sites,
		pages:      pages,
		blogs:      blogs,
		posts:      posts,
		products:   products,
		options:    options,
		categories: categories,
		logger:     logger.Named("site_handler"),
	}
}

// List lists mirrored sites
// @Router /sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	sites, err := h.sites.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.sites.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.SiteResponse, len(sites))
	for i := range sites {
		items[i] = dto.ToSiteResponse(&sites[i])
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Get returns a single mirrored site by its platform site ID
// @Router /sites/{site_id} [get]
func (h *SiteHandler) Get(c *gin.Context) {
	site, ok := h.siteFromPath(c)
	if !ok {
		return
	}
	h.Success(c, dto.ToSiteResponse(site))
}

// ListPages lists the mirrored pages of a site
// @Router /sites/{site_id}/pages [get]
func (h *SiteHandler) ListPages(c *gin.Context) {
	site, ok := h.siteFromPath(c)
	if !ok {
		return
	}

	pages, err := h.pages.FindBySite(c.Request.Context(), site.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items := make([]dto.PageResponse, len(pages))
	for i := range pages {
		items[i] = dto.ToPageResponse(&pages[i])
	}
	h.Success(c, items)
}

// ListBlogs lists the mirrored blogs of a site, posts included
// @Router /sites/{site_id}/blogs [get]
func (h *SiteHandler) ListBlogs(c *gin.Context) {
	site, ok := h.siteFromPath(c)
	if !ok {
		return
	}

	blogs, err := h.blogs.FindBySite(c.Request.Context(), site.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	type blogWithPosts struct {
		dto.BlogResponse
		Posts []dto.BlogPostResponse `json:"posts"`
	}
	items := make([]blogWithPosts, len(blogs))
	for i := range blogs {
		posts, err := h.posts.FindByBlog(c.Request.Context(), blogs[i].ID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		postItems := make([]dto.BlogPostResponse, len(posts))
		for j := range posts {
			postItems[j] = dto.ToBlogPostResponse(&posts[j])
		}
		items[i] = blogWithPosts{
			BlogResponse: dto.ToBlogResponse(&blogs[i]),
			Posts:        postItems,
		}
	}
	h.Success(c, items)
}

// ListProducts lists the mirrored store products of a site, options
// included
// @Router /sites/{site_id}/products [get]
func (h *SiteHandler) ListProducts(c *gin.Context) {
	site, ok := h.siteFromPath(c)
	if !ok {
		return
	}

	products, err := h.products.FindBySite(c.Request.Context(), site.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	type productWithOptions struct {
		dto.ProductResponse
		Options []dto.ProductOptionResponse `json:"options"`
	}
	items := make([]productWithOptions, len(products))
	for i := range products {
		options, err := h.options.FindByProduct(c.Request.Context(), products[i].ID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		optionItems := make([]dto.ProductOptionResponse, len(options))
		for j := range options {
			optionItems[j] = dto.ToProductOptionResponse(&options[j])
		}
		items[i] = productWithOptions{
			ProductResponse: dto.ToProductResponse(&products[i]),
			Options:         optionItems,
		}
	}
	h.Success(c, items)
}

// ListCategories lists the mirrored store categories of a site
// @Router /sites/{site_id}/categories [get]
func (h *SiteHandler) ListCategories(c *gin.Context) {
	site, ok := h.siteFromPath(c)
	if !ok {
		return
	}

	categories, err := h.categories.FindBySite(c.Request.Context(), site.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		items[i] = dto.ToCategoryResponse(&categories[i])
	}
	h.Success(c, items)
}

func (h *SiteHandler) siteFromPath(c *gin.Context) (*weebly.Site, bool) {
	var req dto.SiteIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid site ID")
		return nil, false
	}

	site, err := h.sites.FindBySiteID(c.Request.Context(), req.SiteID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return site, true
}
