package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitesync/backend/internal/domain/weebly"
)

// UserResponse is the API representation of a mirrored user record
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a user entity to its API representation
func ToUserResponse(u *weebly.SiteUser) UserResponse {
	return UserResponse{
		ID:        u.ID,
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SiteResponse is the API representation of a mirrored site record
type SiteResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	SiteID      int64     `json:"site_id"`
	Title       string    `json:"title"`
	Domain      string    `json:"domain"`
	IsPublished bool      `json:"is_published"`
	Language    string    `json:"language,omitempty"`
	IsFound     bool      `json:"is_found"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSiteResponse converts a site entity to its API representation
func ToSiteResponse(s *weebly.Site) SiteResponse {
	return SiteResponse{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		SiteID:      s.SiteID,
		Title:       s.Title,
		Domain:      s.Domain,
		IsPublished: s.IsPublished,
		Language:    s.Language,
		IsFound:     s.IsFound,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// PageResponse is the API representation of a mirrored page record
type PageResponse struct {
	ID        uuid.UUID `json:"id"`
	PageID    int64     `json:"page_id"`
	Title     string    `json:"title"`
	PageURL   string    `json:"page_url"`
	Hidden    bool      `json:"hidden"`
	PageOrder int       `json:"page_order"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPageResponse converts a page entity to its API representation
func ToPageResponse(p *weebly.Page) PageResponse {
	return PageResponse{
		ID:        p.ID,
		PageID:    p.PageID,
		Title:     p.Title,
		PageURL:   p.PageURL,
		Hidden:    p.Hidden,
		PageOrder: p.PageOrder,
		ParentID:  p.ParentID,
		UpdatedAt: p.UpdatedAt,
	}
}

// BlogResponse is the API representation of a mirrored blog record
type BlogResponse struct {
	ID        uuid.UUID `json:"id"`
	BlogID    int64     `json:"blog_id"`
	PageID    int64     `json:"page_id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBlogResponse converts a blog entity to its API representation
func ToBlogResponse(b *weebly.Blog) BlogResponse {
	return BlogResponse{
		ID:        b.ID,
		BlogID:    b.BlogID,
		PageID:    b.PageID,
		Title:     b.Title,
		UpdatedAt: b.UpdatedAt,
	}
}

// BlogPostResponse is the API representation of a mirrored blog post
type BlogPostResponse struct {
	ID           uuid.UUID         `json:"id"`
	PostID       int64             `json:"post_id"`
	Title        string            `json:"title"`
	CreatedDate  *time.Time        `json:"created_date,omitempty"`
	UpdatedDate  *time.Time        `json:"updated_date,omitempty"`
	Body         string            `json:"body,omitempty"`
	Link         string            `json:"link,omitempty"`
	URL          string            `json:"url,omitempty"`
	ShareMessage string            `json:"share_message,omitempty"`
	SEOTitle     string            `json:"seo_title,omitempty"`
	SEODesc      string            `json:"seo_description,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToBlogPostResponse converts a blog post entity to its API representation
func ToBlogPostResponse(p *weebly.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:           p.ID,
		PostID:       p.PostID,
		Title:        p.Title,
		CreatedDate:  p.CreatedDate,
		UpdatedDate:  p.UpdatedDate,
		Body:         p.Body,
		Link:         p.Link,
		URL:          p.URL,
		ShareMessage: p.ShareMessage,
		SEOTitle:     p.SEOTitle,
		SEODesc:      p.SEODesc,
		Tags:         p.Tags,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProductResponse is the API representation of a mirrored store product
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   int64     `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a product entity to its API representation
func ToProductResponse(p *weebly.StoreProduct) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductOptionResponse is the API representation of a product option
type ProductOptionResponse struct {
	ID       uuid.UUID `json:"id"`
	OptionID int64     `json:"option_id"`
	Name     string    `json:"name"`
	Choices  []string  `json:"choices,omitempty"`
}

// ToProductOptionResponse converts an option entity to its API representation
func ToProductOptionResponse(o *weebly.StoreProductOption) ProductOptionResponse {
	return ProductOptionResponse{
		ID:       o.ID,
		OptionID: o.OptionID,
		Name:     o.Name,
		Choices:  o.Choices,
	}
}

// CategoryResponse is the API representation of a store category
type CategoryResponse struct {
	ID         uuid.UUID  `json:"id"`
	CategoryID int64      `json:"category_id"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a category entity to its API representation
func ToCategoryResponse(c *weebly.StoreCategory) CategoryResponse {
	return CategoryResponse{
		ID:         c.ID,
		CategoryID: c.CategoryID,
		Name:       c.Name,
		ParentID:   c.ParentID,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CredentialResponse is the API representation of a stored credential.
// The token itself is never exposed.
type CredentialResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SiteID    uuid.UUID `json:"site_id"`
	IsValid   bool      `json:"is_valid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCredentialResponse converts a credential entity to its API representation
func ToCredentialResponse(c *weebly.Credential) CredentialResponse {
	return CredentialResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		SiteID:    c.SiteID,
		IsValid:   c.IsValid,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// PaymentNotificationResponse is the API representation of a payment
// notification
type PaymentNotificationResponse struct {
	ID                uuid.UUID       `json:"id"`
	SiteID            uuid.UUID       `json:"site_id"`
	Name              string          `json:"name"`
	Detail            string          `json:"detail,omitempty"`
	PurchaseNotRefund bool            `json:"purchase_not_refund"`
	Kind              string          `json:"kind,omitempty"`
	Term              string          `json:"term,omitempty"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	PayableAmount     decimal.Decimal `json:"payable_amount"`
	Currency          string          `json:"currency"`
	Notified          bool            `json:"notified"`
	NotifiedAt        *time.Time      `json:"notified_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToPaymentNotificationResponse converts a payment notification entity
// to its API representation
func ToPaymentNotificationResponse(n *weebly.PaymentNotification) PaymentNotificationResponse {
	return PaymentNotificationResponse{
		ID:                n.ID,
		SiteID:            n.SiteID,
		Name:              n.Name,
		Detail:            n.Detail,
		PurchaseNotRefund: n.PurchaseNotRefund,
		Kind:              string(n.Kind),
		Term:              string(n.Term),
		GrossAmount:       n.GrossAmount,
		PayableAmount:     n.PayableAmount,
		Currency:          n.Currency,
		Notified:          n.Notified,
		NotifiedAt:        n.NotifiedAt,
		CreatedAt:         n.CreatedAt,
	}
}
