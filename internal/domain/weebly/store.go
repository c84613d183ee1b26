package weebly

import (
	"github.com/google/uuid"
	"github.com/sitesync/backend/internal/domain/shared"
)

// StoreProduct represents a platform store product mirrored locally
type StoreProduct struct {
	shared.BaseAggregateRoot
	SiteID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_products_site_product,priority:1"`
	ProductID   int64     `gorm:"not null;uniqueIndex:idx_store_products_site_product,priority:2"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	URL         string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StoreProduct) TableName() string {
	return "store_products"
}

// NewStoreProduct creates a new mirrored store product record
func NewStoreProduct(siteID uuid.UUID, productID int64, name string) (*StoreProduct, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SITE_REF", "Store product requires a site")
	}
	if productID <= 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID must be positive")
	}

	product := &StoreProduct{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		ProductID:         productID,
		Name:              name,
	}

	return product, nil
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (p *StoreProduct) Apply(name, description, url string) bool {
	changed := false
	if p.Name != name {
		p.Name = name
		changed = true
	}
	if p.Description != description {
		p.Description = description
		changed = true
	}
	if p.URL != url {
		p.URL = url
		changed = true
	}
	if changed {
		p.Touch()
	}
	return changed
}

// StoreProductOption represents an option of a mirrored store product
type StoreProductOption struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_product_options_product_option,priority:1"`
	OptionID  int64      `gorm:"not null;uniqueIndex:idx_product_options_product_option,priority:2"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Choices   ChoiceList `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StoreProductOption) TableName() string {
	return "store_product_options"
}

// NewStoreProductOption creates a new mirrored product option record
func NewStoreProductOption(productID uuid.UUID, optionID int64, name string) (*StoreProductOption, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_REF", "Product option requires a product")
	}
	if optionID <= 0 {
		return nil, shared.NewDomainError("INVALID_OPTION_ID", "Option ID must be positive")
	}

	option := &StoreProductOption{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		OptionID:          optionID,
		Name:              name,
		Choices:           ChoiceList{},
	}

	return option, nil
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (o *StoreProductOption) Apply(name string, choices ChoiceList) bool {
	changed := false
	if o.Name != name {
		o.Name = name
		changed = true
	}
	if !choiceListEqual(o.Choices, choices) {
		if choices == nil {
			o.Choices = ChoiceList{}
		} else {
			o.Choices = choices
		}
		changed = true
	}
	if changed {
		o.Touch()
	}
	return changed
}

func choiceListEqual(a, b ChoiceList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StoreCategory represents a platform store category mirrored locally.
// ParentID references the local record of the parent category; the
// parent may be listed after the child by the platform, so resolving it
// can take more than one reconciliation pass.
type StoreCategory struct {
	shared.BaseAggregateRoot
	SiteID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_store_categories_site_category,priority:1"`
	CategoryID int64      `gorm:"not null;uniqueIndex:idx_store_categories_site_category,priority:2"`
	Name       string     `gorm:"type:varchar(255);not null"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StoreCategory) TableName() string {
	return "store_categories"
}

// NewStoreCategory creates a new mirrored store category record
func NewStoreCategory(siteID uuid.UUID, categoryID int64, name string) (*StoreCategory, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SITE_REF", "Store category requires a site")
	}
	if categoryID <= 0 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_ID", "Category ID must be positive")
	}

	category := &StoreCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		CategoryID:        categoryID,
		Name:              name,
	}

	return category, nil
}

// Apply updates the record with the values last seen on the platform
// and reports whether anything changed
func (c *StoreCategory) Apply(name string, parentID *uuid.UUID) bool {
	changed := false
	if c.Name != name {
		c.Name = name
		changed = true
	}
	if !uuidPtrEqual(c.ParentID, parentID) {
		c.ParentID = parentID
		changed = true
	}
	if changed {
		c.Touch()
	}
	return changed
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
