// Package products implements the catalog core: global products, per-store
// overrides and custom entries, the effective-product resolver, and the
// storefront pagination engine.
package products

import (
	"time"
)

// GlobalProduct is the canonical, shared product record. Only the admin
// gateway creates or edits it.
type GlobalProduct struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	BrandID     *int64            `json:"brand_id,omitempty"`
	CategoryID  int64             `json:"category_id"`
	Price       float64           `json:"price"`
	OldPrice    *float64          `json:"old_price,omitempty"`
	Weight      string            `json:"weight"`
	Images      []string          `json:"images"`
	Attributes  map[string]string `json:"attributes"`
	Stock       int               `json:"stock"`
	InStock     bool              `json:"in_stock"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// StoreProduct is a store's catalog row. It operates in one of two modes:
// referencing a GlobalProduct (override mode, where nil fields fall back to
// the global record) or standalone (custom mode, where the custom_* fields
// are authoritative). A row is never partially custom.
type StoreProduct struct {
	ID              int64  `json:"id"`
	StoreID         int64  `json:"store_id"`
	GlobalProductID *int64 `json:"global_product_id,omitempty"`

	// Override-mode fields; nil means "use the global value".
	Price    *float64 `json:"price,omitempty"`
	OldPrice *float64 `json:"old_price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	InStock  *bool    `json:"in_stock,omitempty"`

	IsActive  bool `json:"is_active"`
	SortOrder *int `json:"sort_order,omitempty"`

	// Custom-mode fields; consulted only when GlobalProductID is nil.
	CustomName        *string           `json:"custom_name,omitempty"`
	CustomSlug        *string           `json:"custom_slug,omitempty"`
	CustomDescription *string           `json:"custom_description,omitempty"`
	CustomBrand       *string           `json:"custom_brand,omitempty"`
	CustomCategoryID  *int64            `json:"custom_category_id,omitempty"`
	CustomPrice       *float64          `json:"custom_price,omitempty"`
	CustomOldPrice    *float64          `json:"custom_old_price,omitempty"`
	CustomWeight      *string           `json:"custom_weight,omitempty"`
	CustomImage       *string           `json:"custom_image,omitempty"`
	CustomAttributes  map[string]string `json:"custom_attributes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCustom reports whether the row carries its own display fields.
func (sp StoreProduct) IsCustom() bool {
	return sp.GlobalProductID == nil
}

// EffectiveProduct is the resolved, read-only projection served to
// storefront clients. It is recomputed on every resolver call and never
// persisted. ID is the store_products row id, which doubles as the stable
// pagination tie-break key.
type EffectiveProduct struct {
	ID              int64             `json:"id"`
	StoreID         int64             `json:"store_id"`
	GlobalProductID *int64            `json:"global_product_id,omitempty"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	Brand           string            `json:"brand,omitempty"`
	CategoryID      int64             `json:"category_id"`
	Price           float64           `json:"price"`
	OldPrice        *float64          `json:"old_price,omitempty"`
	Weight          string            `json:"weight"`
	Images          []string          `json:"images"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Stock           int               `json:"stock"`
	InStock         bool              `json:"in_stock"`
	IsActive        bool              `json:"is_active"`
	SortOrder       *int              `json:"sort_order,omitempty"`
	Custom          bool              `json:"custom"`
}
