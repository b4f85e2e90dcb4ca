package products

// ProductForm is the admin payload for creating or updating a global product.
type ProductForm struct {
	Name        string            `json:"name" validate:"required"`
	Slug        string            `json:"slug,omitempty"`
	Description string            `json:"description"`
	BrandID     *int64            `json:"brand_id,omitempty"`
	CategoryID  int64             `json:"category_id" validate:"required,gt=0"`
	Price       float64           `json:"price" validate:"gte=0"`
	OldPrice    *float64          `json:"old_price,omitempty"`
	Weight      string            `json:"weight"`
	Images      []string          `json:"images"`
	Attributes  map[string]string `json:"attributes"`
	Stock       int               `json:"stock" validate:"gte=0"`
	InStock     bool              `json:"in_stock"`
	IsActive    bool              `json:"is_active"`
}

func (f ProductForm) model() GlobalProduct {
	return GlobalProduct{
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		BrandID:     f.BrandID,
		CategoryID:  f.CategoryID,
		Price:       f.Price,
		OldPrice:    f.OldPrice,
		Weight:      f.Weight,
		Images:      f.Images,
		Attributes:  f.Attributes,
		Stock:       f.Stock,
		InStock:     f.InStock,
		IsActive:    f.IsActive,
	}
}

// StoreProductForm is the admin payload for a store override or custom row.
type StoreProductForm struct {
	StoreID         int64  `json:"store_id" validate:"required,gt=0"`
	GlobalProductID *int64 `json:"global_product_id,omitempty"`

	Price    *float64 `json:"price,omitempty"`
	OldPrice *float64 `json:"old_price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	InStock  *bool    `json:"in_stock,omitempty"`

	IsActive  bool `json:"is_active"`
	SortOrder *int `json:"sort_order,omitempty"`

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
}

func (f StoreProductForm) model() StoreProduct {
	return StoreProduct{
		StoreID:           f.StoreID,
		GlobalProductID:   f.GlobalProductID,
		Price:             f.Price,
		OldPrice:          f.OldPrice,
		Stock:             f.Stock,
		InStock:           f.InStock,
		IsActive:          f.IsActive,
		SortOrder:         f.SortOrder,
		CustomName:        f.CustomName,
		CustomSlug:        f.CustomSlug,
		CustomDescription: f.CustomDescription,
		CustomBrand:       f.CustomBrand,
		CustomCategoryID:  f.CustomCategoryID,
		CustomPrice:       f.CustomPrice,
		CustomOldPrice:    f.CustomOldPrice,
		CustomWeight:      f.CustomWeight,
		CustomImage:       f.CustomImage,
		CustomAttributes:  f.CustomAttributes,
	}
}

// ListResponse wraps admin listings with totals.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
