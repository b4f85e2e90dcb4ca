package products

import "errors"

// ErrDanglingReference indicates an override row whose global product could
// not be loaded; callers treat it as a storage-level failure, not "no rows".
var ErrDanglingReference = errors.New("products: override references missing global product")

// Resolve merges a store row with its global product (nil for custom rows)
// into the effective projection. Field precedence: custom value when the row
// is custom, else the row's override value when set, else the global value.
// Price and stock fields resolve independently of descriptive fields, so a
// store can override price without touching stock.
func Resolve(sp StoreProduct, global *GlobalProduct, brand string) (EffectiveProduct, error) {
	if sp.IsCustom() {
		return resolveCustom(sp), nil
	}
	if global == nil {
		return EffectiveProduct{}, ErrDanglingReference
	}
	return resolveOverride(sp, *global, brand), nil
}

func resolveCustom(sp StoreProduct) EffectiveProduct {
	return EffectiveProduct{
		ID:          sp.ID,
		StoreID:     sp.StoreID,
		Name:        strVal(sp.CustomName),
		Slug:        strVal(sp.CustomSlug),
		Description: strVal(sp.CustomDescription),
		Brand:       strVal(sp.CustomBrand),
		CategoryID:  intVal(sp.CustomCategoryID),
		Price:       floatVal(sp.CustomPrice),
		OldPrice:    sp.CustomOldPrice,
		Weight:      strVal(sp.CustomWeight),
		Images:      imageList(sp.CustomImage),
		Attributes:  sp.CustomAttributes,
		Stock:       stockVal(sp.Stock, 0),
		InStock:     boolVal(sp.InStock, true),
		IsActive:    sp.IsActive,
		SortOrder:   sp.SortOrder,
		Custom:      true,
	}
}

func resolveOverride(sp StoreProduct, g GlobalProduct, brand string) EffectiveProduct {
	price := g.Price
	if sp.Price != nil {
		price = *sp.Price
	}
	oldPrice := g.OldPrice
	if sp.OldPrice != nil {
		oldPrice = sp.OldPrice
	}
	return EffectiveProduct{
		ID:              sp.ID,
		StoreID:         sp.StoreID,
		GlobalProductID: sp.GlobalProductID,
		Name:            g.Name,
		Slug:            g.Slug,
		Description:     g.Description,
		Brand:           brand,
		CategoryID:      g.CategoryID,
		Price:           price,
		OldPrice:        oldPrice,
		Weight:          g.Weight,
		Images:          g.Images,
		Attributes:      g.Attributes,
		Stock:           stockVal(sp.Stock, g.Stock),
		InStock:         boolVal(sp.InStock, g.InStock),
		IsActive:        sp.IsActive && g.IsActive,
		SortOrder:       sp.SortOrder,
		Custom:          false,
	}
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func floatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func boolVal(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func stockVal(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func imageList(image *string) []string {
	if image == nil || *image == "" {
		return nil
	}
	return []string{*image}
}
