package products

import (
	"fmt"
	"strings"

	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

func validateGlobal(p GlobalProduct) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required: %w", httpx.ErrValidation)
	}
	if p.CategoryID <= 0 {
		return fmt.Errorf("product category is required: %w", httpx.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must not be negative: %w", httpx.ErrValidation)
	}
	return nil
}

// validateStoreProduct enforces the never-partially-custom invariant: custom
// rows must carry their own display fields, override rows have their stray
// custom fields discarded so they can never leak into resolution.
func validateStoreProduct(sp *StoreProduct) error {
	if sp.StoreID <= 0 {
		return fmt.Errorf("store is required: %w", httpx.ErrValidation)
	}
	if sp.IsCustom() {
		if sp.CustomName == nil || strings.TrimSpace(*sp.CustomName) == "" {
			return fmt.Errorf("custom product name is required: %w", httpx.ErrValidation)
		}
		if sp.CustomPrice == nil || *sp.CustomPrice < 0 {
			return fmt.Errorf("custom product price is required: %w", httpx.ErrValidation)
		}
		if sp.CustomCategoryID == nil || *sp.CustomCategoryID <= 0 {
			return fmt.Errorf("custom product category is required: %w", httpx.ErrValidation)
		}
		if sp.CustomSlug == nil || *sp.CustomSlug == "" {
			slug := shared.Slugify(*sp.CustomName)
			sp.CustomSlug = &slug
		}
		return nil
	}

	sp.CustomName = nil
	sp.CustomSlug = nil
	sp.CustomDescription = nil
	sp.CustomBrand = nil
	sp.CustomCategoryID = nil
	sp.CustomPrice = nil
	sp.CustomOldPrice = nil
	sp.CustomWeight = nil
	sp.CustomImage = nil
	sp.CustomAttributes = nil
	if sp.Price != nil && *sp.Price < 0 {
		return fmt.Errorf("override price must not be negative: %w", httpx.ErrValidation)
	}
	return nil
}
