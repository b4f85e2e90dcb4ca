package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testGlobal() GlobalProduct {
	return GlobalProduct{
		ID:         7,
		Name:       "Whole Milk 1L",
		Slug:       "whole-milk-1l",
		CategoryID: 3,
		Price:      2.50,
		Weight:     "1l",
		Images:     []string{"milk.jpg"},
		Stock:      40,
		InStock:    true,
		IsActive:   true,
	}
}

func TestResolveOverridePriceBeatsGlobal(t *testing.T) {
	g := testGlobal()
	sp := StoreProduct{
		ID:              11,
		StoreID:         2,
		GlobalProductID: ptr(g.ID),
		Price:           ptr(1.99),
		IsActive:        true,
	}

	eff, err := Resolve(sp, &g, "Dairyco")
	require.NoError(t, err)

	assert.Equal(t, 1.99, eff.Price)
	assert.Equal(t, "Whole Milk 1L", eff.Name)
	assert.Equal(t, "Dairyco", eff.Brand)
	assert.Equal(t, int64(11), eff.ID, "effective id is the store row id")
	assert.False(t, eff.Custom)
}

func TestResolveOverrideFallsBackWhenUnset(t *testing.T) {
	g := testGlobal()
	sp := StoreProduct{ID: 11, StoreID: 2, GlobalProductID: ptr(g.ID), IsActive: true}

	eff, err := Resolve(sp, &g, "")
	require.NoError(t, err)

	assert.Equal(t, 2.50, eff.Price)
	assert.Equal(t, 40, eff.Stock)
	assert.True(t, eff.InStock)
	assert.Equal(t, g.Images, eff.Images)
}

func TestResolveOverrideIndependentFields(t *testing.T) {
	// Overriding price must not disturb stock resolution and vice versa.
	g := testGlobal()
	sp := StoreProduct{
		ID:              11,
		StoreID:         2,
		GlobalProductID: ptr(g.ID),
		Price:           ptr(3.10),
		IsActive:        true,
	}

	eff, err := Resolve(sp, &g, "")
	require.NoError(t, err)
	assert.Equal(t, 3.10, eff.Price)
	assert.Equal(t, 40, eff.Stock, "stock still comes from the global record")

	sp.Price = nil
	sp.Stock = ptr(5)
	eff, err = Resolve(sp, &g, "")
	require.NoError(t, err)
	assert.Equal(t, 2.50, eff.Price, "price reverts to global")
	assert.Equal(t, 5, eff.Stock)
}

func TestResolveOverrideActiveRequiresBoth(t *testing.T) {
	g := testGlobal()
	sp := StoreProduct{ID: 11, StoreID: 2, GlobalProductID: ptr(g.ID), IsActive: true}

	g.IsActive = false
	eff, err := Resolve(sp, &g, "")
	require.NoError(t, err)
	assert.False(t, eff.IsActive, "deactivated global hides every override row")

	g.IsActive = true
	sp.IsActive = false
	eff, err = Resolve(sp, &g, "")
	require.NoError(t, err)
	assert.False(t, eff.IsActive)
}

func TestResolveCustomIgnoresStrayOverrideState(t *testing.T) {
	// A custom row is fully standalone: whatever override-style or global
	// state might coexist, only custom_* fields are consulted.
	sp := StoreProduct{
		ID:               21,
		StoreID:          2,
		CustomName:       ptr("House Lemonade"),
		CustomSlug:       ptr("house-lemonade"),
		CustomCategoryID: ptr(int64(9)),
		CustomPrice:      ptr(4.00),
		Price:            ptr(99.0),
		IsActive:         true,
	}

	eff, err := Resolve(sp, nil, "ignored")
	require.NoError(t, err)

	assert.True(t, eff.Custom)
	assert.Equal(t, "House Lemonade", eff.Name)
	assert.Equal(t, 4.00, eff.Price, "custom price wins, not the override field")
	assert.Equal(t, int64(9), eff.CategoryID)
	assert.Empty(t, eff.Brand, "brand arg only applies to override rows")
	assert.Nil(t, eff.GlobalProductID)
}

func TestResolveCustomDefaultsInStock(t *testing.T) {
	sp := StoreProduct{
		ID:          21,
		StoreID:     2,
		CustomName:  ptr("House Lemonade"),
		CustomPrice: ptr(4.00),
		IsActive:    true,
	}

	eff, err := Resolve(sp, nil, "")
	require.NoError(t, err)
	assert.True(t, eff.InStock, "in_stock defaults true when never set")

	sp.InStock = ptr(false)
	eff, err = Resolve(sp, nil, "")
	require.NoError(t, err)
	assert.False(t, eff.InStock)
}

func TestResolveDanglingOverride(t *testing.T) {
	sp := StoreProduct{ID: 11, StoreID: 2, GlobalProductID: ptr(int64(404)), IsActive: true}

	_, err := Resolve(sp, nil, "")
	require.ErrorIs(t, err, ErrDanglingReference)
}
