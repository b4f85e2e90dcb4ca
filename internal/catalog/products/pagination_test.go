package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato-app/mercato/internal/platform/httpx"
)

func TestNormalizeDefaults(t *testing.T) {
	q := PageQuery{StoreID: 1}
	require.NoError(t, q.Normalize())

	assert.Equal(t, SortRelevance, q.Sort)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, 0, q.Cursor)
}

func TestNormalizeBounds(t *testing.T) {
	cases := []struct {
		name string
		q    PageQuery
	}{
		{"page size too small", PageQuery{PageSize: -1}},
		{"page size too large", PageQuery{PageSize: MaxPageSize + 1}},
		{"negative cursor", PageQuery{Cursor: -1}},
		{"unknown sort", PageQuery{Sort: "cheapest"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Normalize()
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}

	q := PageQuery{PageSize: MaxPageSize}
	require.NoError(t, q.Normalize())
}

func TestNormalizeTrimsSearch(t *testing.T) {
	q := PageQuery{Search: "  milk  "}
	require.NoError(t, q.Normalize())
	assert.Equal(t, "milk", q.Search)
}

func TestCacheKeyDistinguishesQueries(t *testing.T) {
	base := PageQuery{StoreID: 1, Sort: SortRelevance, PageSize: 24}
	variants := []PageQuery{
		{StoreID: 2, Sort: SortRelevance, PageSize: 24},
		{StoreID: 1, Sort: SortPriceAsc, PageSize: 24},
		{StoreID: 1, Sort: SortRelevance, PageSize: 24, Cursor: 24},
		{StoreID: 1, Sort: SortRelevance, PageSize: 24, Search: "milk"},
		{StoreID: 1, Sort: SortRelevance, PageSize: 24, CategoryID: ptr(int64(3))},
		{StoreID: 1, Sort: SortRelevance, PageSize: 24, StockOnly: true},
	}

	seen := map[string]bool{base.CacheKey(): true}
	for _, v := range variants {
		key := v.CacheKey()
		assert.False(t, seen[key], "duplicate cache key %q", key)
		seen[key] = true
	}
}

func TestNewPageCursorMath(t *testing.T) {
	items := make([]EffectiveProduct, 24)

	page := NewPage(items, 0, 24, 60)
	require.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, 24, *page.NextCursor)
	assert.Equal(t, 60, page.Total)

	page = NewPage(items, 24, 24, 60)
	require.True(t, page.HasMore)
	assert.Equal(t, 48, *page.NextCursor)

	// Final, short page.
	page = NewPage(items[:12], 48, 24, 60)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestNewPageExactBoundary(t *testing.T) {
	// Total divides evenly by page size: the last full page must not
	// advertise a further page.
	page := NewPage(make([]EffectiveProduct, 24), 24, 24, 48)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestNewPageEmptyResult(t *testing.T) {
	page := NewPage(nil, 0, 24, 0)
	assert.NotNil(t, page.Items, "items marshals as [] rather than null")
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
	assert.Equal(t, 0, page.Total)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike(`100%`))
	assert.Equal(t, `a\_b`, escapeLike(`a_b`))
	assert.Equal(t, `c:\\temp`, escapeLike(`c:\temp`))
	assert.Equal(t, `plain milk`, escapeLike(`plain milk`))
}
