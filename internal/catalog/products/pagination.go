package products

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mercato-app/mercato/internal/platform/httpx"
)

// SortMode selects the storefront page ordering.
type SortMode string

const (
	// SortRelevance is the default: row id ascending. There is no scoring;
	// the point is an insertion-independent, deterministic order so paging
	// never duplicates or skips rows.
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortNameAsc   SortMode = "name_asc"
)

// IsValid reports whether the sort mode is known.
func (m SortMode) IsValid() bool {
	switch m {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return true
	default:
		return false
	}
}

// Page size bounds for storefront listings.
const (
	MinPageSize     = 1
	MaxPageSize     = 50
	DefaultPageSize = 24
)

// PageQuery describes one storefront page request. All filters are
// conjunctive; active rows are always required on top of these.
type PageQuery struct {
	StoreID    int64
	Search     string
	CategoryID *int64
	StockOnly  bool
	Sort       SortMode
	Cursor     int
	PageSize   int
}

// Normalize applies defaults and validates bounds before any storage access.
func (q *PageQuery) Normalize() error {
	if q.Sort == "" {
		q.Sort = SortRelevance
	}
	if !q.Sort.IsValid() {
		return fmt.Errorf("unknown sort mode %q: %w", q.Sort, httpx.ErrValidation)
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize < MinPageSize || q.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be between %d and %d: %w", MinPageSize, MaxPageSize, httpx.ErrValidation)
	}
	if q.Cursor < 0 {
		return fmt.Errorf("cursor must not be negative: %w", httpx.ErrValidation)
	}
	q.Search = strings.TrimSpace(q.Search)
	return nil
}

// CacheKey identifies the resolved query for the cache layer.
func (q PageQuery) CacheKey() string {
	cat := "-"
	if q.CategoryID != nil {
		cat = strconv.FormatInt(*q.CategoryID, 10)
	}
	return fmt.Sprintf("%d|q=%s|cat=%s|stock=%t|sort=%s|cur=%d|n=%d",
		q.StoreID, q.Search, cat, q.StockOnly, q.Sort, q.Cursor, q.PageSize)
}

// Page is one storefront listing page. The cursor is an offset into the
// filtered, ordered result set: concurrent writes ahead of the cursor can
// shift absolute offsets between requests, which is an accepted trade-off.
type Page struct {
	Items      []EffectiveProduct `json:"items"`
	NextCursor *int               `json:"nextCursor"`
	HasMore    bool               `json:"hasMore"`
	Total      int                `json:"total"`
}

// NewPage assembles pagination metadata for a slice of resolved rows.
func NewPage(items []EffectiveProduct, cursor, pageSize, total int) Page {
	if items == nil {
		items = []EffectiveProduct{}
	}
	page := Page{Items: items, Total: total}
	if cursor+pageSize < total {
		next := cursor + pageSize
		page.HasMore = true
		page.NextCursor = &next
	}
	return page
}
