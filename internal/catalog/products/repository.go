package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

// AdminListFilters narrows admin listings of global products.
type AdminListFilters struct {
	Search     string
	CategoryID *int64
	IsActive   *bool
	Page       int
	Limit      int
}

type Repository interface {
	ListEffective(ctx context.Context, q PageQuery) ([]EffectiveProduct, int, error)

	ListGlobal(ctx context.Context, filters AdminListFilters) ([]GlobalProduct, int, error)
	GetGlobal(ctx context.Context, id int64) (GlobalProduct, error)
	CreateGlobal(ctx context.Context, p GlobalProduct) (GlobalProduct, error)
	UpdateGlobal(ctx context.Context, id int64, p GlobalProduct) error
	DeleteGlobal(ctx context.Context, id int64) error

	ListStoreProducts(ctx context.Context, storeID int64, page, limit int) ([]StoreProduct, int, error)
	GetStoreProduct(ctx context.Context, id int64) (StoreProduct, error)
	CreateStoreProduct(ctx context.Context, sp StoreProduct) (StoreProduct, error)
	UpdateStoreProduct(ctx context.Context, id int64, sp StoreProduct) error
	DeleteStoreProduct(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Effective-value SQL expressions. Custom rows take their custom_* columns,
// override rows take their own value falling back to the global one; stray
// custom_* values on override rows are never consulted.
const (
	effName    = `CASE WHEN sp.global_product_id IS NULL THEN sp.custom_name ELSE gp.name END`
	effPrice   = `CASE WHEN sp.global_product_id IS NULL THEN sp.custom_price ELSE COALESCE(sp.price, gp.price) END`
	effCat     = `CASE WHEN sp.global_product_id IS NULL THEN sp.custom_category_id ELSE gp.category_id END`
	effInStock = `COALESCE(sp.in_stock, gp.in_stock, TRUE)`
	effActive  = `(sp.is_active AND COALESCE(gp.is_active, TRUE))`
)

const effectiveSelect = `SELECT
	sp.id, sp.store_id, sp.global_product_id,
	sp.price, sp.old_price, sp.stock, sp.in_stock, sp.is_active, sp.sort_order,
	sp.custom_name, sp.custom_slug, sp.custom_description, sp.custom_brand,
	sp.custom_category_id, sp.custom_price, sp.custom_old_price,
	sp.custom_weight, sp.custom_image, sp.custom_attributes,
	gp.name, gp.slug, gp.description, gp.category_id, gp.price, gp.old_price,
	gp.weight, gp.images, gp.attributes, gp.stock, gp.in_stock, gp.is_active,
	b.name
FROM store_products sp
LEFT JOIN global_products gp ON gp.id = sp.global_product_id
LEFT JOIN brands b ON b.id = gp.brand_id`

// escapeLike makes user text safe inside a LIKE/ILIKE pattern so wildcard
// metacharacters match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *repository) ListEffective(ctx context.Context, q PageQuery) ([]EffectiveProduct, int, error) {
	conditions := []string{"sp.store_id = $1", effActive}
	args := []any{q.StoreID}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		conditions = append(conditions, effName+` ILIKE $`+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	if q.CategoryID != nil {
		args = append(args, *q.CategoryID)
		conditions = append(conditions, effCat+` = $`+strconv.Itoa(len(args)))
	}
	if q.StockOnly {
		conditions = append(conditions, effInStock)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM store_products sp
LEFT JOIN global_products gp ON gp.id = sp.global_product_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count effective: %w", err)
	}

	args = append(args, q.PageSize)
	limitClause := ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, q.Cursor)
	limitClause += ` OFFSET $` + strconv.Itoa(len(args))

	query := effectiveSelect + where + " ORDER BY " + orderClause(q.Sort) + limitClause

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list effective: %w", err)
	}
	defer rows.Close()

	var items []EffectiveProduct
	for rows.Next() {
		item, err := scanEffective(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("products: list effective: %w", err)
	}
	return items, total, nil
}

func orderClause(sort SortMode) string {
	switch sort {
	case SortPriceAsc:
		return effPrice + " ASC, sp.id ASC"
	case SortPriceDesc:
		return effPrice + " DESC, sp.id ASC"
	case SortNameAsc:
		return effName + " ASC, sp.id ASC"
	default:
		// Relevance: stable, insertion-independent row order.
		return "sp.id ASC"
	}
}

func scanEffective(rows pgx.Rows) (EffectiveProduct, error) {
	var (
		sp        StoreProduct
		gName     *string
		gSlug     *string
		gDesc     *string
		gCat      *int64
		gPrice    *float64
		gOldPrice *float64
		gWeight   *string
		gImages   []string
		gAttrs    map[string]string
		gStock    *int
		gInStock  *bool
		gActive   *bool
		brand     *string
	)
	err := rows.Scan(
		&sp.ID, &sp.StoreID, &sp.GlobalProductID,
		&sp.Price, &sp.OldPrice, &sp.Stock, &sp.InStock, &sp.IsActive, &sp.SortOrder,
		&sp.CustomName, &sp.CustomSlug, &sp.CustomDescription, &sp.CustomBrand,
		&sp.CustomCategoryID, &sp.CustomPrice, &sp.CustomOldPrice,
		&sp.CustomWeight, &sp.CustomImage, &sp.CustomAttributes,
		&gName, &gSlug, &gDesc, &gCat, &gPrice, &gOldPrice,
		&gWeight, &gImages, &gAttrs, &gStock, &gInStock, &gActive,
		&brand,
	)
	if err != nil {
		return EffectiveProduct{}, fmt.Errorf("products: scan effective row: %w", err)
	}

	var global *GlobalProduct
	if sp.GlobalProductID != nil {
		if gName == nil {
			return EffectiveProduct{}, ErrDanglingReference
		}
		global = &GlobalProduct{
			Name:        *gName,
			Slug:        strVal(gSlug),
			Description: strVal(gDesc),
			CategoryID:  intVal(gCat),
			Price:       floatVal(gPrice),
			OldPrice:    gOldPrice,
			Weight:      strVal(gWeight),
			Images:      gImages,
			Attributes:  gAttrs,
			Stock:       stockVal(gStock, 0),
			InStock:     boolVal(gInStock, true),
			IsActive:    boolVal(gActive, true),
		}
		global.ID = *sp.GlobalProductID
	}
	return Resolve(sp, global, strVal(brand))
}

const globalColumns = `id, name, slug, description, brand_id, category_id, price, old_price,
	weight, images, attributes, stock, in_stock, is_active, created_at, updated_at`

func (r *repository) ListGlobal(ctx context.Context, filters AdminListFilters) ([]GlobalProduct, int, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+escapeLike(filters.Search)+"%")
		conditions = append(conditions, `name ILIKE $`+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		conditions = append(conditions, `category_id = $`+strconv.Itoa(len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		conditions = append(conditions, `is_active = $`+strconv.Itoa(len(args)))
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM global_products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count global: %w", err)
	}

	query := `SELECT ` + globalColumns + ` FROM global_products` + where + ` ORDER BY name ASC, id ASC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list global: %w", err)
	}
	defer rows.Close()

	var items []GlobalProduct
	for rows.Next() {
		var p GlobalProduct
		if err := scanGlobal(rows, &p); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func scanGlobal(row pgx.Row, p *GlobalProduct) error {
	return row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.BrandID, &p.CategoryID,
		&p.Price, &p.OldPrice, &p.Weight, &p.Images, &p.Attributes,
		&p.Stock, &p.InStock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) GetGlobal(ctx context.Context, id int64) (GlobalProduct, error) {
	var p GlobalProduct
	err := scanGlobal(r.pool.QueryRow(ctx, `SELECT `+globalColumns+` FROM global_products WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return GlobalProduct{}, httpx.ErrNotFound
	}
	if err != nil {
		return GlobalProduct{}, fmt.Errorf("products: get global: %w", err)
	}
	return p, nil
}

func (r *repository) CreateGlobal(ctx context.Context, p GlobalProduct) (GlobalProduct, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO global_products
	(name, slug, description, brand_id, category_id, price, old_price, weight, images, attributes, stock, in_stock, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at, updated_at`,
		p.Name, p.Slug, p.Description, p.BrandID, p.CategoryID, p.Price, p.OldPrice,
		p.Weight, p.Images, p.Attributes, p.Stock, p.InStock, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return GlobalProduct{}, shared.MapWriteError("products: create global", err)
	}
	return p, nil
}

func (r *repository) UpdateGlobal(ctx context.Context, id int64, p GlobalProduct) error {
	tag, err := r.pool.Exec(ctx, `UPDATE global_products SET
	name = $1, slug = $2, description = $3, brand_id = $4, category_id = $5,
	price = $6, old_price = $7, weight = $8, images = $9, attributes = $10,
	stock = $11, in_stock = $12, is_active = $13, updated_at = NOW()
	WHERE id = $14`,
		p.Name, p.Slug, p.Description, p.BrandID, p.CategoryID, p.Price, p.OldPrice,
		p.Weight, p.Images, p.Attributes, p.Stock, p.InStock, p.IsActive, id)
	if err != nil {
		return shared.MapWriteError("products: update global", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteGlobal(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM global_products WHERE id = $1`, id)
	if err != nil {
		return shared.MapWriteError("products: delete global", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const storeProductColumns = `id, store_id, global_product_id, price, old_price, stock, in_stock,
	is_active, sort_order, custom_name, custom_slug, custom_description, custom_brand,
	custom_category_id, custom_price, custom_old_price, custom_weight, custom_image,
	custom_attributes, created_at, updated_at`

func scanStoreProduct(row pgx.Row, sp *StoreProduct) error {
	return row.Scan(&sp.ID, &sp.StoreID, &sp.GlobalProductID, &sp.Price, &sp.OldPrice,
		&sp.Stock, &sp.InStock, &sp.IsActive, &sp.SortOrder,
		&sp.CustomName, &sp.CustomSlug, &sp.CustomDescription, &sp.CustomBrand,
		&sp.CustomCategoryID, &sp.CustomPrice, &sp.CustomOldPrice,
		&sp.CustomWeight, &sp.CustomImage, &sp.CustomAttributes,
		&sp.CreatedAt, &sp.UpdatedAt)
}

func (r *repository) ListStoreProducts(ctx context.Context, storeID int64, page, limit int) ([]StoreProduct, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM store_products WHERE store_id = $1`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count store products: %w", err)
	}

	query := `SELECT ` + storeProductColumns + ` FROM store_products WHERE store_id = $1 ORDER BY id ASC`
	args := []any{storeID}
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (page - 1) * limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list store products: %w", err)
	}
	defer rows.Close()

	var items []StoreProduct
	for rows.Next() {
		var sp StoreProduct
		if err := scanStoreProduct(rows, &sp); err != nil {
			return nil, 0, fmt.Errorf("products: scan store product: %w", err)
		}
		items = append(items, sp)
	}
	return items, total, rows.Err()
}

func (r *repository) GetStoreProduct(ctx context.Context, id int64) (StoreProduct, error) {
	var sp StoreProduct
	err := scanStoreProduct(r.pool.QueryRow(ctx, `SELECT `+storeProductColumns+` FROM store_products WHERE id = $1`, id), &sp)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoreProduct{}, httpx.ErrNotFound
	}
	if err != nil {
		return StoreProduct{}, fmt.Errorf("products: get store product: %w", err)
	}
	return sp, nil
}

func (r *repository) CreateStoreProduct(ctx context.Context, sp StoreProduct) (StoreProduct, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO store_products
	(store_id, global_product_id, price, old_price, stock, in_stock, is_active, sort_order,
	 custom_name, custom_slug, custom_description, custom_brand, custom_category_id,
	 custom_price, custom_old_price, custom_weight, custom_image, custom_attributes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING id, created_at, updated_at`,
		sp.StoreID, sp.GlobalProductID, sp.Price, sp.OldPrice, sp.Stock, sp.InStock,
		sp.IsActive, sp.SortOrder, sp.CustomName, sp.CustomSlug, sp.CustomDescription,
		sp.CustomBrand, sp.CustomCategoryID, sp.CustomPrice, sp.CustomOldPrice,
		sp.CustomWeight, sp.CustomImage, sp.CustomAttributes,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return StoreProduct{}, shared.MapWriteError("products: create store product", err)
	}
	return sp, nil
}

func (r *repository) UpdateStoreProduct(ctx context.Context, id int64, sp StoreProduct) error {
	tag, err := r.pool.Exec(ctx, `UPDATE store_products SET
	price = $1, old_price = $2, stock = $3, in_stock = $4, is_active = $5, sort_order = $6,
	custom_name = $7, custom_slug = $8, custom_description = $9, custom_brand = $10,
	custom_category_id = $11, custom_price = $12, custom_old_price = $13,
	custom_weight = $14, custom_image = $15, custom_attributes = $16, updated_at = NOW()
	WHERE id = $17`,
		sp.Price, sp.OldPrice, sp.Stock, sp.InStock, sp.IsActive, sp.SortOrder,
		sp.CustomName, sp.CustomSlug, sp.CustomDescription, sp.CustomBrand,
		sp.CustomCategoryID, sp.CustomPrice, sp.CustomOldPrice,
		sp.CustomWeight, sp.CustomImage, sp.CustomAttributes, id)
	if err != nil {
		return shared.MapWriteError("products: update store product", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteStoreProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM store_products WHERE id = $1`, id)
	if err != nil {
		return shared.MapWriteError("products: delete store product", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
