package stores

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/db"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type Repository interface {
	ListActive(ctx context.Context, areaID *int64) ([]Store, error)
	ListAll(ctx context.Context) ([]Store, error)
	GetActiveBySlug(ctx context.Context, slug string) (Store, error)
	Get(ctx context.Context, id int64) (Store, error)
	Create(ctx context.Context, s Store) (Store, error)
	Update(ctx context.Context, id int64, s Store) error
	Delete(ctx context.Context, id int64) error
	SetAreas(ctx context.Context, storeID int64, areaIDs []int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const storeColumns = `s.id, s.slug, s.name, s.status, s.delivery_fee, s.free_delivery_over, s.minimum_order, s.created_at, s.updated_at`

func (r *repository) ListActive(ctx context.Context, areaID *int64) ([]Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores s WHERE s.status = 'active'`
	args := []any{}
	if areaID != nil {
		args = append(args, *areaID)
		query += ` AND EXISTS (SELECT 1 FROM store_areas sa WHERE sa.store_id = s.id AND sa.area_id = $1)`
	}
	query += ` ORDER BY s.name ASC`
	return r.queryStores(ctx, query, args...)
}

func (r *repository) ListAll(ctx context.Context) ([]Store, error) {
	return r.queryStores(ctx, `SELECT `+storeColumns+` FROM stores s ORDER BY s.name ASC`)
}

func (r *repository) queryStores(ctx context.Context, query string, args ...any) ([]Store, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *repository) GetActiveBySlug(ctx context.Context, slug string) (Store, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores s WHERE s.slug = $1 AND s.status = 'active'`, slug)
	s, err := scanStore(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, httpx.ErrNotFound
	}
	if err != nil {
		return Store{}, err
	}
	return r.attachAreas(ctx, s)
}

func (r *repository) Get(ctx context.Context, id int64) (Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores s WHERE s.id = $1`, id)
	s, err := scanStore(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, httpx.ErrNotFound
	}
	if err != nil {
		return Store{}, err
	}
	return r.attachAreas(ctx, s)
}

func (r *repository) attachAreas(ctx context.Context, s Store) (Store, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT area_id FROM store_areas WHERE store_id = $1 ORDER BY area_id`, s.ID)
	if err != nil {
		return Store{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return Store{}, err
		}
		s.AreaIDs = append(s.AreaIDs, id)
	}
	return s, rows.Err()
}

func (r *repository) Create(ctx context.Context, s Store) (Store, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO stores (slug, name, status, delivery_fee, free_delivery_over, minimum_order)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at, updated_at`,
			s.Slug, s.Name, s.Status, s.DeliveryFee, s.FreeDeliveryOver, s.MinimumOrder,
		).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return err
		}
		return replaceAreas(ctx, tx, s.ID, s.AreaIDs)
	})
	if err != nil {
		return Store{}, shared.MapWriteError("stores: create", err)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Store) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE stores
			 SET slug = $1, name = $2, status = $3, delivery_fee = $4, free_delivery_over = $5, minimum_order = $6, updated_at = NOW()
			 WHERE id = $7`,
			s.Slug, s.Name, s.Status, s.DeliveryFee, s.FreeDeliveryOver, s.MinimumOrder, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		return replaceAreas(ctx, tx, id, s.AreaIDs)
	})
	return shared.MapWriteError("stores: update", err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return shared.MapWriteError("stores: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SetAreas replaces the store's area coverage in one transaction.
func (r *repository) SetAreas(ctx context.Context, storeID int64, areaIDs []int64) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, storeID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return httpx.ErrNotFound
		}
		return replaceAreas(ctx, tx, storeID, areaIDs)
	})
	return shared.MapWriteError("stores: set areas", err)
}

func replaceAreas(ctx context.Context, tx pgx.Tx, storeID int64, areaIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM store_areas WHERE store_id = $1`, storeID); err != nil {
		return err
	}
	for _, areaID := range areaIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO store_areas (store_id, area_id) VALUES ($1, $2)`, storeID, areaID); err != nil {
			return err
		}
	}
	return nil
}

func scanStore(row pgx.Row) (Store, error) {
	var s Store
	err := row.Scan(&s.ID, &s.Slug, &s.Name, &s.Status, &s.DeliveryFee, &s.FreeDeliveryOver, &s.MinimumOrder, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
