package areas

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Area, error)
	Get(ctx context.Context, id int64) (Area, error)
	Create(ctx context.Context, a Area) (Area, error)
	Update(ctx context.Context, id int64, a Area) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const areaColumns = `id, name, city, slug, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Area, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+areaColumns+` FROM areas ORDER BY city ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []Area{}
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Name, &a.City, &a.Slug, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Area, error) {
	var a Area
	err := r.pool.QueryRow(ctx, `SELECT `+areaColumns+` FROM areas WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.City, &a.Slug, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Area{}, httpx.ErrNotFound
	}
	if err != nil {
		return Area{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, a Area) (Area, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO areas (name, city, slug) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		a.Name, a.City, a.Slug).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Area{}, shared.MapWriteError("areas: create", err)
	}
	return a, nil
}

func (r *repository) Update(ctx context.Context, id int64, a Area) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE areas SET name = $1, city = $2, slug = $3, updated_at = NOW() WHERE id = $4`,
		a.Name, a.City, a.Slug, id)
	if err != nil {
		return shared.MapWriteError("areas: update", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete is restricted while stores still serve the area; the foreign key
// surfaces that as a conflict.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return shared.MapWriteError("areas: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
