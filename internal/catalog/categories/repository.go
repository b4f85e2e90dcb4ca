package categories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/db"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Category, int, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, category Category) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, name, slug, parent_id, path, depth`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Category, int, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, `name ILIKE $`+strconv.Itoa(len(args)))
	}
	if filters.ParentID != nil {
		args = append(args, *filters.ParentID)
		conditions = append(conditions, `parent_id = $`+strconv.Itoa(len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE ` + where +
		` ORDER BY path ASC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Path, &c.Depth); err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Path, &c.Depth)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, httpx.ErrNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

// Create inserts the node and backfills its materialized path in the same
// transaction, since the path embeds the generated id.
func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO categories (name, slug, parent_id, path, depth)
			 VALUES ($1, $2, $3, '', $4)
			 RETURNING id`,
			category.Name, category.Slug, category.ParentID, category.Depth,
		).Scan(&category.ID)
		if err != nil {
			return err
		}

		category.Path = materializePath(category.Path, category.ID)
		_, err = tx.Exec(ctx, `UPDATE categories SET path = $1 WHERE id = $2`, category.Path, category.ID)
		return err
	})
	if err != nil {
		return Category{}, shared.MapWriteError("categories: create", err)
	}
	return category, nil
}

// Update rewrites the node and, when it moved, every descendant's path and
// depth in the same transaction.
func (r *repository) Update(ctx context.Context, id int64, category Category) error {
	newPath := materializePath(category.Path, id)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var oldPath string
		var oldDepth int
		err := tx.QueryRow(ctx, `SELECT path, depth FROM categories WHERE id = $1 FOR UPDATE`, id).
			Scan(&oldPath, &oldDepth)
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.ErrNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE categories SET name = $1, slug = $2, parent_id = $3, path = $4, depth = $5 WHERE id = $6`,
			category.Name, category.Slug, category.ParentID, newPath, category.Depth, id)
		if err != nil {
			return err
		}
		if newPath == oldPath {
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE categories
			 SET path = $1 || substr(path, length($2) + 1), depth = depth + $3
			 WHERE path LIKE $2 || '/%'`,
			newPath, oldPath, category.Depth-oldDepth)
		return err
	})
	if err != nil {
		return shared.MapWriteError("categories: update", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return shared.MapWriteError("categories: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// materializePath appends the node's own id to its parent path prefix. The
// incoming path carries only the prefix at write time.
func materializePath(parentPath string, id int64) string {
	if parentPath == "" {
		return strconv.FormatInt(id, 10)
	}
	return parentPath + "/" + strconv.FormatInt(id, 10)
}
