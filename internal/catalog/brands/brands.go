// Package brands manages the shared brand list referenced by global
// products.
package brands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Repository interface {
	List(ctx context.Context, search string) ([]Brand, error)
	Get(ctx context.Context, id int64) (Brand, error)
	Create(ctx context.Context, b Brand) (Brand, error)
	Update(ctx context.Context, id int64, b Brand) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, search string) ([]Brand, error) {
	query := `SELECT id, name, slug FROM brands`
	args := []any{}
	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Brand, error) {
	var b Brand
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM brands WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, httpx.ErrNotFound
	}
	if err != nil {
		return Brand{}, err
	}
	return b, nil
}

func (r *repository) Create(ctx context.Context, b Brand) (Brand, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO brands (name, slug) VALUES ($1, $2) RETURNING id`,
		b.Name, b.Slug).Scan(&b.ID)
	if err != nil {
		return Brand{}, shared.MapWriteError("brands: create", err)
	}
	return b, nil
}

func (r *repository) Update(ctx context.Context, id int64, b Brand) error {
	tag, err := r.pool.Exec(ctx, `UPDATE brands SET name = $1, slug = $2 WHERE id = $3`, b.Name, b.Slug, id)
	if err != nil {
		return shared.MapWriteError("brands: update", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return shared.MapWriteError("brands: delete", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Store
	audit  *audit.Recorder
}

func NewService(logger *slog.Logger, repo Repository, cacheStore *cache.Store, recorder *audit.Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, cache: cacheStore, audit: recorder}
}

func (s *Service) List(ctx context.Context, search string) ([]Brand, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Get(ctx context.Context, id int64) (Brand, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, b Brand) (Brand, error) {
	if err := normalize(&b); err != nil {
		return Brand{}, err
	}
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return Brand{}, err
	}
	s.recordAndBust(ctx, "brand.create", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, b Brand) error {
	if err := normalize(&b); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, b); err != nil {
		return err
	}
	s.recordAndBust(ctx, "brand.update", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAndBust(ctx, "brand.delete", id)
	return nil
}

func normalize(b *Brand) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("brand name is required: %w", httpx.ErrValidation)
	}
	if b.Slug == "" {
		b.Slug = shared.Slugify(b.Name)
	}
	return nil
}

func (s *Service) recordAndBust(ctx context.Context, action string, id int64) {
	_ = s.audit.Record(ctx, audit.Entry{
		Actor:    "admin",
		Action:   action,
		Entity:   "brand",
		EntityID: strconv.FormatInt(id, 10),
	})
	if err := s.cache.InvalidateTags(ctx, cache.TagProducts); err != nil {
		s.logger.Error("brand cache invalidation failed", slog.String("action", action), slog.Any("error", err))
	}
}
