package areas

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

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

// ListPublic serves the cached area listing shown on the landing page.
func (s *Service) ListPublic(ctx context.Context) ([]Area, error) {
	var out []Area
	err := s.cache.Fetch(ctx, cache.ClassAreas, "all", "/api/areas", &out, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
	return out, err
}

func (s *Service) List(ctx context.Context) ([]Area, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Area, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, a Area) (Area, error) {
	if err := normalize(&a); err != nil {
		return Area{}, err
	}
	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return Area{}, err
	}
	s.recordAndBust(ctx, "area.create", created.ID, cache.TagAreas)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, a Area) error {
	if err := normalize(&a); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, a); err != nil {
		return err
	}
	s.recordAndBust(ctx, "area.update", id, cache.TagAreas)
	return nil
}

// Delete invalidates beyond the area listing: store listings are filtered by
// area and product pages belong to stores, so both can embed stale area
// state.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAndBust(ctx, "area.delete", id, cache.TagAreas, cache.TagStores, cache.TagProducts)
	return nil
}

func normalize(a *Area) error {
	a.Name = strings.TrimSpace(a.Name)
	a.City = strings.TrimSpace(a.City)
	if a.Name == "" {
		return fmt.Errorf("area name is required: %w", httpx.ErrValidation)
	}
	if a.City == "" {
		return fmt.Errorf("area city is required: %w", httpx.ErrValidation)
	}
	if a.Slug == "" {
		a.Slug = shared.Slugify(a.City + " " + a.Name)
	}
	return nil
}

func (s *Service) recordAndBust(ctx context.Context, action string, id int64, tags ...string) {
	_ = s.audit.Record(ctx, audit.Entry{
		Actor:    "admin",
		Action:   action,
		Entity:   "area",
		EntityID: strconv.FormatInt(id, 10),
	})
	if err := s.cache.InvalidateTags(ctx, tags...); err != nil {
		s.logger.Error("area cache invalidation failed", slog.String("action", action), slog.Any("error", err))
	}
}
