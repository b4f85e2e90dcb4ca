package stores

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/catalog/shared"
	"github.com/mercato-app/mercato/internal/directory/areas"
	"github.com/mercato-app/mercato/internal/platform/httpx"
)

// AreaLister feeds the homepage composition. Implemented by the areas
// service.
type AreaLister interface {
	List(ctx context.Context) ([]areas.Area, error)
}

// Homepage is the composed landing payload: every delivery area plus the
// active stores, so the client renders the whole entry screen from one
// request.
type Homepage struct {
	Areas  []areas.Area `json:"areas"`
	Stores []Store      `json:"stores"`
}

type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Store
	areas  AreaLister
	audit  *audit.Recorder
}

func NewService(logger *slog.Logger, repo Repository, cacheStore *cache.Store, areaLister AreaLister, recorder *audit.Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, cache: cacheStore, areas: areaLister, audit: recorder}
}

// ListPublic serves active stores, optionally narrowed to one delivery area.
func (s *Service) ListPublic(ctx context.Context, areaID *int64) ([]Store, error) {
	key := "all"
	if areaID != nil {
		key = "area:" + strconv.FormatInt(*areaID, 10)
	}
	var out []Store
	err := s.cache.Fetch(ctx, cache.ClassStores, key, "/api/stores", &out, func(ctx context.Context) (any, error) {
		return s.repo.ListActive(ctx, areaID)
	})
	return out, err
}

// GetPublic resolves one active store by slug. Pending, suspended and closed
// stores are indistinguishable from missing ones.
func (s *Service) GetPublic(ctx context.Context, slug string) (Store, error) {
	var out Store
	err := s.cache.Fetch(ctx, cache.ClassStore, slug, "/api/stores/"+slug, &out, func(ctx context.Context) (any, error) {
		return s.repo.GetActiveBySlug(ctx, slug)
	})
	return out, err
}

// ActiveStoreID implements the catalog's store resolver.
func (s *Service) ActiveStoreID(ctx context.Context, slug string) (int64, error) {
	store, err := s.GetPublic(ctx, slug)
	if err != nil {
		return 0, err
	}
	return store.ID, nil
}

// Home serves the composed landing payload.
func (s *Service) Home(ctx context.Context) (Homepage, error) {
	var out Homepage
	err := s.cache.Fetch(ctx, cache.ClassHome, "home", "/api/home", &out, func(ctx context.Context) (any, error) {
		areaList, err := s.areas.List(ctx)
		if err != nil {
			return nil, err
		}
		storeList, err := s.repo.ListActive(ctx, nil)
		if err != nil {
			return nil, err
		}
		return Homepage{Areas: areaList, Stores: storeList}, nil
	})
	return out, err
}

func (s *Service) ListAll(ctx context.Context) ([]Store, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Store, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, store Store) (Store, error) {
	if err := normalize(&store); err != nil {
		return Store{}, err
	}
	created, err := s.repo.Create(ctx, store)
	if err != nil {
		return Store{}, err
	}
	s.recordAndBust(ctx, "store.create", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, store Store) error {
	if err := normalize(&store); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, store); err != nil {
		return err
	}
	s.recordAndBust(ctx, "store.update", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAndBust(ctx, "store.delete", id)
	return nil
}

// SetAreas replaces area coverage; the change reaches area-filtered store
// listings and the homepage.
func (s *Service) SetAreas(ctx context.Context, storeID int64, areaIDs []int64) error {
	if err := s.repo.SetAreas(ctx, storeID, areaIDs); err != nil {
		return err
	}
	s.recordAndBust(ctx, "store.set_areas", storeID)
	return nil
}

func normalize(store *Store) error {
	store.Name = strings.TrimSpace(store.Name)
	if store.Name == "" {
		return fmt.Errorf("store name is required: %w", httpx.ErrValidation)
	}
	if store.Status == "" {
		store.Status = StatusPending
	}
	if !store.Status.IsValid() {
		return fmt.Errorf("unknown store status %q: %w", store.Status, httpx.ErrValidation)
	}
	if store.DeliveryFee < 0 || store.MinimumOrder < 0 {
		return fmt.Errorf("delivery terms must not be negative: %w", httpx.ErrValidation)
	}
	if store.Slug == "" {
		store.Slug = shared.Slugify(store.Name)
	}
	return nil
}

// Store mutations invalidate widely: the directory listings, the homepage
// via its area and store tags, and product pages, which embed store
// resolvability.
func (s *Service) recordAndBust(ctx context.Context, action string, id int64) {
	_ = s.audit.Record(ctx, audit.Entry{
		Actor:    "admin",
		Action:   action,
		Entity:   "store",
		EntityID: strconv.FormatInt(id, 10),
	})
	if err := s.cache.InvalidateTags(ctx, cache.TagStores, cache.TagAreas, cache.TagProducts); err != nil {
		s.logger.Error("store cache invalidation failed", slog.String("action", action), slog.Any("error", err))
	}
}
