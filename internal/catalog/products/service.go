package products

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
	"github.com/mercato-app/mercato/internal/catalog/shared"
)

// StoreResolver locates resolvable (active) stores. Implemented by the
// directory's store service; suspended, pending and closed stores report
// not-found rather than a server error.
type StoreResolver interface {
	ActiveStoreID(ctx context.Context, slug string) (int64, error)
}

// Service is the catalog's admin mutation gateway and storefront read path.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Store
	stores StoreResolver
	audit  *audit.Recorder
}

func NewService(logger *slog.Logger, repo Repository, cacheStore *cache.Store, stores StoreResolver, recorder *audit.Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, cache: cacheStore, stores: stores, audit: recorder}
}

// ListStorefront serves one page of a store's effective catalog, cached per
// resolved query under the products resource class.
func (s *Service) ListStorefront(ctx context.Context, storeSlug string, q PageQuery) (Page, error) {
	storeID, err := s.stores.ActiveStoreID(ctx, storeSlug)
	if err != nil {
		return Page{}, err
	}
	q.StoreID = storeID
	if err := q.Normalize(); err != nil {
		return Page{}, err
	}

	path := "/api/stores/" + storeSlug + "/products"
	var page Page
	err = s.cache.Fetch(ctx, cache.ClassProducts, q.CacheKey(), path, &page, func(ctx context.Context) (any, error) {
		items, total, err := s.repo.ListEffective(ctx, q)
		if err != nil {
			return nil, err
		}
		return NewPage(items, q.Cursor, q.PageSize, total), nil
	})
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// ListGlobal lists global products for the admin surface (uncached).
func (s *Service) ListGlobal(ctx context.Context, filters AdminListFilters) ([]GlobalProduct, int, error) {
	return s.repo.ListGlobal(ctx, filters)
}

func (s *Service) GetGlobal(ctx context.Context, id int64) (GlobalProduct, error) {
	return s.repo.GetGlobal(ctx, id)
}

func (s *Service) CreateGlobal(ctx context.Context, p GlobalProduct) (GlobalProduct, error) {
	if err := validateGlobal(p); err != nil {
		return GlobalProduct{}, err
	}
	if p.Slug == "" {
		p.Slug = shared.Slugify(p.Name)
	}
	created, err := s.repo.CreateGlobal(ctx, p)
	if err != nil {
		return GlobalProduct{}, err
	}
	s.recordAndBust(ctx, "product.create", "global_product", created.ID)
	return created, nil
}

func (s *Service) UpdateGlobal(ctx context.Context, id int64, p GlobalProduct) error {
	if err := validateGlobal(p); err != nil {
		return err
	}
	if p.Slug == "" {
		p.Slug = shared.Slugify(p.Name)
	}
	if err := s.repo.UpdateGlobal(ctx, id, p); err != nil {
		return err
	}
	s.recordAndBust(ctx, "product.update", "global_product", id)
	return nil
}

func (s *Service) DeleteGlobal(ctx context.Context, id int64) error {
	if err := s.repo.DeleteGlobal(ctx, id); err != nil {
		return err
	}
	s.recordAndBust(ctx, "product.delete", "global_product", id)
	return nil
}

// ListStoreProducts lists a store's rows for the admin surface.
func (s *Service) ListStoreProducts(ctx context.Context, storeID int64, page, limit int) ([]StoreProduct, int, error) {
	return s.repo.ListStoreProducts(ctx, storeID, page, limit)
}

func (s *Service) GetStoreProduct(ctx context.Context, id int64) (StoreProduct, error) {
	return s.repo.GetStoreProduct(ctx, id)
}

func (s *Service) CreateStoreProduct(ctx context.Context, sp StoreProduct) (StoreProduct, error) {
	if err := validateStoreProduct(&sp); err != nil {
		return StoreProduct{}, err
	}
	created, err := s.repo.CreateStoreProduct(ctx, sp)
	if err != nil {
		return StoreProduct{}, err
	}
	s.recordAndBust(ctx, "store_product.create", "store_product", created.ID)
	return created, nil
}

func (s *Service) UpdateStoreProduct(ctx context.Context, id int64, sp StoreProduct) error {
	if err := validateStoreProduct(&sp); err != nil {
		return err
	}
	if err := s.repo.UpdateStoreProduct(ctx, id, sp); err != nil {
		return err
	}
	s.recordAndBust(ctx, "store_product.update", "store_product", id)
	return nil
}

func (s *Service) DeleteStoreProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStoreProduct(ctx, id); err != nil {
		return err
	}
	s.recordAndBust(ctx, "store_product.delete", "store_product", id)
	return nil
}

// recordAndBust audits a successful mutation and invalidates every tag that
// could leave a cached product page stale. Brand and category mutations feed
// through here too since they affect product display.
func (s *Service) recordAndBust(ctx context.Context, action, entity string, id int64) {
	_ = s.audit.Record(ctx, audit.Entry{
		Actor:    "admin",
		Action:   action,
		Entity:   entity,
		EntityID: strconv.FormatInt(id, 10),
	})
	if err := s.cache.InvalidateTags(ctx, cache.TagProducts); err != nil {
		s.logger.Error("product cache invalidation failed", slog.String("action", action), slog.Any("error", err))
	}
}
