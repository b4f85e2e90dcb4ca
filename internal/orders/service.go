package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mercato-app/mercato/internal/audit"
	"github.com/mercato-app/mercato/internal/cache"
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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 20
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, 0, fmt.Errorf("unknown order status %q: %w", *filters.Status, httpx.ErrValidation)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.Get(ctx, id)
}

// PatchStatus advances an order through its lifecycle. Illegal steps,
// including any move out of a terminal state, are validation errors.
func (s *Service) PatchStatus(ctx context.Context, id int64, next Status) (Order, error) {
	if !next.IsValid() {
		return Order{}, fmt.Errorf("unknown order status %q: %w", next, httpx.ErrValidation)
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !order.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("order cannot move from %s to %s: %w", order.Status, next, httpx.ErrValidation)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return Order{}, err
	}
	order.Status = next

	_ = s.audit.Record(ctx, audit.Entry{
		Actor:    "admin",
		Action:   "order.status." + string(next),
		Entity:   "order",
		EntityID: strconv.FormatInt(id, 10),
	})
	if err := s.cache.InvalidateTags(ctx, cache.TagOrders); err != nil {
		s.logger.Error("order cache invalidation failed", slog.Int64("order_id", id), slog.Any("error", err))
	}
	return order, nil
}
