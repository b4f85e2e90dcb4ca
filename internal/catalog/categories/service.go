package categories

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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Category, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 50
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	return s.repo.Get(ctx, id)
}

// Create places the node in the tree. Depth and path derive from the parent;
// client-supplied values are ignored.
func (s *Service) Create(ctx context.Context, c Category) (Category, error) {
	if err := s.position(ctx, &c, 0); err != nil {
		return Category{}, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Category{}, err
	}
	s.recordAndBust(ctx, "category.create", created.ID)
	return created, nil
}

// Update renames or moves the node. Moving a node under itself or one of its
// descendants is rejected.
func (s *Service) Update(ctx context.Context, id int64, c Category) error {
	if err := s.position(ctx, &c, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, c); err != nil {
		return err
	}
	s.recordAndBust(ctx, "category.update", id)
	return nil
}

// Delete removes a leaf node. Nodes still referenced by children or products
// surface as conflicts via the storage layer's RESTRICT constraints.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAndBust(ctx, "category.delete", id)
	return nil
}

// position validates the node and computes depth and the parent path prefix.
// A zero id means the node does not exist yet and cycle checks are skipped.
func (s *Service) position(ctx context.Context, c *Category, id int64) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required: %w", httpx.ErrValidation)
	}
	if c.Slug == "" {
		c.Slug = shared.Slugify(c.Name)
	}

	if c.ParentID == nil {
		c.Path = ""
		c.Depth = 0
		return nil
	}
	if id != 0 && *c.ParentID == id {
		return fmt.Errorf("category cannot be its own parent: %w", httpx.ErrValidation)
	}

	parent, err := s.repo.Get(ctx, *c.ParentID)
	if err != nil {
		return fmt.Errorf("parent category: %w", err)
	}
	if id != 0 && pathContainsSegment(parent.Path, id) {
		return fmt.Errorf("category cannot move under its own descendant: %w", httpx.ErrValidation)
	}

	c.Path = parent.Path
	c.Depth = parent.Depth + 1
	return nil
}

func pathContainsSegment(path string, id int64) bool {
	want := strconv.FormatInt(id, 10)
	for _, segment := range strings.Split(path, "/") {
		if segment == want {
			return true
		}
	}
	return false
}

func (s *Service) recordAndBust(ctx context.Context, action string, id int64) {
	_ = s.audit.Record(ctx, audit.Entry{
		Actor:    "admin",
		Action:   action,
		Entity:   "category",
		EntityID: strconv.FormatInt(id, 10),
	})
	if err := s.cache.InvalidateTags(ctx, cache.TagProducts); err != nil {
		s.logger.Error("category cache invalidation failed", slog.String("action", action), slog.Any("error", err))
	}
}
