package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Invalidation tags. Every admin mutation names the tags it makes stale.
const (
	TagProducts = "products"
	TagStores   = "stores"
	TagAreas    = "areas"
	TagOrders   = "orders"
)

// Class describes a cacheable resource class: its key namespace, freshness
// window and the tags its entries are bound to.
type Class struct {
	Name string
	TTL  time.Duration
	Tags []string
}

var (
	// ClassAreas covers the area listing.
	ClassAreas = Class{Name: "areas", TTL: time.Hour, Tags: []string{TagAreas}}
	// ClassStores covers store listings, including area-filtered ones.
	ClassStores = Class{Name: "stores", TTL: 30 * time.Minute, Tags: []string{TagStores, TagAreas}}
	// ClassStore covers a single store looked up by slug.
	ClassStore = Class{Name: "store", TTL: 10 * time.Minute, Tags: []string{TagStores}}
	// ClassProducts covers paginated storefront product pages.
	ClassProducts = Class{Name: "products", TTL: 5 * time.Minute, Tags: []string{TagProducts, TagStores}}
	// ClassHome covers the composed homepage payload.
	ClassHome = Class{Name: "home", TTL: time.Hour, Tags: []string{TagAreas, TagStores}}
)

// Tag set membership outlives entry TTLs so invalidation still finds live
// keys; expired members just make DEL a no-op.
const bindingTTL = 24 * time.Hour

var tagPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidTag reports whether a tag name is allow-listed.
func ValidTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

// Store is the process-wide cache front. Entries are immutable once written;
// staleness is handled by TTL expiry or tag/path invalidation, never by
// in-place mutation. Any cache-side failure falls through to the loader so a
// broken Redis degrades reads instead of failing them.
type Store struct {
	client  *redis.Client
	logger  *slog.Logger
	metrics *Metrics
	group   singleflight.Group
}

// NewStore constructs the cache front.
func NewStore(client *redis.Client, logger *slog.Logger, metrics *Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger, metrics: metrics}
}

func entryKey(class Class, key string) string {
	return fmt.Sprintf("mercato:%s:%s", class.Name, key)
}

func tagKey(tag string) string {
	return "mercato:tag:" + tag
}

func pathKey(path string) string {
	return "mercato:path:" + path
}

// Fetch returns the cached value for (class, key) when fresh, otherwise runs
// loader once (deduplicated across concurrent callers), stores the result
// bound to the class's tags and the optional request path, and returns it.
// The loader's result round-trips through JSON into dest either way.
func (s *Store) Fetch(ctx context.Context, class Class, key, path string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if s == nil || s.client == nil {
		return loadInto(ctx, dest, loader)
	}

	full := entryKey(class, key)
	payload, err := s.client.Get(ctx, full).Bytes()
	if err == nil {
		s.metrics.Hit(class.Name)
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		// Cache-store failure must never block a read.
		s.metrics.FallThrough(class.Name)
		s.logger.Warn("cache read failed, serving uncached", slog.String("key", full), slog.Any("error", err))
		return loadInto(ctx, dest, loader)
	}

	s.metrics.Miss(class.Name)
	raw, err, _ := s.singleLoad(ctx, full, loader)
	if err != nil {
		return err
	}
	if err := s.write(ctx, class, full, path, raw); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", full), slog.Any("error", err))
	}
	return json.Unmarshal(raw, dest)
}

func (s *Store) singleLoad(ctx context.Context, full string, loader func(context.Context) (any, error)) ([]byte, error, bool) {
	resultChan := s.group.DoChan(full, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err, res.Shared
		}
		return res.Val.([]byte), nil, res.Shared
	}
}

func (s *Store) write(ctx context.Context, class Class, full, path string, raw []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, full, raw, class.TTL)
	for _, tag := range class.Tags {
		pipe.SAdd(ctx, tagKey(tag), full)
		pipe.Expire(ctx, tagKey(tag), bindingTTL)
	}
	if path != "" {
		pipe.SAdd(ctx, pathKey(path), full)
		pipe.Expire(ctx, pathKey(path), bindingTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateTag discards every entry bound to tag, regardless of remaining TTL.
func (s *Store) InvalidateTag(ctx context.Context, tag string) error {
	if !ValidTag(tag) {
		return fmt.Errorf("cache: invalid tag %q", tag)
	}
	return s.drain(ctx, tagKey(tag))
}

// InvalidateTags invalidates several tags, returning the first failure.
func (s *Store) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		if err := s.InvalidateTag(ctx, tag); err != nil {
			return err
		}
	}
	return nil
}

// InvalidatePath discards every entry recorded against a request path.
func (s *Store) InvalidatePath(ctx context.Context, path string) error {
	if path == "" || path[0] != '/' {
		return fmt.Errorf("cache: invalid path %q", path)
	}
	return s.drain(ctx, pathKey(path))
}

func (s *Store) drain(ctx context.Context, setKey string) error {
	if s == nil || s.client == nil {
		return nil
	}
	members, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("cache: read binding set: %w", err)
	}
	keys := append(members, setKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete entries: %w", err)
	}
	return nil
}

func loadInto(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
