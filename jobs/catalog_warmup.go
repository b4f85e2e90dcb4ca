package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mercato-app/mercato/internal/directory/areas"
	"github.com/mercato-app/mercato/internal/directory/stores"
	jobmetrics "github.com/mercato-app/mercato/internal/jobs"
)

// CatalogWarmupJob refreshes the hot directory cache entries so shoppers
// rarely hit a cold cache after invalidation or TTL expiry.
type CatalogWarmupJob struct {
	Logger  *slog.Logger
	Areas   *areas.Service
	Stores  *stores.Service
	Metrics *jobmetrics.Metrics
}

// NewCatalogWarmupJob initialises the warmup handler.
func NewCatalogWarmupJob(logger *slog.Logger, areaService *areas.Service, storeService *stores.Service, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	return &CatalogWarmupJob{Logger: logger, Areas: areaService, Stores: storeService, Metrics: metrics}
}

// Handle executes the warmup: each scope goes through the same service read
// path shoppers use, which populates the cache as a side effect.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Areas == nil || j.Stores == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload CatalogWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if len(payload.Scopes) == 0 {
		payload.Scopes = []WarmupScope{ScopeAreas, ScopeStores, ScopeHome}
	}

	tracker := j.Metrics.Track(TaskCatalogWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	for _, scope := range payload.Scopes {
		var err error
		switch scope {
		case ScopeAreas:
			_, err = j.Areas.ListPublic(ctx)
		case ScopeStores:
			_, err = j.Stores.ListPublic(ctx, nil)
		case ScopeHome:
			_, err = j.Stores.Home(ctx)
		default:
			j.logger().Warn("unknown warmup scope", slog.String("scope", string(scope)))
			continue
		}
		if err != nil {
			j.logger().Error("warmup scope failed", slog.String("scope", string(scope)), slog.Any("error", err))
			resultErr = err
		}
	}
	return resultErr
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
