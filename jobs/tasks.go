package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogWarmup pre-populates the hot storefront cache entries.
	TaskCatalogWarmup = "catalog:warmup"
)

// WarmupScope names a cache surface the warmup task should touch.
type WarmupScope string

const (
	ScopeAreas  WarmupScope = "areas"
	ScopeStores WarmupScope = "stores"
	ScopeHome   WarmupScope = "home"
)

// CatalogWarmupPayload selects which surfaces to warm. Empty means all.
type CatalogWarmupPayload struct {
	Scopes []WarmupScope `json:"scopes,omitempty"`
}

// NewCatalogWarmupTask constructs an Asynq task.
func NewCatalogWarmupTask(payload CatalogWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, data), nil
}
