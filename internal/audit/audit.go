// Package audit records admin mutations for later review.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry represents a record stored in audit_logs.
type Entry struct {
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Recorder writes entries into audit_logs.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{pool: pool, logger: logger}
}

// Record persists the entry. A nil Recorder is a no-op so services can run
// without auditing in tests.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.pool == nil {
		return nil
	}
	if e.Action == "" || e.Entity == "" || e.EntityID == "" {
		return errors.New("audit: entry requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, actor, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), e.Actor, e.Action, e.Entity, e.EntityID, metaJSON, e.At)
	if err != nil {
		// Audit failures are reported but never fail the mutation itself.
		r.logger.Warn("audit record failed", slog.String("entity", e.Entity), slog.Any("error", err))
	}
	return nil
}
