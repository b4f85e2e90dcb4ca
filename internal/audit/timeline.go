package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimelineRow is one recorded mutation, ready for admin review.
type TimelineRow struct {
	ID         uuid.UUID      `json:"id"`
	Actor      string         `json:"actor"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// TimelineFilters narrows the audit listing. Zero values mean "no filter".
type TimelineFilters struct {
	Entity   string
	Action   string
	Since    time.Time
	Page     int
	PageSize int
}

// Timeline lists recorded mutations, newest first. A nil Recorder serves an
// empty timeline.
func (r *Recorder) Timeline(ctx context.Context, filters TimelineFilters) ([]TimelineRow, int, error) {
	if r == nil || r.pool == nil {
		return []TimelineRow{}, 0, nil
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	conditions := []string{"1=1"}
	args := []any{}
	if filters.Entity != "" {
		args = append(args, filters.Entity)
		conditions = append(conditions, `entity = $`+strconv.Itoa(len(args)))
	}
	if filters.Action != "" {
		args = append(args, filters.Action)
		conditions = append(conditions, `action = $`+strconv.Itoa(len(args)))
	}
	if !filters.Since.IsZero() {
		args = append(args, filters.Since)
		conditions = append(conditions, `occurred_at >= $`+strconv.Itoa(len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)
	query := `SELECT id, actor, action, entity, entity_id, meta, occurred_at FROM audit_logs WHERE ` + where +
		` ORDER BY occurred_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []TimelineRow{}
	for rows.Next() {
		var row TimelineRow
		var meta []byte
		if err := rows.Scan(&row.ID, &row.Actor, &row.Action, &row.Entity, &row.EntityID, &meta, &row.OccurredAt); err != nil {
			return nil, 0, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &row.Meta); err != nil {
				return nil, 0, err
			}
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
