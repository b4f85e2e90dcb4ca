package shared

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mercato-app/mercato/internal/platform/httpx"
)

// SQLSTATE classes surfaced as domain errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// MapWriteError translates storage-layer write failures into domain errors:
// foreign-key violations become conflicts ("cannot delete: referenced by
// other records"), unique violations become duplicates. Anything else is
// wrapped and propagated as-is.
func MapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, httpx.ErrConflict)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, httpx.ErrDuplicate)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
