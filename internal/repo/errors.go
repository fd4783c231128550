package repo

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// mapError classifies a raw store error into the closed domain taxonomy.
// Every repo method passes its errors through here; no call site matches
// SQLSTATE codes or pgx sentinels itself.
//
// notFound is the end-user-safe message used when the error is a missing-row
// signal; the repo is the layer that knows what was being looked up.
func mapError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if de, ok := domain.AsError(err); ok {
		return de
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundf("%s", notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "trip_equipment") {
				return domain.Conflictf("equipment is already assigned to this trip")
			}
			return domain.Conflictf("duplicate value violates a uniqueness constraint")
		case "23503": // foreign_key_violation
			return domain.NotFoundf("%s", notFound)
		case "23514": // check_violation
			return domain.Validationf("input violates a data constraint")
		}
	}

	return domain.Internal("database error", err)
}
