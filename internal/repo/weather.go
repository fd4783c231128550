package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// weatherSortFields is the fixed sort vocabulary for snapshot lists.
var weatherSortFields = map[string]sortField{
	"fetched_at": {column: "s.fetched_at", typ: colTime},
}

// WeatherRepo defines the persistence operations for weather snapshots and
// their hourly children. Ownership is transitive through the parent trip.
type WeatherRepo interface {
	// Create inserts a snapshot together with its hours and returns the
	// persisted record with hours attached.
	Create(ctx context.Context, snap domain.WeatherSnapshot) (domain.WeatherSnapshot, error)

	// GetByID retrieves one snapshot with its hours.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.WeatherSnapshot, error)

	// ListByTrip returns one keyset page of a trip's snapshots (without
	// hours) plus the next-page cursor.
	ListByTrip(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) ([]domain.WeatherSnapshot, *domain.Cursor, error)

	// Delete removes a snapshot; its hours go with it via the FK cascade.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Current resolves the trip's "current weather": the most recent manual
	// snapshot if any exists, otherwise the most recent api snapshot,
	// otherwise nil. Manual wins regardless of recency. Hours are attached.
	Current(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.WeatherSnapshot, error)
}

// pgWeatherRepo is the Postgres implementation of WeatherRepo.
type pgWeatherRepo struct {
	db db
}

// NewWeatherRepo constructs a WeatherRepo backed by the provided db connection.
func NewWeatherRepo(db db) WeatherRepo {
	return &pgWeatherRepo{db: db}
}

const snapshotCols = `s.id, s.trip_id, s.source, s.fetched_at, s.period_start, s.period_end, s.created_at`

// ownedSnapshot joins snapshots to their parent trip for ownership scoping.
const ownedSnapshot = `weather_snapshots s JOIN trips t ON t.id = s.trip_id
		AND t.owner_id = @owner_id AND t.deleted_at IS NULL`

func (r *pgWeatherRepo) Create(ctx context.Context, snap domain.WeatherSnapshot) (domain.WeatherSnapshot, error) {
	const q = `
		INSERT INTO weather_snapshots (trip_id, source, fetched_at, period_start, period_end)
		VALUES (@trip_id, @source, @fetched_at, @period_start, @period_end)
		RETURNING id, trip_id, source, fetched_at, period_start, period_end, created_at`

	created, err := scanSnapshot(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":      snap.TripID,
		"source":       snap.Source,
		"fetched_at":   snap.FetchedAt,
		"period_start": snap.PeriodStart,
		"period_end":   snap.PeriodEnd,
	}))
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("repo.WeatherRepo.Create: %w", mapError(err, "trip not found"))
	}

	if len(snap.Hours) > 0 {
		if err := r.insertHours(ctx, created.ID, snap.Hours); err != nil {
			// The snapshot row must not survive without its hours; remove it
			// before surfacing the failure.
			_, _ = r.db.Exec(ctx, `DELETE FROM weather_snapshots WHERE id = @id`, pgx.NamedArgs{"id": created.ID})
			return domain.WeatherSnapshot{}, fmt.Errorf("repo.WeatherRepo.Create: %w", err)
		}
		hours, err := r.hoursFor(ctx, created.ID)
		if err != nil {
			return domain.WeatherSnapshot{}, fmt.Errorf("repo.WeatherRepo.Create: %w", err)
		}
		created.Hours = hours
	}

	return created, nil
}

func (r *pgWeatherRepo) insertHours(ctx context.Context, snapshotID uuid.UUID, hours []domain.WeatherHour) error {
	const q = `
		INSERT INTO weather_hours (snapshot_id, observed_at, temp_c, wind_ms, pressure_hpa, humidity_pct, precip_mm)
		SELECT * FROM unnest(@snapshot_ids::uuid[], @observed::timestamptz[], @temps::float8[],
			@winds::float8[], @pressures::float8[], @humidities::int[], @precips::float8[])`

	n := len(hours)
	snapshotIDs := make([]uuid.UUID, n)
	observed := make([]time.Time, n)
	temps := make([]*float64, n)
	winds := make([]*float64, n)
	pressures := make([]*float64, n)
	humidities := make([]*int, n)
	precips := make([]*float64, n)
	for i, h := range hours {
		snapshotIDs[i] = snapshotID
		observed[i] = h.ObservedAt
		temps[i] = h.TempC
		winds[i] = h.WindMS
		pressures[i] = h.PressureHPA
		humidities[i] = h.HumidityPct
		precips[i] = h.PrecipMM
	}

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"snapshot_ids": snapshotIDs,
		"observed":     observed,
		"temps":        temps,
		"winds":        winds,
		"pressures":    pressures,
		"humidities":   humidities,
		"precips":      precips,
	})
	return mapError(err, "snapshot not found")
}

func (r *pgWeatherRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.WeatherSnapshot, error) {
	const q = `
		SELECT ` + snapshotCols + `
		FROM ` + ownedSnapshot + `
		WHERE s.id = @id`

	snap, err := scanSnapshot(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("repo.WeatherRepo.GetByID: %w", mapError(err, "snapshot not found"))
	}

	hours, err := r.hoursFor(ctx, snap.ID)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("repo.WeatherRepo.GetByID: %w", err)
	}
	snap.Hours = hours
	return snap, nil
}

func (r *pgWeatherRepo) ListByTrip(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) ([]domain.WeatherSnapshot, *domain.Cursor, error) {
	sort, ok := weatherSortFields[p.Sort]
	if !ok {
		return nil, nil, fmt.Errorf("repo.WeatherRepo.ListByTrip: %w", domain.Validationf("unknown sort field %q", p.Sort))
	}

	q := newListQuery(snapshotCols, ownedSnapshot).tieBreak("s.id").
		and("s.trip_id = @trip_id").arg("trip_id", tripID).
		arg("owner_id", ownerID).
		paginate(p, sort)

	sql, args, err := q.SQL()
	if err != nil {
		return nil, nil, fmt.Errorf("repo.WeatherRepo.ListByTrip: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.WeatherRepo.ListByTrip: %w", mapError(err, "trip not found"))
	}
	defer rows.Close()

	var snaps []domain.WeatherSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.WeatherRepo.ListByTrip: scan: %w", mapError(err, "trip not found"))
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("repo.WeatherRepo.ListByTrip: rows: %w", mapError(err, "trip not found"))
	}

	paged, next := pageRows(snaps, p.Limit, func(s domain.WeatherSnapshot) domain.Cursor {
		return domain.Cursor{SortValue: formatSortTime(s.FetchedAt), ID: s.ID}
	})
	return paged, next, nil
}

func (r *pgWeatherRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `
		DELETE FROM weather_snapshots s
		USING trips t
		WHERE s.id = @id AND t.id = s.trip_id
		  AND t.owner_id = @owner_id AND t.deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.WeatherRepo.Delete: %w", mapError(err, "snapshot not found"))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.WeatherRepo.Delete: %w", domain.NotFoundf("snapshot not found"))
	}
	return nil
}

func (r *pgWeatherRepo) Current(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.WeatherSnapshot, error) {
	// Manual always wins over api regardless of recency; within a source,
	// newest fetched_at wins with id as an arbitrary-but-deterministic
	// tie-break for identical timestamps.
	const q = `
		SELECT ` + snapshotCols + `
		FROM ` + ownedSnapshot + `
		WHERE s.trip_id = @trip_id
		ORDER BY (s.source = 'manual') DESC, s.fetched_at DESC, s.id DESC
		LIMIT 1`

	snap, err := scanSnapshot(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "owner_id": ownerID}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no snapshots at all
		}
		return nil, fmt.Errorf("repo.WeatherRepo.Current: %w", mapError(err, "snapshot not found"))
	}

	hours, err := r.hoursFor(ctx, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("repo.WeatherRepo.Current: %w", err)
	}
	snap.Hours = hours
	return &snap, nil
}

func (r *pgWeatherRepo) hoursFor(ctx context.Context, snapshotID uuid.UUID) ([]domain.WeatherHour, error) {
	const q = `
		SELECT id, snapshot_id, observed_at, temp_c, wind_ms, pressure_hpa, humidity_pct, precip_mm
		FROM weather_hours
		WHERE snapshot_id = @snapshot_id
		ORDER BY observed_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"snapshot_id": snapshotID})
	if err != nil {
		return nil, mapError(err, "snapshot not found")
	}
	defer rows.Close()

	var hours []domain.WeatherHour
	for rows.Next() {
		h, err := scanHour(rows)
		if err != nil {
			return nil, mapError(err, "snapshot not found")
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "snapshot not found")
	}
	return hours, nil
}

func scanSnapshot(s scanner) (domain.WeatherSnapshot, error) {
	var (
		snap     domain.WeatherSnapshot
		id, trip pgtype.UUID
	)

	err := s.Scan(&id, &trip, &snap.Source, &snap.FetchedAt,
		&snap.PeriodStart, &snap.PeriodEnd, &snap.CreatedAt)
	if err != nil {
		return domain.WeatherSnapshot{}, err
	}

	snap.ID = uuid.UUID(id.Bytes)
	snap.TripID = uuid.UUID(trip.Bytes)
	return snap, nil
}

func scanHour(s scanner) (domain.WeatherHour, error) {
	var (
		h        domain.WeatherHour
		id, snap pgtype.UUID
		temp     pgtype.Float8
		wind     pgtype.Float8
		pressure pgtype.Float8
		humidity pgtype.Int4
		precip   pgtype.Float8
	)

	err := s.Scan(&id, &snap, &h.ObservedAt, &temp, &wind, &pressure, &humidity, &precip)
	if err != nil {
		return domain.WeatherHour{}, err
	}

	h.ID = uuid.UUID(id.Bytes)
	h.SnapshotID = uuid.UUID(snap.Bytes)
	if temp.Valid {
		h.TempC = &temp.Float64
	}
	if wind.Valid {
		h.WindMS = &wind.Float64
	}
	if pressure.Valid {
		h.PressureHPA = &pressure.Float64
	}
	if humidity.Valid {
		v := int(humidity.Int32)
		h.HumidityPct = &v
	}
	if precip.Valid {
		h.PrecipMM = &precip.Float64
	}
	return h, nil
}
