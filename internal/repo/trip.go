package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// tripSortFields is the fixed sort vocabulary for trip lists.
var tripSortFields = map[string]sortField{
	"started_at": {column: "t.started_at", typ: colTime},
	"created_at": {column: "t.created_at", typ: colTime},
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
// All reads and writes are scoped by ownerID; rows owned by another user are
// indistinguishable from missing rows.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single non-deleted trip by its UUID primary key.
	// Returns a not_found domain error if no visible trip with that ID exists.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, error)

	// List returns one keyset page of the owner's trips, each carrying its
	// catch_count projection, plus the cursor for the next page (nil on the
	// final page).
	List(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) ([]domain.Trip, *domain.Cursor, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns not_found if no visible trip matches.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// SoftDelete stamps deleted_at on a trip. Idempotent calls on an already
	// soft-deleted trip return not_found, matching visibility rules.
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error

	// LatestByOwner returns the owner's most recent non-deleted trip,
	// excluding excludeID (the trip being created during an equipment copy).
	// Returns not_found when the owner has no other trips.
	LatestByOwner(ctx context.Context, ownerID, excludeID uuid.UUID) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripCols = `id, owner_id, title, status, started_at, ended_at,
		location_lat, location_lng, location_label, deleted_at, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, title, status, started_at, ended_at,
			location_lat, location_lng, location_label)
		VALUES (@owner_id, @title, @status, @started_at, @ended_at, @lat, @lng, @label)
		RETURNING ` + tripCols

	args := pgx.NamedArgs{
		"owner_id":   trip.OwnerID,
		"title":      trip.Title,
		"status":     trip.Status,
		"started_at": trip.StartedAt,
		"ended_at":   trip.EndedAt, // nil becomes NULL
		"lat":        nil,
		"lng":        nil,
		"label":      nil,
	}
	if trip.Location != nil {
		args["lat"] = trip.Location.Lat
		args["lng"] = trip.Location.Lng
		args["label"] = trip.Location.Label
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapError(err, "trip not found"))
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripCols + `
		FROM trips
		WHERE id = @id AND owner_id = @owner_id AND deleted_at IS NULL`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", mapError(err, "trip not found"))
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) ([]domain.Trip, *domain.Cursor, error) {
	sort, ok := tripSortFields[p.Sort]
	if !ok {
		return nil, nil, fmt.Errorf("repo.TripRepo.List: %w", domain.Validationf("unknown sort field %q", p.Sort))
	}

	// catch_count is a read-side projection: always consistent with the
	// current catch set, never a stored counter.
	q := newListQuery(
		`t.id, t.owner_id, t.title, t.status, t.started_at, t.ended_at,
		t.location_lat, t.location_lng, t.location_label, t.deleted_at,
		t.created_at, t.updated_at, count(c.id) AS catch_count`,
		`trips t LEFT JOIN catches c ON c.trip_id = t.id`,
	).tieBreak("t.id").
		and("t.owner_id = @owner_id").arg("owner_id", ownerID).
		paginate(p, sort)
	q.groupBy = "t.id"

	if !filter.IncludeDeleted {
		q.and("t.deleted_at IS NULL")
	}
	if filter.Status != nil {
		q.and("t.status = @status").arg("status", *filter.Status)
	}

	sql, args, err := q.SQL()
	if err != nil {
		return nil, nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.TripRepo.List: %w", mapError(err, "trip not found"))
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTripWithCount(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.TripRepo.List: scan: %w", mapError(err, "trip not found"))
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("repo.TripRepo.List: rows: %w", mapError(err, "trip not found"))
	}

	paged, next := pageRows(trips, p.Limit, func(t domain.Trip) domain.Cursor {
		return domain.Cursor{SortValue: tripSortValue(t, p.Sort), ID: t.ID}
	})
	return paged, next, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title          = @title,
		    status         = @status,
		    started_at     = @started_at,
		    ended_at       = @ended_at,
		    location_lat   = @lat,
		    location_lng   = @lng,
		    location_label = @label,
		    updated_at     = now()
		WHERE id = @id AND owner_id = @owner_id AND deleted_at IS NULL
		RETURNING ` + tripCols

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"owner_id":   trip.OwnerID,
		"title":      trip.Title,
		"status":     trip.Status,
		"started_at": trip.StartedAt,
		"ended_at":   trip.EndedAt,
		"lat":        nil,
		"lng":        nil,
		"label":      nil,
	}
	if trip.Location != nil {
		args["lat"] = trip.Location.Lat
		args["lng"] = trip.Location.Lng
		args["label"] = trip.Location.Label
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapError(err, "trip not found"))
	}
	return result, nil
}

func (r *pgTripRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `
		UPDATE trips
		SET deleted_at = now(), updated_at = now()
		WHERE id = @id AND owner_id = @owner_id AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.SoftDelete: %w", mapError(err, "trip not found"))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.SoftDelete: %w", domain.NotFoundf("trip not found"))
	}
	return nil
}

func (r *pgTripRepo) LatestByOwner(ctx context.Context, ownerID, excludeID uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripCols + `
		FROM trips
		WHERE owner_id = @owner_id AND id <> @exclude_id AND deleted_at IS NULL
		ORDER BY started_at DESC, id DESC
		LIMIT 1`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "exclude_id": excludeID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.LatestByOwner: %w", mapError(err, "no previous trip"))
	}
	return result, nil
}

// tripSortValue renders the cursor sort value for a trip row under the given
// sort field. Must stay in lockstep with tripSortFields.
func tripSortValue(t domain.Trip, sort string) string {
	switch sort {
	case "created_at":
		return formatSortTime(t.CreatedAt)
	default:
		return formatSortTime(t.StartedAt)
	}
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, nullable timestamp, and nullable location conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	return scanTripFields(s, nil)
}

// scanTripWithCount is scanTrip plus the catch_count aggregate column.
func scanTripWithCount(s scanner) (domain.Trip, error) {
	var count int64
	t, err := scanTripFields(s, &count)
	t.CatchCount = int(count)
	return t, err
}

func scanTripFields(s scanner, count *int64) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		ownerID   pgtype.UUID
		endedAt   pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
		lat       pgtype.Float8
		lng       pgtype.Float8
		label     pgtype.Text
	)

	dest := []any{&id, &ownerID, &t.Title, &t.Status, &t.StartedAt, &endedAt,
		&lat, &lng, &label, &deletedAt, &t.CreatedAt, &t.UpdatedAt}
	if count != nil {
		dest = append(dest, count)
	}

	if err := s.Scan(dest...); err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(ownerID.Bytes)
	if endedAt.Valid {
		v := endedAt.Time
		t.EndedAt = &v
	}
	if deletedAt.Valid {
		v := deletedAt.Time
		t.DeletedAt = &v
	}
	if lat.Valid && lng.Valid {
		t.Location = &domain.Location{Lat: lat.Float64, Lng: lng.Float64}
		if label.Valid {
			t.Location.Label = label.String
		}
	}

	return t, nil
}
