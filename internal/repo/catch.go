package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// catchSortFields is the fixed sort vocabulary for catch lists.
// weight_grams is nullable, so it sorts on COALESCE: a bare NULL makes the
// keyset comparison unknown and rows would vanish at page boundaries.
// catchSortValue renders a NULL weight as 0 to match.
var catchSortFields = map[string]sortField{
	"caught_at":    {column: "c.caught_at", typ: colTime},
	"created_at":   {column: "c.created_at", typ: colTime},
	"weight_grams": {column: "COALESCE(c.weight_grams, 0)", typ: colInt},
}

// CatchRepo defines the persistence operations for Catches.
// Ownership is transitive through the parent trip, so every method that takes
// an ownerID joins against trips to enforce it; a catch under another user's
// trip (or a soft-deleted trip) is indistinguishable from a missing one.
type CatchRepo interface {
	// Create inserts a new catch and returns the persisted record.
	Create(ctx context.Context, c domain.Catch) (domain.Catch, error)

	// GetByID retrieves a single catch visible to the owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error)

	// ListByTrip returns one keyset page of a trip's catches plus the cursor
	// for the next page (nil on the final page).
	ListByTrip(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) ([]domain.Catch, *domain.Cursor, error)

	// ListAllByTrip returns every catch of a trip ordered by caught_at
	// ascending. Used by trip detail includes and the export.
	ListAllByTrip(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Catch, error)

	// Update overwrites the mutable fields of a catch and returns the
	// updated record.
	Update(ctx context.Context, ownerID uuid.UUID, c domain.Catch) (domain.Catch, error)

	// Delete hard-deletes a catch. Catches have no soft delete.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// SetPhotoPath links (or, with nil, unlinks) the photo path on a catch.
	// It is the photo pipeline's link step.
	SetPhotoPath(ctx context.Context, ownerID, id uuid.UUID, path *string) error
}

// pgCatchRepo is the Postgres implementation of CatchRepo.
type pgCatchRepo struct {
	db db
}

// NewCatchRepo constructs a CatchRepo backed by the provided db connection.
func NewCatchRepo(db db) CatchRepo {
	return &pgCatchRepo{db: db}
}

const catchCols = `c.id, c.trip_id, c.caught_at, c.species_id,
		c.lure_id, c.lure_name, c.groundbait_id, c.groundbait_name,
		c.weight_grams, c.length_mm, c.photo_path, c.created_at, c.updated_at`

// catchColsBare is catchCols without the alias, for INSERT ... RETURNING.
const catchColsBare = `id, trip_id, caught_at, species_id,
		lure_id, lure_name, groundbait_id, groundbait_name,
		weight_grams, length_mm, photo_path, created_at, updated_at`

// ownedCatch joins catches to their parent trip for ownership scoping.
const ownedCatch = `catches c JOIN trips t ON t.id = c.trip_id
		AND t.owner_id = @owner_id AND t.deleted_at IS NULL`

func (r *pgCatchRepo) Create(ctx context.Context, c domain.Catch) (domain.Catch, error) {
	const q = `
		INSERT INTO catches (trip_id, caught_at, species_id, lure_id, lure_name,
			groundbait_id, groundbait_name, weight_grams, length_mm)
		VALUES (@trip_id, @caught_at, @species_id, @lure_id, @lure_name,
			@groundbait_id, @groundbait_name, @weight_grams, @length_mm)
		RETURNING ` + catchColsBare

	args := pgx.NamedArgs{
		"trip_id":         c.TripID,
		"caught_at":       c.CaughtAt,
		"species_id":      c.SpeciesID,
		"lure_id":         c.LureID,
		"lure_name":       c.LureName,
		"groundbait_id":   c.GroundbaitID,
		"groundbait_name": c.GroundbaitName,
		"weight_grams":    c.WeightGrams,
		"length_mm":       c.LengthMM,
	}

	result, err := scanCatch(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Catch{}, fmt.Errorf("repo.CatchRepo.Create: %w", mapError(err, "catch not found"))
	}
	return result, nil
}

func (r *pgCatchRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error) {
	const q = `
		SELECT ` + catchCols + `
		FROM ` + ownedCatch + `
		WHERE c.id = @id`

	result, err := scanCatch(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.Catch{}, fmt.Errorf("repo.CatchRepo.GetByID: %w", mapError(err, "catch not found"))
	}
	return result, nil
}

func (r *pgCatchRepo) ListByTrip(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) ([]domain.Catch, *domain.Cursor, error) {
	sort, ok := catchSortFields[p.Sort]
	if !ok {
		return nil, nil, fmt.Errorf("repo.CatchRepo.ListByTrip: %w", domain.Validationf("unknown sort field %q", p.Sort))
	}

	q := newListQuery(catchCols, ownedCatch).tieBreak("c.id").
		and("c.trip_id = @trip_id").arg("trip_id", tripID).
		arg("owner_id", ownerID).
		paginate(p, sort)

	if filter.SpeciesID != nil {
		q.and("c.species_id = @species_id").arg("species_id", *filter.SpeciesID)
	}
	if filter.From != nil {
		q.and("c.caught_at >= @from").arg("from", *filter.From)
	}
	if filter.To != nil {
		q.and("c.caught_at <= @to").arg("to", *filter.To)
	}

	sql, args, err := q.SQL()
	if err != nil {
		return nil, nil, fmt.Errorf("repo.CatchRepo.ListByTrip: %w", err)
	}

	catches, err := r.queryCatches(ctx, sql, args)
	if err != nil {
		return nil, nil, fmt.Errorf("repo.CatchRepo.ListByTrip: %w", err)
	}

	paged, next := pageRows(catches, p.Limit, func(c domain.Catch) domain.Cursor {
		return domain.Cursor{SortValue: catchSortValue(c, p.Sort), ID: c.ID}
	})
	return paged, next, nil
}

func (r *pgCatchRepo) ListAllByTrip(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Catch, error) {
	const q = `
		SELECT ` + catchCols + `
		FROM ` + ownedCatch + `
		WHERE c.trip_id = @trip_id
		ORDER BY c.caught_at ASC, c.id ASC`

	catches, err := r.queryCatches(ctx, q, pgx.NamedArgs{"trip_id": tripID, "owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.CatchRepo.ListAllByTrip: %w", err)
	}
	return catches, nil
}

func (r *pgCatchRepo) Update(ctx context.Context, ownerID uuid.UUID, c domain.Catch) (domain.Catch, error) {
	const q = `
		UPDATE catches c
		SET caught_at       = @caught_at,
		    species_id      = @species_id,
		    lure_id         = @lure_id,
		    lure_name       = @lure_name,
		    groundbait_id   = @groundbait_id,
		    groundbait_name = @groundbait_name,
		    weight_grams    = @weight_grams,
		    length_mm       = @length_mm,
		    updated_at      = now()
		FROM trips t
		WHERE c.id = @id AND t.id = c.trip_id
		  AND t.owner_id = @owner_id AND t.deleted_at IS NULL
		RETURNING ` + catchCols

	args := pgx.NamedArgs{
		"id":              c.ID,
		"owner_id":        ownerID,
		"caught_at":       c.CaughtAt,
		"species_id":      c.SpeciesID,
		"lure_id":         c.LureID,
		"lure_name":       c.LureName,
		"groundbait_id":   c.GroundbaitID,
		"groundbait_name": c.GroundbaitName,
		"weight_grams":    c.WeightGrams,
		"length_mm":       c.LengthMM,
	}

	result, err := scanCatch(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Catch{}, fmt.Errorf("repo.CatchRepo.Update: %w", mapError(err, "catch not found"))
	}
	return result, nil
}

func (r *pgCatchRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `
		DELETE FROM catches c
		USING trips t
		WHERE c.id = @id AND t.id = c.trip_id
		  AND t.owner_id = @owner_id AND t.deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.CatchRepo.Delete: %w", mapError(err, "catch not found"))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CatchRepo.Delete: %w", domain.NotFoundf("catch not found"))
	}
	return nil
}

func (r *pgCatchRepo) SetPhotoPath(ctx context.Context, ownerID, id uuid.UUID, path *string) error {
	const q = `
		UPDATE catches c
		SET photo_path = @path, updated_at = now()
		FROM trips t
		WHERE c.id = @id AND t.id = c.trip_id
		  AND t.owner_id = @owner_id AND t.deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID, "path": path})
	if err != nil {
		return fmt.Errorf("repo.CatchRepo.SetPhotoPath: %w", mapError(err, "catch not found"))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CatchRepo.SetPhotoPath: %w", domain.NotFoundf("catch not found"))
	}
	return nil
}

func (r *pgCatchRepo) queryCatches(ctx context.Context, sql string, args pgx.NamedArgs) ([]domain.Catch, error) {
	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, mapError(err, "catch not found")
	}
	defer rows.Close()

	var catches []domain.Catch
	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, mapError(err, "catch not found")
		}
		catches = append(catches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "catch not found")
	}
	return catches, nil
}

// catchSortValue renders the cursor sort value for a catch row under the
// given sort field. Must stay in lockstep with catchSortFields.
func catchSortValue(c domain.Catch, sort string) string {
	switch sort {
	case "created_at":
		return formatSortTime(c.CreatedAt)
	case "weight_grams":
		w := 0
		if c.WeightGrams != nil {
			w = *c.WeightGrams
		}
		return fmt.Sprintf("%d", w)
	default:
		return formatSortTime(c.CaughtAt)
	}
}

// scanCatch maps a single database row into a domain.Catch.
func scanCatch(s scanner) (domain.Catch, error) {
	var (
		c              domain.Catch
		id, tripID     pgtype.UUID
		speciesID      pgtype.UUID
		lureID         pgtype.UUID
		lureName       pgtype.Text
		groundbaitID   pgtype.UUID
		groundbaitName pgtype.Text
		weight, length pgtype.Int4
		photoPath      pgtype.Text
	)

	err := s.Scan(&id, &tripID, &c.CaughtAt, &speciesID,
		&lureID, &lureName, &groundbaitID, &groundbaitName,
		&weight, &length, &photoPath, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Catch{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.TripID = uuid.UUID(tripID.Bytes)
	c.SpeciesID = uuid.UUID(speciesID.Bytes)
	if lureID.Valid {
		v := uuid.UUID(lureID.Bytes)
		c.LureID = &v
	}
	if lureName.Valid {
		c.LureName = &lureName.String
	}
	if groundbaitID.Valid {
		v := uuid.UUID(groundbaitID.Bytes)
		c.GroundbaitID = &v
	}
	if groundbaitName.Valid {
		c.GroundbaitName = &groundbaitName.String
	}
	if weight.Valid {
		v := int(weight.Int32)
		c.WeightGrams = &v
	}
	if length.Valid {
		v := int(length.Int32)
		c.LengthMM = &v
	}
	if photoPath.Valid {
		c.PhotoPath = &photoPath.String
	}

	return c, nil
}
