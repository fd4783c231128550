package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// EquipmentRepo defines the persistence operations for equipment and the
// trip↔equipment junction sets. Equipment reads are deliberately unscoped:
// the reconciliation service needs to see rows owned by other users and
// soft-deleted rows in order to classify them into the right domain error.
type EquipmentRepo interface {
	// GetEquipment retrieves one equipment row, including soft-deleted ones.
	GetEquipment(ctx context.Context, id uuid.UUID) (domain.Equipment, error)

	// GetEquipmentBatch retrieves the given equipment rows keyed by id.
	// Missing ids are simply absent from the result.
	GetEquipmentBatch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Equipment, error)

	// ListAssignments returns a trip's assignment set for one kind, ordered
	// by created_at then id.
	ListAssignments(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind) ([]domain.Assignment, error)

	// ListAllAssignments returns all of a trip's assignments across kinds.
	ListAllAssignments(ctx context.Context, tripID uuid.UUID) ([]domain.Assignment, error)

	// InsertAssignments bulk-inserts assignment rows, preserving each row's
	// NameSnapshot verbatim. A duplicate (trip, equipment) pair maps to a
	// conflict domain error via the unique constraint.
	InsertAssignments(ctx context.Context, assignments []domain.Assignment) error

	// DeleteAssignments bulk-deletes the given equipment ids from a trip's
	// set for one kind and reports how many rows went away.
	DeleteAssignments(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind, equipmentIDs []uuid.UUID) (int64, error)
}

// pgEquipmentRepo is the Postgres implementation of EquipmentRepo.
type pgEquipmentRepo struct {
	db db
}

// NewEquipmentRepo constructs an EquipmentRepo backed by the provided db connection.
func NewEquipmentRepo(db db) EquipmentRepo {
	return &pgEquipmentRepo{db: db}
}

const equipmentCols = `id, owner_id, kind, name, deleted_at, created_at`

func (r *pgEquipmentRepo) GetEquipment(ctx context.Context, id uuid.UUID) (domain.Equipment, error) {
	const q = `
		SELECT ` + equipmentCols + `
		FROM equipment
		WHERE id = @id`

	result, err := scanEquipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("repo.EquipmentRepo.GetEquipment: %w", mapError(err, "equipment not found"))
	}
	return result, nil
}

func (r *pgEquipmentRepo) GetEquipmentBatch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Equipment, error) {
	result := make(map[uuid.UUID]domain.Equipment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const q = `
		SELECT ` + equipmentCols + `
		FROM equipment
		WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.EquipmentRepo.GetEquipmentBatch: %w", mapError(err, "equipment not found"))
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EquipmentRepo.GetEquipmentBatch: scan: %w", mapError(err, "equipment not found"))
		}
		result[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EquipmentRepo.GetEquipmentBatch: rows: %w", mapError(err, "equipment not found"))
	}

	return result, nil
}

const assignmentCols = `id, trip_id, equipment_id, kind, name_snapshot, created_at`

func (r *pgEquipmentRepo) ListAssignments(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind) ([]domain.Assignment, error) {
	const q = `
		SELECT ` + assignmentCols + `
		FROM trip_equipment
		WHERE trip_id = @trip_id AND kind = @kind
		ORDER BY created_at ASC, id ASC`

	assignments, err := r.queryAssignments(ctx, q, pgx.NamedArgs{"trip_id": tripID, "kind": kind})
	if err != nil {
		return nil, fmt.Errorf("repo.EquipmentRepo.ListAssignments: %w", err)
	}
	return assignments, nil
}

func (r *pgEquipmentRepo) ListAllAssignments(ctx context.Context, tripID uuid.UUID) ([]domain.Assignment, error) {
	const q = `
		SELECT ` + assignmentCols + `
		FROM trip_equipment
		WHERE trip_id = @trip_id
		ORDER BY kind ASC, created_at ASC, id ASC`

	assignments, err := r.queryAssignments(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.EquipmentRepo.ListAllAssignments: %w", err)
	}
	return assignments, nil
}

func (r *pgEquipmentRepo) InsertAssignments(ctx context.Context, assignments []domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	// One bulk insert via unnest keeps the write a single statement, so a
	// duplicate anywhere in the batch fails the whole batch atomically.
	const q = `
		INSERT INTO trip_equipment (trip_id, equipment_id, kind, name_snapshot)
		SELECT * FROM unnest(@trip_ids::uuid[], @equipment_ids::uuid[], @kinds::text[], @snapshots::text[])`

	tripIDs := make([]uuid.UUID, len(assignments))
	equipmentIDs := make([]uuid.UUID, len(assignments))
	kinds := make([]string, len(assignments))
	snapshots := make([]string, len(assignments))
	for i, a := range assignments {
		tripIDs[i] = a.TripID
		equipmentIDs[i] = a.EquipmentID
		kinds[i] = string(a.Kind)
		snapshots[i] = a.NameSnapshot
	}

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"trip_ids":      tripIDs,
		"equipment_ids": equipmentIDs,
		"kinds":         kinds,
		"snapshots":     snapshots,
	})
	if err != nil {
		return fmt.Errorf("repo.EquipmentRepo.InsertAssignments: %w", mapError(err, "trip not found"))
	}
	return nil
}

func (r *pgEquipmentRepo) DeleteAssignments(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind, equipmentIDs []uuid.UUID) (int64, error) {
	if len(equipmentIDs) == 0 {
		return 0, nil
	}

	const q = `
		DELETE FROM trip_equipment
		WHERE trip_id = @trip_id AND kind = @kind AND equipment_id = ANY(@equipment_ids)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"trip_id":       tripID,
		"kind":          kind,
		"equipment_ids": equipmentIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("repo.EquipmentRepo.DeleteAssignments: %w", mapError(err, "trip not found"))
	}
	return tag.RowsAffected(), nil
}

func (r *pgEquipmentRepo) queryAssignments(ctx context.Context, sql string, args pgx.NamedArgs) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, mapError(err, "trip not found")
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, mapError(err, "trip not found")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "trip not found")
	}
	return assignments, nil
}

func scanEquipment(s scanner) (domain.Equipment, error) {
	var (
		e         domain.Equipment
		id, owner pgtype.UUID
		deletedAt pgtype.Timestamptz
	)

	if err := s.Scan(&id, &owner, &e.Kind, &e.Name, &deletedAt, &e.CreatedAt); err != nil {
		return domain.Equipment{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.OwnerID = uuid.UUID(owner.Bytes)
	if deletedAt.Valid {
		v := deletedAt.Time
		e.DeletedAt = &v
	}
	return e, nil
}

func scanAssignment(s scanner) (domain.Assignment, error) {
	var (
		a                 domain.Assignment
		id, trip, equipID pgtype.UUID
	)

	if err := s.Scan(&id, &trip, &equipID, &a.Kind, &a.NameSnapshot, &a.CreatedAt); err != nil {
		return domain.Assignment{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(trip.Bytes)
	a.EquipmentID = uuid.UUID(equipID.Bytes)
	return a, nil
}
