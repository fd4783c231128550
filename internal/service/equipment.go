package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

// EquipmentService reconciles the trip↔equipment junction sets.
// Replace is diff-based: it computes additions and removals against the
// current set instead of deleting and re-inserting everything, which keeps
// write volume minimal and avoids transiently violating the uniqueness
// constraint under concurrent readers.
type EquipmentService struct {
	trips     repo.TripRepo
	equipment repo.EquipmentRepo
}

// NewEquipmentService constructs an EquipmentService backed by the provided repos.
func NewEquipmentService(trips repo.TripRepo, equipment repo.EquipmentRepo) *EquipmentService {
	return &EquipmentService{trips: trips, equipment: equipment}
}

// Replace makes the trip's assignment set for kind equal to desired.
// Deletes are issued before inserts so an id moving between two in-flight
// reconciliations cannot transiently violate the uniqueness constraint
// during either insert phase. Calling Replace twice with the same desired
// set issues zero writes the second time.
func (s *EquipmentService) Replace(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, desired []uuid.UUID) ([]domain.Assignment, error) {
	if !domain.ValidEquipmentKind(kind) {
		return nil, domain.Validationf("unknown equipment kind %q", kind)
	}
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return nil, fmt.Errorf("service.EquipmentService.Replace: %w", err)
	}

	desiredSet := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	current, err := s.equipment.ListAssignments(ctx, tripID, kind)
	if err != nil {
		return nil, fmt.Errorf("service.EquipmentService.Replace: %w", err)
	}
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, a := range current {
		currentSet[a.EquipmentID] = true
	}

	var toDelete []uuid.UUID
	for _, a := range current {
		if !desiredSet[a.EquipmentID] {
			toDelete = append(toDelete, a.EquipmentID)
		}
	}
	var toInsert []uuid.UUID
	for id := range desiredSet {
		if !currentSet[id] {
			toInsert = append(toInsert, id)
		}
	}

	inserts, err := s.buildAssignments(ctx, ownerID, tripID, kind, toInsert)
	if err != nil {
		return nil, err
	}

	if len(toDelete) > 0 {
		if _, err := s.equipment.DeleteAssignments(ctx, tripID, kind, toDelete); err != nil {
			return nil, fmt.Errorf("service.EquipmentService.Replace: %w", err)
		}
	}
	if len(inserts) > 0 {
		if err := s.equipment.InsertAssignments(ctx, inserts); err != nil {
			return nil, fmt.Errorf("service.EquipmentService.Replace: %w", err)
		}
	}

	result, err := s.equipment.ListAssignments(ctx, tripID, kind)
	if err != nil {
		return nil, fmt.Errorf("service.EquipmentService.Replace: %w", err)
	}
	if result == nil {
		result = []domain.Assignment{}
	}
	return result, nil
}

// Add assigns one piece of equipment to a trip. Assigning an id that is
// already present is a conflict.
func (s *EquipmentService) Add(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) (domain.Assignment, error) {
	if !domain.ValidEquipmentKind(kind) {
		return domain.Assignment{}, domain.Validationf("unknown equipment kind %q", kind)
	}
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return domain.Assignment{}, fmt.Errorf("service.EquipmentService.Add: %w", err)
	}

	current, err := s.equipment.ListAssignments(ctx, tripID, kind)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("service.EquipmentService.Add: %w", err)
	}
	for _, a := range current {
		if a.EquipmentID == equipmentID {
			return domain.Assignment{}, domain.Conflictf("equipment is already assigned to this trip")
		}
	}

	inserts, err := s.buildAssignments(ctx, ownerID, tripID, kind, []uuid.UUID{equipmentID})
	if err != nil {
		return domain.Assignment{}, err
	}
	if err := s.equipment.InsertAssignments(ctx, inserts); err != nil {
		return domain.Assignment{}, fmt.Errorf("service.EquipmentService.Add: %w", err)
	}

	// Re-read for the DB-generated id and timestamp.
	result, err := s.equipment.ListAssignments(ctx, tripID, kind)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("service.EquipmentService.Add: %w", err)
	}
	for _, a := range result {
		if a.EquipmentID == equipmentID {
			return a, nil
		}
	}
	return domain.Assignment{}, domain.Internal("assignment vanished after insert", nil)
}

// Remove unassigns one piece of equipment from a trip.
func (s *EquipmentService) Remove(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) error {
	if !domain.ValidEquipmentKind(kind) {
		return domain.Validationf("unknown equipment kind %q", kind)
	}
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return fmt.Errorf("service.EquipmentService.Remove: %w", err)
	}

	deleted, err := s.equipment.DeleteAssignments(ctx, tripID, kind, []uuid.UUID{equipmentID})
	if err != nil {
		return fmt.Errorf("service.EquipmentService.Remove: %w", err)
	}
	if deleted == 0 {
		return domain.NotFoundf("assignment not found")
	}
	return nil
}

// buildAssignments verifies each candidate equipment row and captures its
// current name as the assignment snapshot. Equipment owned by another user,
// soft-deleted equipment, and kind mismatches are reported as their specific
// domain errors; never a generic failure.
func (s *EquipmentService) buildAssignments(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, ids []uuid.UUID) ([]domain.Assignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.equipment.GetEquipmentBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.EquipmentService: %w", err)
	}

	assignments := make([]domain.Assignment, 0, len(ids))
	for _, id := range ids {
		eq, ok := rows[id]
		if !ok {
			return nil, domain.NotFoundf("equipment %s not found", id)
		}
		if eq.OwnerID != ownerID {
			return nil, domain.EquipmentOwnerMismatchf("equipment %s belongs to a different owner", id)
		}
		if eq.DeletedAt != nil {
			return nil, domain.EquipmentSoftDeletedf("equipment %s has been deleted", id)
		}
		if eq.Kind != kind {
			return nil, domain.Validationf("equipment %s is not a %s", id, kind)
		}
		assignments = append(assignments, domain.Assignment{
			TripID:       tripID,
			EquipmentID:  id,
			Kind:         kind,
			NameSnapshot: eq.Name,
		})
	}
	return assignments, nil
}
