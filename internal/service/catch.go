package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

// CatchService implements business logic for Catch operations.
// It holds the trip repo because a catch's caught_at must fall within the
// parent trip's date range, and the equipment repo because lure/groundbait
// references get their name snapshots resolved here; an explicit service
// step, not a database-side trigger.
type CatchService struct {
	catches   repo.CatchRepo
	trips     repo.TripRepo
	equipment repo.EquipmentRepo
}

// NewCatchService constructs a CatchService backed by the provided repos.
func NewCatchService(catches repo.CatchRepo, trips repo.TripRepo, equipment repo.EquipmentRepo) *CatchService {
	return &CatchService{catches: catches, trips: trips, equipment: equipment}
}

// CreateCatchInput carries the fields a caller may set when recording a catch.
type CreateCatchInput struct {
	CaughtAt     time.Time
	SpeciesID    uuid.UUID
	LureID       *uuid.UUID
	GroundbaitID *uuid.UUID
	WeightGrams  *int
	LengthMM     *int
}

// Create validates and persists a new catch under the given trip.
// caught_at must fall within [trip.started_at, trip.ended_at] (unbounded
// above when the trip has no end); both boundaries are inclusive.
func (s *CatchService) Create(ctx context.Context, ownerID, tripID uuid.UUID, in CreateCatchInput) (domain.Catch, error) {
	trip, err := s.trips.GetByID(ctx, ownerID, tripID)
	if err != nil {
		return domain.Catch{}, fmt.Errorf("service.CatchService.Create: %w", err)
	}

	c := domain.Catch{
		TripID:       tripID,
		CaughtAt:     in.CaughtAt,
		SpeciesID:    in.SpeciesID,
		LureID:       in.LureID,
		GroundbaitID: in.GroundbaitID,
		WeightGrams:  in.WeightGrams,
		LengthMM:     in.LengthMM,
	}

	if c.CaughtAt.IsZero() {
		return domain.Catch{}, domain.Validationf("caught_at is required")
	}
	if c.SpeciesID == uuid.Nil {
		return domain.Catch{}, domain.Validationf("species_id is required")
	}
	if err := validateCaughtAt(trip, c.CaughtAt); err != nil {
		return domain.Catch{}, err
	}
	if err := validateMeasures(c.WeightGrams, c.LengthMM); err != nil {
		return domain.Catch{}, err
	}

	if err := s.snapshotEquipmentNames(ctx, trip.OwnerID, &c, true, true); err != nil {
		return domain.Catch{}, err
	}

	created, err := s.catches.Create(ctx, c)
	if err != nil {
		return domain.Catch{}, fmt.Errorf("service.CatchService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single catch visible to the owner.
func (s *CatchService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error) {
	c, err := s.catches.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Catch{}, fmt.Errorf("service.CatchService.GetByID: %w", err)
	}
	return c, nil
}

// List returns one page of a trip's catches. The default sort is caught_at.
func (s *CatchService) List(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) (domain.Page[domain.Catch], error) {
	if p.Sort == "" {
		p.Sort = "caught_at"
	}

	catches, next, err := s.catches.ListByTrip(ctx, ownerID, tripID, filter, p)
	if err != nil {
		return domain.Page[domain.Catch]{}, fmt.Errorf("service.CatchService.List: %w", err)
	}
	return domain.NewPage(catches, p.Limit, next), nil
}

// Update merges the proposed changes with the persisted catch and validates
// the result. The trip date-range check runs only when caught_at is actually
// being set; an update that omits it is not re-validated against a value it
// isn't touching. Name snapshots are re-resolved only when the referenced
// equipment id itself changes.
func (s *CatchService) Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.CatchUpdate) (domain.Catch, error) {
	current, err := s.catches.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Catch{}, fmt.Errorf("service.CatchService.Update: %w", err)
	}

	merged := current
	lureChanged := false
	groundbaitChanged := false

	if upd.CaughtAt != nil {
		trip, err := s.trips.GetByID(ctx, ownerID, current.TripID)
		if err != nil {
			return domain.Catch{}, fmt.Errorf("service.CatchService.Update: %w", err)
		}
		if err := validateCaughtAt(trip, *upd.CaughtAt); err != nil {
			return domain.Catch{}, err
		}
		merged.CaughtAt = *upd.CaughtAt
	}
	if upd.SpeciesID != nil {
		if *upd.SpeciesID == uuid.Nil {
			return domain.Catch{}, domain.Validationf("species_id is required")
		}
		merged.SpeciesID = *upd.SpeciesID
	}
	if upd.ClearLure {
		merged.LureID = nil
		merged.LureName = nil
	} else if upd.LureID != nil && (current.LureID == nil || *current.LureID != *upd.LureID) {
		merged.LureID = upd.LureID
		lureChanged = true
	}
	if upd.ClearGroundbait {
		merged.GroundbaitID = nil
		merged.GroundbaitName = nil
	} else if upd.GroundbaitID != nil && (current.GroundbaitID == nil || *current.GroundbaitID != *upd.GroundbaitID) {
		merged.GroundbaitID = upd.GroundbaitID
		groundbaitChanged = true
	}
	if upd.WeightGrams != nil {
		merged.WeightGrams = upd.WeightGrams
	}
	if upd.LengthMM != nil {
		merged.LengthMM = upd.LengthMM
	}

	if err := validateMeasures(merged.WeightGrams, merged.LengthMM); err != nil {
		return domain.Catch{}, err
	}
	if err := s.snapshotEquipmentNames(ctx, ownerID, &merged, lureChanged, groundbaitChanged); err != nil {
		return domain.Catch{}, err
	}

	updated, err := s.catches.Update(ctx, ownerID, merged)
	if err != nil {
		return domain.Catch{}, fmt.Errorf("service.CatchService.Update: %w", err)
	}
	return updated, nil
}

// Delete hard-deletes a catch.
func (s *CatchService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.catches.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.CatchService.Delete: %w", err)
	}
	return nil
}

// snapshotEquipmentNames resolves the referenced equipment's current name
// onto the catch for each reference flagged as changed. The referenced
// equipment must belong to the trip's owner, must not be soft-deleted, and
// must be of the right kind.
func (s *CatchService) snapshotEquipmentNames(ctx context.Context, ownerID uuid.UUID, c *domain.Catch, lure, groundbait bool) error {
	if lure && c.LureID != nil {
		name, err := s.resolveEquipmentName(ctx, ownerID, *c.LureID, domain.KindLure)
		if err != nil {
			return err
		}
		c.LureName = &name
	}
	if groundbait && c.GroundbaitID != nil {
		name, err := s.resolveEquipmentName(ctx, ownerID, *c.GroundbaitID, domain.KindGroundbait)
		if err != nil {
			return err
		}
		c.GroundbaitName = &name
	}
	return nil
}

func (s *CatchService) resolveEquipmentName(ctx context.Context, ownerID, equipmentID uuid.UUID, kind domain.EquipmentKind) (string, error) {
	eq, err := s.equipment.GetEquipment(ctx, equipmentID)
	if err != nil {
		return "", fmt.Errorf("service.CatchService: %w", err)
	}
	if eq.OwnerID != ownerID {
		return "", domain.EquipmentOwnerMismatchf("%s belongs to a different owner", kind)
	}
	if eq.DeletedAt != nil {
		return "", domain.EquipmentSoftDeletedf("%s has been deleted", kind)
	}
	if eq.Kind != kind {
		return "", domain.Validationf("equipment %s is not a %s", equipmentID, kind)
	}
	return eq.Name, nil
}

// validateCaughtAt checks trip date-range membership, boundaries inclusive.
func validateCaughtAt(trip domain.Trip, caughtAt time.Time) error {
	if caughtAt.Before(trip.StartedAt) {
		return domain.Validationf("caught_at must not be before the trip's started_at")
	}
	if trip.EndedAt != nil && caughtAt.After(*trip.EndedAt) {
		return domain.Validationf("caught_at must not be after the trip's ended_at")
	}
	return nil
}

func validateMeasures(weight, length *int) error {
	if weight != nil && *weight < 0 {
		return domain.Validationf("weight_grams must not be negative")
	}
	if length != nil && *length < 0 {
		return domain.Validationf("length_mm must not be negative")
	}
	return nil
}
