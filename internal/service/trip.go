// Package service contains the business logic for the fishing log API.
// Services validate inputs, enforce cross-entity invariants, and orchestrate
// repo calls. No SQL lives here; services depend on repo interfaces, not
// implementations, and every expected failure mode comes back as a typed
// domain error rather than a panic.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the catch, weather, and equipment repos besides its own because
// trip detail reads attach related collections and trip creation can copy
// equipment sets from the owner's previous trip.
type TripService struct {
	trips     repo.TripRepo
	catches   repo.CatchRepo
	weather   repo.WeatherRepo
	equipment repo.EquipmentRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, catches repo.CatchRepo, weather repo.WeatherRepo, equipment repo.EquipmentRepo) *TripService {
	return &TripService{trips: trips, catches: catches, weather: weather, equipment: equipment}
}

// CreateTripInput carries the fields a caller may set when creating a trip.
type CreateTripInput struct {
	Title     string
	Status    *domain.TripStatus // defaults to draft
	StartedAt time.Time
	EndedAt   *time.Time
	Location  *domain.Location

	// CopyEquipmentFromLast copies the owner's most recent trip's rod, lure,
	// and groundbait sets onto the new trip, preserving each assignment's
	// name snapshot verbatim. Having no previous trip is not an error.
	CopyEquipmentFromLast bool
}

// Create validates and persists a new trip, optionally copying equipment
// assignments from the owner's most recent trip.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTripInput) (domain.Trip, error) {
	trip := domain.Trip{
		OwnerID:   ownerID,
		Title:     in.Title,
		Status:    domain.TripStatusDraft,
		StartedAt: in.StartedAt,
		EndedAt:   in.EndedAt,
		Location:  in.Location,
	}
	if in.Status != nil {
		trip.Status = *in.Status
	}

	if trip.StartedAt.IsZero() {
		return domain.Trip{}, domain.Validationf("started_at is required")
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if in.CopyEquipmentFromLast {
		if err := s.copyEquipment(ctx, ownerID, created.ID); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
	}

	return created, nil
}

// copyEquipment copies all assignment sets from the owner's most recent trip
// onto newTripID. Snapshots reflect what was true of the source trip, not the
// present; they are copied verbatim, never re-resolved.
func (s *TripService) copyEquipment(ctx context.Context, ownerID, newTripID uuid.UUID) error {
	last, err := s.trips.LatestByOwner(ctx, ownerID, newTripID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return nil // first trip; nothing to copy
		}
		return err
	}

	assignments, err := s.equipment.ListAllAssignments(ctx, last.ID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}

	copies := make([]domain.Assignment, len(assignments))
	for i, a := range assignments {
		copies[i] = domain.Assignment{
			TripID:       newTripID,
			EquipmentID:  a.EquipmentID,
			Kind:         a.Kind,
			NameSnapshot: a.NameSnapshot,
		}
	}
	return s.equipment.InsertAssignments(ctx, copies)
}

// List returns one page of the owner's trips. The default sort is started_at.
// Each trip carries its catch_count projection.
func (s *TripService) List(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) (domain.Page[domain.Trip], error) {
	if p.Sort == "" {
		p.Sort = "started_at"
	}
	if filter.Status != nil && !domain.ValidTripStatus(*filter.Status) {
		return domain.Page[domain.Trip]{}, domain.Validationf("unknown status %q", *filter.Status)
	}

	trips, next, err := s.trips.List(ctx, ownerID, filter, p)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	return domain.NewPage(trips, p.Limit, next), nil
}

// GetByID returns a trip with the related collections named by includes
// attached. Each include independently selects one collection from the fixed
// vocabulary; an unknown include is a validation error.
func (s *TripService) GetByID(ctx context.Context, ownerID, id uuid.UUID, includes []domain.TripInclude) (domain.TripDetail, error) {
	for _, inc := range includes {
		if !domain.ValidTripInclude(inc) {
			return domain.TripDetail{}, domain.Validationf("unknown include %q", inc)
		}
	}

	trip, err := s.trips.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}

	detail := domain.TripDetail{Trip: trip}
	for _, inc := range includes {
		switch inc {
		case domain.IncludeRods, domain.IncludeLures, domain.IncludeGroundbaits:
			assignments, err := s.equipment.ListAssignments(ctx, id, includeKind(inc))
			if err != nil {
				return domain.TripDetail{}, fmt.Errorf("service.TripService.GetByID: %w", err)
			}
			if assignments == nil {
				assignments = []domain.Assignment{}
			}
			switch inc {
			case domain.IncludeRods:
				detail.Rods = assignments
			case domain.IncludeLures:
				detail.Lures = assignments
			default:
				detail.Groundbaits = assignments
			}
		case domain.IncludeCatches:
			catches, err := s.catches.ListAllByTrip(ctx, ownerID, id)
			if err != nil {
				return domain.TripDetail{}, fmt.Errorf("service.TripService.GetByID: %w", err)
			}
			if catches == nil {
				catches = []domain.Catch{}
			}
			detail.Catches = catches
		case domain.IncludeWeatherCurrent:
			current, err := s.weather.Current(ctx, ownerID, id)
			if err != nil {
				return domain.TripDetail{}, fmt.Errorf("service.TripService.GetByID: %w", err)
			}
			detail.WeatherCurrent = current
		}
	}

	return detail, nil
}

// Update merges the proposed changes with the persisted row before
// validating, so a partial update that only changes status is still checked
// against the existing started_at/ended_at. Nothing is written when
// validation fails.
func (s *TripService) Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	current, err := s.trips.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	merged := mergeTrip(current, upd)
	if err := validateTrip(merged); err != nil {
		return domain.Trip{}, err
	}

	updated, err := s.trips.Update(ctx, merged)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Close moves a trip into the closed state, optionally setting ended_at in
// the same call. Closing an already-closed trip is allowed as long as the
// invariants hold.
func (s *TripService) Close(ctx context.Context, ownerID, id uuid.UUID, endedAt *time.Time) (domain.Trip, error) {
	closed := domain.TripStatusClosed
	upd := domain.TripUpdate{Status: &closed, EndedAt: endedAt}
	trip, err := s.Update(ctx, ownerID, id, upd)
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

// SoftDelete marks a trip deleted. Trips are never hard-deleted.
func (s *TripService) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.trips.SoftDelete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.TripService.SoftDelete: %w", err)
	}
	return nil
}

// mergeTrip applies a partial update on top of the persisted row.
func mergeTrip(t domain.Trip, upd domain.TripUpdate) domain.Trip {
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.StartedAt != nil {
		t.StartedAt = *upd.StartedAt
	}
	if upd.ClearEndedAt {
		t.EndedAt = nil
	} else if upd.EndedAt != nil {
		v := *upd.EndedAt
		t.EndedAt = &v
	}
	if upd.ClearLocation {
		t.Location = nil
	} else if upd.Location != nil {
		v := *upd.Location
		t.Location = &v
	}
	return t
}

// validateTrip enforces the two trip invariants on an already-merged row:
//   - ended_at, when set, must not be before started_at
//   - a closed trip must have an ended_at
func validateTrip(t domain.Trip) error {
	if !domain.ValidTripStatus(t.Status) {
		return domain.Validationf("unknown status %q", t.Status)
	}
	if t.EndedAt != nil && t.EndedAt.Before(t.StartedAt) {
		return domain.Validationf("ended_at must not be before started_at")
	}
	if t.Status == domain.TripStatusClosed && t.EndedAt == nil {
		return domain.Validationf("a closed trip requires ended_at")
	}
	return nil
}

// includeKind maps an equipment include onto its junction-set kind.
func includeKind(inc domain.TripInclude) domain.EquipmentKind {
	switch inc {
	case domain.IncludeRods:
		return domain.KindRod
	case domain.IncludeLures:
		return domain.KindLure
	default:
		return domain.KindGroundbait
	}
}
