package domain

import (
	"time"

	"github.com/google/uuid"
)

// Catch is a single fish caught during a trip. Catches are hard-deleted.
//
// LureName and GroundbaitName are name snapshots: denormalized copies of the
// referenced equipment's name, captured when the reference is set. They stay
// stable even if the equipment is later renamed or soft-deleted, and are only
// re-resolved when the referenced id itself changes.
type Catch struct {
	ID             uuid.UUID  `json:"id"`
	TripID         uuid.UUID  `json:"trip_id"`
	CaughtAt       time.Time  `json:"caught_at"`
	SpeciesID      uuid.UUID  `json:"species_id"`
	LureID         *uuid.UUID `json:"lure_id,omitempty"`
	LureName       *string    `json:"lure_name,omitempty"`
	GroundbaitID   *uuid.UUID `json:"groundbait_id,omitempty"`
	GroundbaitName *string    `json:"groundbait_name,omitempty"`
	WeightGrams    *int       `json:"weight_grams,omitempty"`
	LengthMM       *int       `json:"length_mm,omitempty"`
	PhotoPath      *string    `json:"photo_path,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CatchUpdate carries a partial update. Nil fields are left untouched.
// Clear* flags distinguish "set to null" from "don't change".
// CaughtAt is only re-validated against the trip's date range when it is
// actually present here.
type CatchUpdate struct {
	CaughtAt        *time.Time
	SpeciesID       *uuid.UUID
	LureID          *uuid.UUID
	ClearLure       bool
	GroundbaitID    *uuid.UUID
	ClearGroundbait bool
	WeightGrams     *int
	LengthMM        *int
}

// CatchFilter restricts catch list queries.
type CatchFilter struct {
	SpeciesID *uuid.UUID
	From      *time.Time // caught_at >= From
	To        *time.Time // caught_at <= To
}
