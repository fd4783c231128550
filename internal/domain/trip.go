// Package domain contains the core data types for the fishing log application.
// This package has no store or transport dependencies and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
// Closed is terminal in practice, but transitions are not enforced as a strict
// state machine; only the two invariants checked by the trip service apply
// (end after start, closed requires an end time).
type TripStatus string

const (
	TripStatusDraft  TripStatus = "draft"
	TripStatusActive TripStatus = "active"
	TripStatusClosed TripStatus = "closed"
)

// ValidTripStatus reports whether s is one of the known lifecycle states.
func ValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusDraft, TripStatusActive, TripStatusClosed:
		return true
	}
	return false
}

// Location is an optional named coordinate attached to a trip.
type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

// Trip is the top-level aggregate; catches, equipment assignments, and weather
// snapshots all belong to a trip. A trip is exclusively owned by one user.
// Trips are never hard-deleted; DeletedAt marks a soft delete.
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	Status    TripStatus `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"` // nil while the trip is in progress
	Location  *Location  `json:"location,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// CatchCount is a read-side projection computed by list queries via a
	// count aggregate join. It is not a stored counter.
	CatchCount int `json:"catch_count"`
}

// TripUpdate carries a partial update. Nil fields are left untouched.
// ClearEndedAt distinguishes "set ended_at to null" from "don't change it".
type TripUpdate struct {
	Title         *string
	Status        *TripStatus
	StartedAt     *time.Time
	EndedAt       *time.Time
	ClearEndedAt  bool
	Location      *Location
	ClearLocation bool
}

// TripFilter restricts trip list queries. Filters are conjunctive equality
// predicates only. Soft-deleted trips are excluded unless IncludeDeleted.
type TripFilter struct {
	Status         *TripStatus
	IncludeDeleted bool
}

// TripInclude names one related collection to attach to a trip detail read.
type TripInclude string

const (
	IncludeRods           TripInclude = "rods"
	IncludeLures          TripInclude = "lures"
	IncludeGroundbaits    TripInclude = "groundbaits"
	IncludeCatches        TripInclude = "catches"
	IncludeWeatherCurrent TripInclude = "weather_current"
)

// ValidTripInclude reports whether inc is part of the fixed include vocabulary.
func ValidTripInclude(inc TripInclude) bool {
	switch inc {
	case IncludeRods, IncludeLures, IncludeGroundbaits, IncludeCatches, IncludeWeatherCurrent:
		return true
	}
	return false
}

// TripDetail is a trip plus the related collections selected by includes.
// Collections that were not requested are nil; requested-but-empty collections
// are non-nil empty slices.
type TripDetail struct {
	Trip
	Rods           []Assignment     `json:"rods,omitempty"`
	Lures          []Assignment     `json:"lures,omitempty"`
	Groundbaits    []Assignment     `json:"groundbaits,omitempty"`
	Catches        []Catch          `json:"catches,omitempty"`
	WeatherCurrent *WeatherSnapshot `json:"weather_current,omitempty"`
}
