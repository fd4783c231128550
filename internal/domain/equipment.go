package domain

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentKind distinguishes the three parallel trip↔equipment junction sets.
type EquipmentKind string

const (
	KindRod        EquipmentKind = "rod"
	KindLure       EquipmentKind = "lure"
	KindGroundbait EquipmentKind = "groundbait"
)

// ValidEquipmentKind reports whether k is one of the known kinds.
func ValidEquipmentKind(k EquipmentKind) bool {
	switch k {
	case KindRod, KindLure, KindGroundbait:
		return true
	}
	return false
}

// Equipment is a user-owned piece of gear (rod, lure, or groundbait).
// Soft-deleted equipment stays referenceable from historical records but may
// not be assigned to trips or referenced by new catches.
type Equipment struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Kind      EquipmentKind `json:"kind"`
	Name      string        `json:"name"`
	DeletedAt *time.Time    `json:"deleted_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Assignment links one piece of equipment to one trip.
// NameSnapshot is the equipment's name at assignment time and is preserved
// verbatim when assignments are copied between trips.
type Assignment struct {
	ID           uuid.UUID     `json:"id"`
	TripID       uuid.UUID     `json:"trip_id"`
	EquipmentID  uuid.UUID     `json:"equipment_id"`
	Kind         EquipmentKind `json:"kind"`
	NameSnapshot string        `json:"name_snapshot"`
	CreatedAt    time.Time     `json:"created_at"`
}
