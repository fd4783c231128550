package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// ReplaceEquipmentRequest is the body of PUT /trips/{tripID}/equipment/{kind}.
type ReplaceEquipmentRequest struct {
	EquipmentIDs []uuid.UUID `json:"equipment_ids"`
}

// ReplaceEquipment handles PUT /trips/{tripID}/equipment/{kind}.
// The trip's assignment set for kind is reconciled against the request set.
func (s *Server) ReplaceEquipment(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	kind := domain.EquipmentKind(chi.URLParam(r, "kind"))

	var req ReplaceEquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	assignments, err := s.equipment.Replace(r.Context(), owner, tripID, kind, req.EquipmentIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, assignments)
}

// AddEquipmentRequest is the body of POST /trips/{tripID}/equipment/{kind}.
type AddEquipmentRequest struct {
	EquipmentID uuid.UUID `json:"equipment_id"`
}

// AddEquipment handles POST /trips/{tripID}/equipment/{kind}.
func (s *Server) AddEquipment(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	kind := domain.EquipmentKind(chi.URLParam(r, "kind"))

	var req AddEquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.EquipmentID == uuid.Nil {
		respondError(w, r, domain.Validationf("equipment_id is required"))
		return
	}

	assignment, err := s.equipment.Add(r.Context(), owner, tripID, kind, req.EquipmentID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// RemoveEquipment handles DELETE /trips/{tripID}/equipment/{kind}/{equipmentID}.
func (s *Server) RemoveEquipment(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	kind := domain.EquipmentKind(chi.URLParam(r, "kind"))
	equipmentID, err := pathUUID(r, "equipmentID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.equipment.Remove(r.Context(), owner, tripID, kind, equipmentID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
