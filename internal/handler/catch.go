package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/service"
)

// CreateCatchRequest is the body of POST /trips/{tripID}/catches.
type CreateCatchRequest struct {
	CaughtAt     time.Time  `json:"caught_at"`
	SpeciesID    uuid.UUID  `json:"species_id"`
	LureID       *uuid.UUID `json:"lure_id"`
	GroundbaitID *uuid.UUID `json:"groundbait_id"`
	WeightGrams  *int       `json:"weight_grams"`
	LengthMM     *int       `json:"length_mm"`
}

// CreateCatch handles POST /trips/{tripID}/catches.
func (s *Server) CreateCatch(w http.ResponseWriter, r *http.Request) {
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

	var req CreateCatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	c, err := s.catches.Create(r.Context(), owner, tripID, service.CreateCatchInput{
		CaughtAt:     req.CaughtAt,
		SpeciesID:    req.SpeciesID,
		LureID:       req.LureID,
		GroundbaitID: req.GroundbaitID,
		WeightGrams:  req.WeightGrams,
		LengthMM:     req.LengthMM,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

// ListCatches handles GET /trips/{tripID}/catches.
// Query parameters: species_id, from, to, plus the shared pagination set.
func (s *Server) ListCatches(w http.ResponseWriter, r *http.Request) {
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

	p, err := listParams(r, "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var filter domain.CatchFilter
	q := r.URL.Query()
	if v := q.Get("species_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(w, r, domain.Validationf("invalid species_id"))
			return
		}
		filter.SpeciesID = &id
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, domain.Validationf("from must be RFC 3339"))
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, domain.Validationf("to must be RFC 3339"))
			return
		}
		filter.To = &t
	}

	page, err := s.catches.List(r.Context(), owner, tripID, filter, p)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetCatch handles GET /catches/{catchID}.
func (s *Server) GetCatch(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	c, err := s.catches.GetByID(r.Context(), owner, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// UpdateCatchRequest is the body of PATCH /catches/{catchID}. Absent fields
// are left untouched; lure_id and groundbait_id accept an explicit null to
// clear the reference and its name snapshot.
type UpdateCatchRequest struct {
	CaughtAt     *time.Time              `json:"caught_at"`
	SpeciesID    *uuid.UUID              `json:"species_id"`
	LureID       jsonNullable[uuid.UUID] `json:"lure_id"`
	GroundbaitID jsonNullable[uuid.UUID] `json:"groundbait_id"`
	WeightGrams  *int                    `json:"weight_grams"`
	LengthMM     *int                    `json:"length_mm"`
}

// UpdateCatch handles PATCH /catches/{catchID}.
func (s *Server) UpdateCatch(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req UpdateCatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	upd := domain.CatchUpdate{
		CaughtAt:    req.CaughtAt,
		SpeciesID:   req.SpeciesID,
		WeightGrams: req.WeightGrams,
		LengthMM:    req.LengthMM,
	}
	if req.LureID.Set {
		upd.LureID = req.LureID.Value
		upd.ClearLure = req.LureID.Value == nil
	}
	if req.GroundbaitID.Set {
		upd.GroundbaitID = req.GroundbaitID.Value
		upd.ClearGroundbait = req.GroundbaitID.Value == nil
	}

	c, err := s.catches.Update(r.Context(), owner, id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// DeleteCatch handles DELETE /catches/{catchID} (hard delete).
func (s *Server) DeleteCatch(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.catches.Delete(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
