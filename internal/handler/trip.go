package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/service"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Title                 string             `json:"title"`
	Status                *domain.TripStatus `json:"status"`
	StartedAt             time.Time          `json:"started_at"`
	EndedAt               *time.Time         `json:"ended_at"`
	Location              *domain.Location   `json:"location"`
	CopyEquipmentFromLast bool               `json:"copy_equipment_from_last"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req CreateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	trip, err := s.trips.Create(r.Context(), owner, service.CreateTripInput{
		Title:                 req.Title,
		Status:                req.Status,
		StartedAt:             req.StartedAt,
		EndedAt:               req.EndedAt,
		Location:              req.Location,
		CopyEquipmentFromLast: req.CopyEquipmentFromLast,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /trips.
// Query parameters: status, include_deleted, limit, cursor, sort, order.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	p, err := listParams(r, "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var filter domain.TripFilter
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.TripStatus(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("include_deleted"); v != "" {
		filter.IncludeDeleted = v == "true"
	}

	page, err := s.trips.List(r.Context(), owner, filter, p)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetTrip handles GET /trips/{tripID}.
// ?include= selects related collections as a comma-separated list.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var includes []domain.TripInclude
	if raw := r.URL.Query().Get("include"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			includes = append(includes, domain.TripInclude(strings.TrimSpace(part)))
		}
	}

	detail, err := s.trips.GetByID(r.Context(), owner, id, includes)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// UpdateTripRequest is the body of PATCH /trips/{tripID}. Absent fields are
// left untouched; ended_at and location accept an explicit null to clear.
type UpdateTripRequest struct {
	Title     *string                       `json:"title"`
	Status    *domain.TripStatus            `json:"status"`
	StartedAt *time.Time                    `json:"started_at"`
	EndedAt   jsonNullable[time.Time]       `json:"ended_at"`
	Location  jsonNullable[domain.Location] `json:"location"`
}

// UpdateTrip handles PATCH /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req UpdateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	upd := domain.TripUpdate{
		Title:     req.Title,
		Status:    req.Status,
		StartedAt: req.StartedAt,
	}
	if req.EndedAt.Set {
		upd.EndedAt = req.EndedAt.Value
		upd.ClearEndedAt = req.EndedAt.Value == nil
	}
	if req.Location.Set {
		upd.Location = req.Location.Value
		upd.ClearLocation = req.Location.Value == nil
	}

	trip, err := s.trips.Update(r.Context(), owner, id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, trip)
}

// CloseTripRequest is the optional body of POST /trips/{tripID}/close.
type CloseTripRequest struct {
	EndedAt *time.Time `json:"ended_at"`
}

// CloseTrip handles POST /trips/{tripID}/close.
func (s *Server) CloseTrip(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req CloseTripRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}

	trip, err := s.trips.Close(r.Context(), owner, id, req.EndedAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{tripID} (soft delete).
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.trips.SoftDelete(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listParams builds pagination params from the shared query parameters.
// defaultSort is left empty here; each service fills in its entity's default.
func listParams(r *http.Request, defaultSort string) (domain.ListParams, error) {
	q := r.URL.Query()

	var limit *int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ListParams{}, domain.Validationf("limit must be an integer")
		}
		limit = &n
	}

	var cursor *string
	if v := q.Get("cursor"); v != "" {
		cursor = &v
	}

	sort := q.Get("sort")
	if sort == "" {
		sort = defaultSort
	}

	var order *string
	if v := q.Get("order"); v != "" {
		order = &v
	}

	return domain.NewListParams(limit, cursor, sort, order)
}
