package handler

import (
	"net/http"
	"time"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/service"
)

// CreateWeatherRequest is the body of POST /trips/{tripID}/weather.
type CreateWeatherRequest struct {
	Source      domain.WeatherSource `json:"source"`
	FetchedAt   time.Time            `json:"fetched_at"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	Hours       []domain.WeatherHour `json:"hours"`
}

// CreateWeather handles POST /trips/{tripID}/weather.
func (s *Server) CreateWeather(w http.ResponseWriter, r *http.Request) {
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

	var req CreateWeatherRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	snap, err := s.weather.Create(r.Context(), owner, tripID, service.CreateWeatherInput{
		Source:      req.Source,
		FetchedAt:   req.FetchedAt,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Hours:       req.Hours,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, snap)
}

// ListWeather handles GET /trips/{tripID}/weather.
func (s *Server) ListWeather(w http.ResponseWriter, r *http.Request) {
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

	page, err := s.weather.List(r.Context(), owner, tripID, p)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// DeleteWeather handles DELETE /weather/{snapshotID}.
func (s *Server) DeleteWeather(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathUUID(r, "snapshotID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.weather.Delete(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
