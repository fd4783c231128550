// Package handler implements the HTTP handlers for the fishing log API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, catch.go, etc.) but share the same Server struct so they can
// access its dependencies. Handlers translate between HTTP and the service
// layer; no business rules live here.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, in service.CreateTripInput) (domain.Trip, error)
	List(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) (domain.Page[domain.Trip], error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID, includes []domain.TripInclude) (domain.TripDetail, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	Close(ctx context.Context, ownerID, id uuid.UUID, endedAt *time.Time) (domain.Trip, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error
}

// CatchServicer defines the business operations the catch handlers depend on.
type CatchServicer interface {
	Create(ctx context.Context, ownerID, tripID uuid.UUID, in service.CreateCatchInput) (domain.Catch, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error)
	List(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) (domain.Page[domain.Catch], error)
	Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.CatchUpdate) (domain.Catch, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// EquipmentServicer defines the assignment-set operations.
type EquipmentServicer interface {
	Replace(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, desired []uuid.UUID) ([]domain.Assignment, error)
	Add(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) (domain.Assignment, error)
	Remove(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) error
}

// WeatherServicer defines the weather snapshot operations.
type WeatherServicer interface {
	Create(ctx context.Context, ownerID, tripID uuid.UUID, in service.CreateWeatherInput) (domain.WeatherSnapshot, error)
	List(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) (domain.Page[domain.WeatherSnapshot], error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// PhotoServicer defines the photo pipeline operations.
type PhotoServicer interface {
	Upload(ctx context.Context, ownerID, catchID uuid.UUID, raw []byte) (domain.PhotoArtifact, error)
	Delete(ctx context.Context, ownerID, catchID uuid.UUID) error
	SignedUploadURL(ctx context.Context, ownerID, catchID uuid.UUID, ext string) (service.SignedUpload, error)
	ConfirmDirectUpload(ctx context.Context, ownerID, catchID uuid.UUID, path string) error
	SignedURL(ctx context.Context, ownerID uuid.UUID, path string) (string, error)
}

// ExportServicer defines the flat export operation.
type ExportServicer interface {
	Rows(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds the service dependencies for all API endpoints.
type Server struct {
	trips     TripServicer
	catches   CatchServicer
	equipment EquipmentServicer
	weather   WeatherServicer
	photos    PhotoServicer
	export    ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, catches CatchServicer, equipment EquipmentServicer, weather WeatherServicer, photos PhotoServicer, export ExportServicer) *Server {
	return &Server{
		trips:     trips,
		catches:   catches,
		equipment: equipment,
		weather:   weather,
		photos:    photos,
		export:    export,
	}
}

// Routes mounts every endpoint on r. The caller owns the middleware stack.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Health)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/close", s.CloseTrip)

			r.Get("/catches", s.ListCatches)
			r.Post("/catches", s.CreateCatch)

			r.Put("/equipment/{kind}", s.ReplaceEquipment)
			r.Post("/equipment/{kind}", s.AddEquipment)
			r.Delete("/equipment/{kind}/{equipmentID}", s.RemoveEquipment)

			r.Get("/weather", s.ListWeather)
			r.Post("/weather", s.CreateWeather)
		})
	})

	r.Route("/catches/{catchID}", func(r chi.Router) {
		r.Get("/", s.GetCatch)
		r.Patch("/", s.UpdateCatch)
		r.Delete("/", s.DeleteCatch)

		r.Get("/photo", s.GetPhotoURL)
		r.Post("/photo", s.UploadPhoto)
		r.Delete("/photo", s.DeletePhoto)
		r.Post("/photo/upload-url", s.CreatePhotoUploadURL)
		r.Post("/photo/confirm", s.ConfirmPhoto)
	})

	r.Delete("/weather/{snapshotID}", s.DeleteWeather)

	r.Get("/export", s.Export)
}

// ownerIDHeader is the auth stand-in: the caller identifies itself with a
// UUID header. A real token-based middleware would populate the same value.
const ownerIDHeader = "X-User-ID"

// ownerID extracts the calling owner's id from the request header.
func ownerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(ownerIDHeader)
	if raw == "" {
		return uuid.Nil, domain.Validationf("missing %s header", ownerIDHeader)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Validationf("invalid %s header", ownerIDHeader)
	}
	return id, nil
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Validationf("invalid %s", name)
	}
	return id, nil
}
