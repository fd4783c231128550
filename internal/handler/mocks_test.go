package handler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/handler"
	"github.com/tkarhu/fishing-log/internal/service"
)

// Mocks follow the same convention as the service tests: a struct of funcs,
// where calling an unset func panics so a test fails loudly when a handler
// touches a dependency it should not.

type mockTripServicer struct {
	create     func(ctx context.Context, ownerID uuid.UUID, in service.CreateTripInput) (domain.Trip, error)
	list       func(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) (domain.Page[domain.Trip], error)
	getByID    func(ctx context.Context, ownerID, id uuid.UUID, includes []domain.TripInclude) (domain.TripDetail, error)
	update     func(ctx context.Context, ownerID, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	close      func(ctx context.Context, ownerID, id uuid.UUID, endedAt *time.Time) (domain.Trip, error)
	softDelete func(ctx context.Context, ownerID, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, in service.CreateTripInput) (domain.Trip, error) {
	return m.create(ctx, ownerID, in)
}

func (m *mockTripServicer) List(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) (domain.Page[domain.Trip], error) {
	return m.list(ctx, ownerID, filter, p)
}

func (m *mockTripServicer) GetByID(ctx context.Context, ownerID, id uuid.UUID, includes []domain.TripInclude) (domain.TripDetail, error) {
	return m.getByID(ctx, ownerID, id, includes)
}

func (m *mockTripServicer) Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, ownerID, id, upd)
}

func (m *mockTripServicer) Close(ctx context.Context, ownerID, id uuid.UUID, endedAt *time.Time) (domain.Trip, error) {
	return m.close(ctx, ownerID, id, endedAt)
}

func (m *mockTripServicer) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.softDelete(ctx, ownerID, id)
}

type mockCatchServicer struct {
	create  func(ctx context.Context, ownerID, tripID uuid.UUID, in service.CreateCatchInput) (domain.Catch, error)
	getByID func(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error)
	list    func(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) (domain.Page[domain.Catch], error)
	update  func(ctx context.Context, ownerID, id uuid.UUID, upd domain.CatchUpdate) (domain.Catch, error)
	delete  func(ctx context.Context, ownerID, id uuid.UUID) error
}

func (m *mockCatchServicer) Create(ctx context.Context, ownerID, tripID uuid.UUID, in service.CreateCatchInput) (domain.Catch, error) {
	return m.create(ctx, ownerID, tripID, in)
}

func (m *mockCatchServicer) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error) {
	return m.getByID(ctx, ownerID, id)
}

func (m *mockCatchServicer) List(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) (domain.Page[domain.Catch], error) {
	return m.list(ctx, ownerID, tripID, filter, p)
}

func (m *mockCatchServicer) Update(ctx context.Context, ownerID, id uuid.UUID, upd domain.CatchUpdate) (domain.Catch, error) {
	return m.update(ctx, ownerID, id, upd)
}

func (m *mockCatchServicer) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}

type mockEquipmentServicer struct {
	replace func(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, desired []uuid.UUID) ([]domain.Assignment, error)
	add     func(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) (domain.Assignment, error)
	remove  func(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) error
}

func (m *mockEquipmentServicer) Replace(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, desired []uuid.UUID) ([]domain.Assignment, error) {
	return m.replace(ctx, ownerID, tripID, kind, desired)
}

func (m *mockEquipmentServicer) Add(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) (domain.Assignment, error) {
	return m.add(ctx, ownerID, tripID, kind, equipmentID)
}

func (m *mockEquipmentServicer) Remove(ctx context.Context, ownerID, tripID uuid.UUID, kind domain.EquipmentKind, equipmentID uuid.UUID) error {
	return m.remove(ctx, ownerID, tripID, kind, equipmentID)
}

type mockWeatherServicer struct {
	create func(ctx context.Context, ownerID, tripID uuid.UUID, in service.CreateWeatherInput) (domain.WeatherSnapshot, error)
	list   func(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) (domain.Page[domain.WeatherSnapshot], error)
	delete func(ctx context.Context, ownerID, id uuid.UUID) error
}

func (m *mockWeatherServicer) Create(ctx context.Context, ownerID, tripID uuid.UUID, in service.CreateWeatherInput) (domain.WeatherSnapshot, error) {
	return m.create(ctx, ownerID, tripID, in)
}

func (m *mockWeatherServicer) List(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) (domain.Page[domain.WeatherSnapshot], error) {
	return m.list(ctx, ownerID, tripID, p)
}

func (m *mockWeatherServicer) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}

type mockPhotoServicer struct {
	upload          func(ctx context.Context, ownerID, catchID uuid.UUID, raw []byte) (domain.PhotoArtifact, error)
	delete          func(ctx context.Context, ownerID, catchID uuid.UUID) error
	signedUploadURL func(ctx context.Context, ownerID, catchID uuid.UUID, ext string) (service.SignedUpload, error)
	confirm         func(ctx context.Context, ownerID, catchID uuid.UUID, path string) error
	signedURL       func(ctx context.Context, ownerID uuid.UUID, path string) (string, error)
}

func (m *mockPhotoServicer) Upload(ctx context.Context, ownerID, catchID uuid.UUID, raw []byte) (domain.PhotoArtifact, error) {
	return m.upload(ctx, ownerID, catchID, raw)
}

func (m *mockPhotoServicer) Delete(ctx context.Context, ownerID, catchID uuid.UUID) error {
	return m.delete(ctx, ownerID, catchID)
}

func (m *mockPhotoServicer) SignedUploadURL(ctx context.Context, ownerID, catchID uuid.UUID, ext string) (service.SignedUpload, error) {
	return m.signedUploadURL(ctx, ownerID, catchID, ext)
}

func (m *mockPhotoServicer) ConfirmDirectUpload(ctx context.Context, ownerID, catchID uuid.UUID, path string) error {
	return m.confirm(ctx, ownerID, catchID, path)
}

func (m *mockPhotoServicer) SignedURL(ctx context.Context, ownerID uuid.UUID, path string) (string, error) {
	return m.signedURL(ctx, ownerID, path)
}

type mockExportServicer struct {
	rows func(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Rows(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	return m.rows(ctx, ownerID)
}

var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.CatchServicer     = (*mockCatchServicer)(nil)
	_ handler.EquipmentServicer = (*mockEquipmentServicer)(nil)
	_ handler.WeatherServicer   = (*mockWeatherServicer)(nil)
	_ handler.PhotoServicer     = (*mockPhotoServicer)(nil)
	_ handler.ExportServicer    = (*mockExportServicer)(nil)
)

// ---- Test harness ----

var testOwnerID = uuid.MustParse("3f2a7c1e-9b4d-4e8f-a1c2-d3e4f5a6b7c8")

type deps struct {
	trips     *mockTripServicer
	catches   *mockCatchServicer
	equipment *mockEquipmentServicer
	weather   *mockWeatherServicer
	photos    *mockPhotoServicer
	export    *mockExportServicer
}

// newTestRouter mounts a Server built from d on a bare chi router.
// Nil mocks are replaced with empty ones so any call panics.
func newTestRouter(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.catches == nil {
		d.catches = &mockCatchServicer{}
	}
	if d.equipment == nil {
		d.equipment = &mockEquipmentServicer{}
	}
	if d.weather == nil {
		d.weather = &mockWeatherServicer{}
	}
	if d.photos == nil {
		d.photos = &mockPhotoServicer{}
	}
	if d.export == nil {
		d.export = &mockExportServicer{}
	}

	r := chi.NewRouter()
	srv := handler.NewServer(d.trips, d.catches, d.equipment, d.weather, d.photos, d.export)
	srv.Routes(r)
	return r
}

// doRequest performs one request against the router with the test owner header
// set and returns the recorded response.
func doRequest(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("X-User-ID", testOwnerID.String())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
