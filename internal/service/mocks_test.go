package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/blob"
	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field; set only the ones your test needs. Calling an unset method
// panics, which is exactly what we want: it marks a repo call the test did
// not expect.

type mockTripRepo struct {
	create        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID       func(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, error)
	list          func(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) ([]domain.Trip, *domain.Cursor, error)
	update        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	softDelete    func(ctx context.Context, ownerID, id uuid.UUID) error
	latestByOwner func(ctx context.Context, ownerID, excludeID uuid.UUID) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockTripRepo) List(ctx context.Context, ownerID uuid.UUID, filter domain.TripFilter, p domain.ListParams) ([]domain.Trip, *domain.Cursor, error) {
	return m.list(ctx, ownerID, filter, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.softDelete(ctx, ownerID, id)
}
func (m *mockTripRepo) LatestByOwner(ctx context.Context, ownerID, excludeID uuid.UUID) (domain.Trip, error) {
	return m.latestByOwner(ctx, ownerID, excludeID)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockCatchRepo struct {
	create        func(ctx context.Context, c domain.Catch) (domain.Catch, error)
	getByID       func(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error)
	listByTrip    func(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) ([]domain.Catch, *domain.Cursor, error)
	listAllByTrip func(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Catch, error)
	update        func(ctx context.Context, ownerID uuid.UUID, c domain.Catch) (domain.Catch, error)
	delete        func(ctx context.Context, ownerID, id uuid.UUID) error
	setPhotoPath  func(ctx context.Context, ownerID, id uuid.UUID, path *string) error
}

func (m *mockCatchRepo) Create(ctx context.Context, c domain.Catch) (domain.Catch, error) {
	return m.create(ctx, c)
}
func (m *mockCatchRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Catch, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockCatchRepo) ListByTrip(ctx context.Context, ownerID, tripID uuid.UUID, filter domain.CatchFilter, p domain.ListParams) ([]domain.Catch, *domain.Cursor, error) {
	return m.listByTrip(ctx, ownerID, tripID, filter, p)
}
func (m *mockCatchRepo) ListAllByTrip(ctx context.Context, ownerID, tripID uuid.UUID) ([]domain.Catch, error) {
	return m.listAllByTrip(ctx, ownerID, tripID)
}
func (m *mockCatchRepo) Update(ctx context.Context, ownerID uuid.UUID, c domain.Catch) (domain.Catch, error) {
	return m.update(ctx, ownerID, c)
}
func (m *mockCatchRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}
func (m *mockCatchRepo) SetPhotoPath(ctx context.Context, ownerID, id uuid.UUID, path *string) error {
	return m.setPhotoPath(ctx, ownerID, id, path)
}

var _ repo.CatchRepo = (*mockCatchRepo)(nil)

type mockEquipmentRepo struct {
	getEquipment       func(ctx context.Context, id uuid.UUID) (domain.Equipment, error)
	getEquipmentBatch  func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Equipment, error)
	listAssignments    func(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind) ([]domain.Assignment, error)
	listAllAssignments func(ctx context.Context, tripID uuid.UUID) ([]domain.Assignment, error)
	insertAssignments  func(ctx context.Context, assignments []domain.Assignment) error
	deleteAssignments  func(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind, equipmentIDs []uuid.UUID) (int64, error)
}

func (m *mockEquipmentRepo) GetEquipment(ctx context.Context, id uuid.UUID) (domain.Equipment, error) {
	return m.getEquipment(ctx, id)
}
func (m *mockEquipmentRepo) GetEquipmentBatch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Equipment, error) {
	return m.getEquipmentBatch(ctx, ids)
}
func (m *mockEquipmentRepo) ListAssignments(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind) ([]domain.Assignment, error) {
	return m.listAssignments(ctx, tripID, kind)
}
func (m *mockEquipmentRepo) ListAllAssignments(ctx context.Context, tripID uuid.UUID) ([]domain.Assignment, error) {
	return m.listAllAssignments(ctx, tripID)
}
func (m *mockEquipmentRepo) InsertAssignments(ctx context.Context, assignments []domain.Assignment) error {
	return m.insertAssignments(ctx, assignments)
}
func (m *mockEquipmentRepo) DeleteAssignments(ctx context.Context, tripID uuid.UUID, kind domain.EquipmentKind, equipmentIDs []uuid.UUID) (int64, error) {
	return m.deleteAssignments(ctx, tripID, kind, equipmentIDs)
}

var _ repo.EquipmentRepo = (*mockEquipmentRepo)(nil)

type mockWeatherRepo struct {
	create     func(ctx context.Context, snap domain.WeatherSnapshot) (domain.WeatherSnapshot, error)
	getByID    func(ctx context.Context, ownerID, id uuid.UUID) (domain.WeatherSnapshot, error)
	listByTrip func(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) ([]domain.WeatherSnapshot, *domain.Cursor, error)
	delete     func(ctx context.Context, ownerID, id uuid.UUID) error
	current    func(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.WeatherSnapshot, error)
}

func (m *mockWeatherRepo) Create(ctx context.Context, snap domain.WeatherSnapshot) (domain.WeatherSnapshot, error) {
	return m.create(ctx, snap)
}
func (m *mockWeatherRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.WeatherSnapshot, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockWeatherRepo) ListByTrip(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) ([]domain.WeatherSnapshot, *domain.Cursor, error) {
	return m.listByTrip(ctx, ownerID, tripID, p)
}
func (m *mockWeatherRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}
func (m *mockWeatherRepo) Current(ctx context.Context, ownerID, tripID uuid.UUID) (*domain.WeatherSnapshot, error) {
	return m.current(ctx, ownerID, tripID)
}

var _ repo.WeatherRepo = (*mockWeatherRepo)(nil)

// mockBlobStore is a test double for blob.Store.
type mockBlobStore struct {
	upload          func(ctx context.Context, path string, data []byte, contentType string) error
	remove          func(ctx context.Context, path string) error
	exists          func(ctx context.Context, path string) (bool, error)
	signedURL       func(ctx context.Context, path string, expires time.Duration) (string, error)
	signedUploadURL func(ctx context.Context, path, contentType string, expires time.Duration) (string, error)
}

func (m *mockBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	return m.upload(ctx, path, data, contentType)
}
func (m *mockBlobStore) Remove(ctx context.Context, path string) error {
	return m.remove(ctx, path)
}
func (m *mockBlobStore) Exists(ctx context.Context, path string) (bool, error) {
	return m.exists(ctx, path)
}
func (m *mockBlobStore) SignedURL(ctx context.Context, path string, expires time.Duration) (string, error) {
	return m.signedURL(ctx, path, expires)
}
func (m *mockBlobStore) SignedUploadURL(ctx context.Context, path, contentType string, expires time.Duration) (string, error) {
	return m.signedUploadURL(ctx, path, contentType, expires)
}

var _ blob.Store = (*mockBlobStore)(nil)
