package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

// WeatherService implements business logic for weather snapshots.
type WeatherService struct {
	weather repo.WeatherRepo
	trips   repo.TripRepo
}

// NewWeatherService constructs a WeatherService backed by the provided repos.
func NewWeatherService(weather repo.WeatherRepo, trips repo.TripRepo) *WeatherService {
	return &WeatherService{weather: weather, trips: trips}
}

// CreateWeatherInput carries the fields of a new snapshot.
type CreateWeatherInput struct {
	Source      domain.WeatherSource
	FetchedAt   time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Hours       []domain.WeatherHour
}

// Create validates and persists a snapshot with its hours.
// A manual snapshot requires at least one hour; api snapshots may be empty.
func (s *WeatherService) Create(ctx context.Context, ownerID, tripID uuid.UUID, in CreateWeatherInput) (domain.WeatherSnapshot, error) {
	if _, err := s.trips.GetByID(ctx, ownerID, tripID); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("service.WeatherService.Create: %w", err)
	}

	if !domain.ValidWeatherSource(in.Source) {
		return domain.WeatherSnapshot{}, domain.Validationf("source must be api or manual")
	}
	if in.PeriodEnd.Before(in.PeriodStart) {
		return domain.WeatherSnapshot{}, domain.Validationf("period_end must not be before period_start")
	}
	if in.Source == domain.WeatherSourceManual && len(in.Hours) == 0 {
		return domain.WeatherSnapshot{}, domain.Validationf("a manual snapshot requires at least one hour")
	}
	for _, h := range in.Hours {
		if h.ObservedAt.IsZero() {
			return domain.WeatherSnapshot{}, domain.Validationf("every hour requires observed_at")
		}
	}

	fetchedAt := in.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	created, err := s.weather.Create(ctx, domain.WeatherSnapshot{
		TripID:      tripID,
		Source:      in.Source,
		FetchedAt:   fetchedAt,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		Hours:       in.Hours,
	})
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("service.WeatherService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns one snapshot with hours attached.
func (s *WeatherService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.WeatherSnapshot, error) {
	snap, err := s.weather.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("service.WeatherService.GetByID: %w", err)
	}
	return snap, nil
}

// List returns one page of a trip's snapshots, sorted by fetched_at.
func (s *WeatherService) List(ctx context.Context, ownerID, tripID uuid.UUID, p domain.ListParams) (domain.Page[domain.WeatherSnapshot], error) {
	if p.Sort == "" {
		p.Sort = "fetched_at"
	}

	snaps, next, err := s.weather.ListByTrip(ctx, ownerID, tripID, p)
	if err != nil {
		return domain.Page[domain.WeatherSnapshot]{}, fmt.Errorf("service.WeatherService.List: %w", err)
	}
	return domain.NewPage(snaps, p.Limit, next), nil
}

// Delete removes a snapshot and, via cascade, its hours.
func (s *WeatherService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.weather.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.WeatherService.Delete: %w", err)
	}
	return nil
}
