package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeatherSource records how a snapshot was produced.
// Manual snapshots always win over api snapshots when resolving the trip's
// "current weather", regardless of recency.
type WeatherSource string

const (
	WeatherSourceAPI    WeatherSource = "api"
	WeatherSourceManual WeatherSource = "manual"
)

// ValidWeatherSource reports whether s is one of the known sources.
func ValidWeatherSource(s WeatherSource) bool {
	return s == WeatherSourceAPI || s == WeatherSourceManual
}

// WeatherSnapshot captures the weather over a period of a trip.
// A manual snapshot must carry at least one hour. Deleting a snapshot
// cascades to its hours.
type WeatherSnapshot struct {
	ID          uuid.UUID     `json:"id"`
	TripID      uuid.UUID     `json:"trip_id"`
	Source      WeatherSource `json:"source"`
	FetchedAt   time.Time     `json:"fetched_at"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	CreatedAt   time.Time     `json:"created_at"`
	Hours       []WeatherHour `json:"hours,omitempty"`
}

// WeatherHour is a single hourly observation under a snapshot.
// All numeric fields are optional; a manual entry may record only some.
type WeatherHour struct {
	ID          uuid.UUID `json:"id"`
	SnapshotID  uuid.UUID `json:"snapshot_id"`
	ObservedAt  time.Time `json:"observed_at"`
	TempC       *float64  `json:"temp_c,omitempty"`
	WindMS      *float64  `json:"wind_ms,omitempty"`
	PressureHPA *float64  `json:"pressure_hpa,omitempty"`
	HumidityPct *int      `json:"humidity_pct,omitempty"`
	PrecipMM    *float64  `json:"precip_mm,omitempty"`
}
