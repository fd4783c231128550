package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

func snapshotFixture(tripID uuid.UUID, source domain.WeatherSource, fetchedAt time.Time) domain.WeatherSnapshot {
	temp := 14.5
	pressure := 1013.2
	return domain.WeatherSnapshot{
		TripID:      tripID,
		Source:      source,
		FetchedAt:   fetchedAt,
		PeriodStart: fetchedAt.Add(-time.Hour),
		PeriodEnd:   fetchedAt,
		Hours: []domain.WeatherHour{
			{ObservedAt: fetchedAt.Add(-time.Hour), TempC: &temp, PressureHPA: &pressure},
		},
	}
}

func TestWeatherRepo_CreateWithHours(t *testing.T) {
	tx := testTx(t)
	r := repo.NewWeatherRepo(tx)
	ctx := context.Background()
	owner := uuid.New()

	trip := mustCreateTrip(t, tx, tripFixture(owner))

	created, err := r.Create(ctx, snapshotFixture(trip.ID, domain.WeatherSourceManual, trip.StartedAt))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Hours, 1)
	assert.Equal(t, created.ID, created.Hours[0].SnapshotID)
	require.NotNil(t, created.Hours[0].PressureHPA)
	assert.InDelta(t, 1013.2, *created.Hours[0].PressureHPA, 0.001)

	got, err := r.GetByID(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Hours, 1)
}

func TestWeatherRepo_DeleteCascadesHours(t *testing.T) {
	tx := testTx(t)
	r := repo.NewWeatherRepo(tx)
	ctx := context.Background()
	owner := uuid.New()

	trip := mustCreateTrip(t, tx, tripFixture(owner))
	created, err := r.Create(ctx, snapshotFixture(trip.ID, domain.WeatherSourceManual, trip.StartedAt))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, owner, created.ID))

	_, err = r.GetByID(ctx, owner, created.ID)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	var hourCount int
	require.NoError(t, tx.QueryRow(ctx,
		`SELECT count(*) FROM weather_hours WHERE snapshot_id = $1`, created.ID).Scan(&hourCount))
	assert.Zero(t, hourCount)
}

func TestWeatherRepo_Current_ManualWinsOverNewerAPI(t *testing.T) {
	tx := testTx(t)
	r := repo.NewWeatherRepo(tx)
	ctx := context.Background()
	owner := uuid.New()

	trip := mustCreateTrip(t, tx, tripFixture(owner))

	manual, err := r.Create(ctx, snapshotFixture(trip.ID, domain.WeatherSourceManual, trip.StartedAt))
	require.NoError(t, err)

	// A fresher api snapshot must still lose to the manual one.
	_, err = r.Create(ctx, snapshotFixture(trip.ID, domain.WeatherSourceAPI, trip.StartedAt.Add(2*time.Hour)))
	require.NoError(t, err)

	got, err := r.Current(ctx, owner, trip.ID)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, manual.ID, got.ID)
	assert.NotEmpty(t, got.Hours)
}

func TestWeatherRepo_Current_NoSnapshots(t *testing.T) {
	tx := testTx(t)
	r := repo.NewWeatherRepo(tx)
	owner := uuid.New()

	trip := mustCreateTrip(t, tx, tripFixture(owner))

	got, err := r.Current(context.Background(), owner, trip.ID)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWeatherRepo_ListByTrip_Pages(t *testing.T) {
	tx := testTx(t)
	r := repo.NewWeatherRepo(tx)
	ctx := context.Background()
	owner := uuid.New()

	trip := mustCreateTrip(t, tx, tripFixture(owner))
	for i := 0; i < 3; i++ {
		snap := snapshotFixture(trip.ID, domain.WeatherSourceAPI, trip.StartedAt.Add(time.Duration(i)*time.Hour))
		snap.Hours = nil
		_, err := r.Create(ctx, snap)
		require.NoError(t, err)
	}

	p := domain.ListParams{Limit: 2, Sort: "fetched_at", Order: domain.OrderDesc}
	total := 0
	for {
		snaps, next, err := r.ListByTrip(ctx, owner, trip.ID, p)
		require.NoError(t, err)
		total += len(snaps)
		if next == nil {
			break
		}
		p.Cursor = next
	}

	assert.Equal(t, 3, total)
}
