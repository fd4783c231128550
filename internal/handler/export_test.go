package handler_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarhu/fishing-log/internal/domain"
)

func exportFixture() []domain.ExportRow {
	return []domain.ExportRow{
		{
			TripID:        uuid.NewString(),
			TripTitle:     "Morning at the lake",
			TripStatus:    "closed",
			TripStartedAt: "2025-06-01T07:00:00Z",
			TripEndedAt:   "2025-06-01T12:00:00Z",
			CatchID:       uuid.NewString(),
			CaughtAt:      "2025-06-01T08:15:00Z",
			SpeciesID:     uuid.NewString(),
			LureName:      "Rapala Original 9cm",
			WeightGrams:   1250,
			LengthMM:      430,
		},
		{
			TripID:        uuid.NewString(),
			TripTitle:     "Skunked",
			TripStatus:    "closed",
			TripStartedAt: "2025-06-08T07:00:00Z",
			TripEndedAt:   "2025-06-08T09:00:00Z",
		},
	}
}

func TestExport_JSONByDefault(t *testing.T) {
	router := newTestRouter(deps{export: &mockExportServicer{
		rows: func(_ context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
			assert.Equal(t, testOwnerID, ownerID)
			return exportFixture(), nil
		},
	}})

	rec := doRequest(t, router, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Rapala Original 9cm")
}

func TestExport_CSV(t *testing.T) {
	router := newTestRouter(deps{export: &mockExportServicer{
		rows: func(context.Context, uuid.UUID) ([]domain.ExportRow, error) {
			return exportFixture(), nil
		},
	}})

	rec := doRequest(t, router, http.MethodGet, "/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fishing-log.csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "trip_id", records[0][0])
	assert.Equal(t, "photo_path", records[0][13])

	// Row with a catch carries its numbers; the catch-less row leaves them empty.
	assert.Equal(t, "1250", records[1][11])
	assert.Equal(t, "430", records[1][12])
	assert.Equal(t, "", records[2][11])
	assert.Equal(t, "", records[2][12])
}

func TestExport_EmptyLogIsEmptyArray(t *testing.T) {
	router := newTestRouter(deps{export: &mockExportServicer{
		rows: func(context.Context, uuid.UUID) ([]domain.ExportRow, error) {
			return []domain.ExportRow{}, nil
		},
	}})

	rec := doRequest(t, router, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
