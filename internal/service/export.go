package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/repo"
)

// exportPageSize is the internal page size used while walking the owner's
// trips. Export output itself is not paginated.
const exportPageSize = 100

// ExportService flattens an owner's full log into one row per catch.
type ExportService struct {
	trips   repo.TripRepo
	catches repo.CatchRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, catches repo.CatchRepo) *ExportService {
	return &ExportService{trips: trips, catches: catches}
}

// Rows returns one flat row per catch across all of the owner's non-deleted
// trips, oldest trip first. A trip without catches still yields one row with
// the catch fields left zero, so no trip silently disappears from an export.
func (s *ExportService) Rows(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	rows := []domain.ExportRow{}

	p := domain.ListParams{Limit: exportPageSize, Sort: "started_at", Order: domain.OrderAsc}
	for {
		trips, next, err := s.trips.List(ctx, ownerID, domain.TripFilter{}, p)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
		}

		for _, t := range trips {
			catches, err := s.catches.ListAllByTrip(ctx, ownerID, t.ID)
			if err != nil {
				return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
			}
			if len(catches) == 0 {
				rows = append(rows, exportRow(t, nil))
				continue
			}
			for i := range catches {
				rows = append(rows, exportRow(t, &catches[i]))
			}
		}

		if next == nil {
			break
		}
		p.Cursor = next
	}

	return rows, nil
}

func exportRow(t domain.Trip, c *domain.Catch) domain.ExportRow {
	row := domain.ExportRow{
		TripID:        t.ID.String(),
		TripTitle:     t.Title,
		TripStatus:    string(t.Status),
		TripStartedAt: t.StartedAt.Format(time.RFC3339),
	}
	if t.EndedAt != nil {
		row.TripEndedAt = t.EndedAt.Format(time.RFC3339)
	}
	if t.Location != nil {
		row.TripLocationLabel = t.Location.Label
	}
	if c == nil {
		return row
	}

	row.CatchID = c.ID.String()
	row.CaughtAt = c.CaughtAt.Format(time.RFC3339)
	row.SpeciesID = c.SpeciesID.String()
	if c.LureName != nil {
		row.LureName = *c.LureName
	}
	if c.GroundbaitName != nil {
		row.GroundbaitName = *c.GroundbaitName
	}
	if c.WeightGrams != nil {
		row.WeightGrams = *c.WeightGrams
	}
	if c.LengthMM != nil {
		row.LengthMM = *c.LengthMM
	}
	if c.PhotoPath != nil {
		row.PhotoPath = *c.PhotoPath
	}
	return row
}
