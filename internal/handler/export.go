package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_status", "trip_started_at", "trip_ended_at",
	"trip_location_label", "catch_id", "caught_at", "species_id",
	"lure_name", "groundbait_name", "weight_grams", "length_mm", "photo_path",
}

// Export handles GET /export.
// Returns the owner's full log as a flat table, one row per catch.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := s.export.Rows(r.Context(), owner)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// csv.Writer on a bytes.Buffer never returns a write error.
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(csvRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fishing-log.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// csvRecord encodes an ExportRow as a flat string slice in csvHeaders order.
// Zero numeric values on catch-less rows render as empty strings.
func csvRecord(row domain.ExportRow) []string {
	weight, length := "", ""
	if row.CatchID != "" {
		weight = strconv.Itoa(row.WeightGrams)
		length = strconv.Itoa(row.LengthMM)
	}
	return []string{
		row.TripID,
		row.TripTitle,
		row.TripStatus,
		row.TripStartedAt,
		row.TripEndedAt,
		row.TripLocationLabel,
		row.CatchID,
		row.CaughtAt,
		row.SpeciesID,
		row.LureName,
		row.GroundbaitName,
		weight,
		length,
		row.PhotoPath,
	}
}
