package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per catch, with trip fields
// repeated for every catch on that trip. Trips with no catches yield one row
// with zero values for all catch fields. Timestamps are RFC 3339 strings;
// optional values render as their zero value.
type ExportRow struct {
	// Trip fields; repeated for every catch on the trip.
	TripID           string `json:"trip_id"`
	TripTitle        string `json:"trip_title"`
	TripStatus       string `json:"trip_status"`
	TripStartedAt    string `json:"trip_started_at"`
	TripEndedAt      string `json:"trip_ended_at"`
	TripLocationLabel string `json:"trip_location_label"`

	// Catch fields; zero values when the trip has no catches.
	CatchID        string `json:"catch_id"`
	CaughtAt       string `json:"caught_at"`
	SpeciesID      string `json:"species_id"`
	LureName       string `json:"lure_name"`
	GroundbaitName string `json:"groundbait_name"`
	WeightGrams    int    `json:"weight_grams"`
	LengthMM       int    `json:"length_mm"`
	PhotoPath      string `json:"photo_path"`
}
