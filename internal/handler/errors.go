package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// ErrorDetail is the code+message pair inside the error envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the wire envelope for every error the API returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// respondError writes the envelope for err. Domain errors carry their own
// status and public message; anything else is treated as internal_error so an
// unexpected failure can never leak its cause to the caller. Server-side
// failures are logged with the request logger before being masked.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	de, ok := domain.AsError(err)
	if !ok {
		de = domain.Internal("internal error", err)
	}

	status := de.HTTPStatus()
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}

	respondJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Code:    string(de.Code),
		Message: de.PublicMessage(),
	}})
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
// All failures come back as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validationf("invalid request body")
	}
	return nil
}
