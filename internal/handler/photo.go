package handler

import (
	"io"
	"net/http"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// UploadPhoto handles POST /catches/{catchID}/photo.
// The body is the raw image bytes; the pipeline transforms, stores, and links
// them. Size is capped by the max-body middleware.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	catchID, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, r, domain.Validationf("could not read request body"))
		return
	}
	if len(raw) == 0 {
		respondError(w, r, domain.Validationf("request body is empty"))
		return
	}

	artifact, err := s.photos.Upload(r.Context(), owner, catchID, raw)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, artifact)
}

// DeletePhoto handles DELETE /catches/{catchID}/photo.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	catchID, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.photos.Delete(r.Context(), owner, catchID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PhotoURLResponse is the body returned by GET /catches/{catchID}/photo.
type PhotoURLResponse struct {
	URL string `json:"url"`
}

// GetPhotoURL handles GET /catches/{catchID}/photo.
// Returns a time-limited read URL for the catch's stored photo.
func (s *Server) GetPhotoURL(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	catchID, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	c, err := s.catches.GetByID(r.Context(), owner, catchID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if c.PhotoPath == nil {
		respondError(w, r, domain.NotFoundf("catch has no photo"))
		return
	}

	url, err := s.photos.SignedURL(r.Context(), owner, *c.PhotoPath)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, PhotoURLResponse{URL: url})
}

// PhotoUploadURLRequest is the body of POST /catches/{catchID}/photo/upload-url.
type PhotoUploadURLRequest struct {
	Ext string `json:"ext"`
}

// CreatePhotoUploadURL handles POST /catches/{catchID}/photo/upload-url.
// Issues a signed direct-upload URL; the client confirms with /photo/confirm
// once the bytes are in place.
func (s *Server) CreatePhotoUploadURL(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	catchID, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req PhotoUploadURLRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	grant, err := s.photos.SignedUploadURL(r.Context(), owner, catchID, req.Ext)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, grant)
}

// ConfirmPhotoRequest is the body of POST /catches/{catchID}/photo/confirm.
type ConfirmPhotoRequest struct {
	Path string `json:"path"`
}

// ConfirmPhoto handles POST /catches/{catchID}/photo/confirm.
func (s *Server) ConfirmPhoto(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	catchID, err := pathUUID(r, "catchID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req ConfirmPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.photos.ConfirmDirectUpload(r.Context(), owner, catchID, req.Path); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
