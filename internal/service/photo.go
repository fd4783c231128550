package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tkarhu/fishing-log/internal/blob"
	"github.com/tkarhu/fishing-log/internal/domain"
	"github.com/tkarhu/fishing-log/internal/imageproc"
	"github.com/tkarhu/fishing-log/internal/repo"
)

const (
	// photoMaxDim bounds the longer edge of a stored photo. Images already
	// within the bound are never upscaled.
	photoMaxDim = 2048
	// photoQuality is the JPEG quality of the canonical stored format.
	photoQuality = 85

	photoContentType = "image/jpeg"
	photoExt         = "jpg"
)

// PhotoService runs the photo ingestion pipeline: transform, store, link,
// with a compensating delete when the link step fails. Relational writes and
// blob writes are not transactional together, so ordering carries the
// invariant: a catch row points at a real blob or at nothing.
type PhotoService struct {
	catches repo.CatchRepo
	blobs   blob.Store
	urlTTL  time.Duration
}

// NewPhotoService constructs a PhotoService. urlTTL is the fixed expiry for
// signed read and upload URLs; callers refresh before it elapses.
func NewPhotoService(catches repo.CatchRepo, blobs blob.Store, urlTTL time.Duration) *PhotoService {
	return &PhotoService{catches: catches, blobs: blobs, urlTTL: urlTTL}
}

// Upload ingests raw photo bytes for a catch.
//
// Steps, strictly ordered:
//  1. transform: decode, auto-rotate, fit within the size bound, re-encode
//     to JPEG with metadata stripped. Failure means the input was malformed,
//     not the server, so it surfaces as a validation error.
//  2. store: write to {ownerID}/{catchID}.jpg, overwriting any previous
//     photo.
//  3. link: set the catch's photo path. On failure the just-written blob is
//     removed before the error is returned, so no blob is left unreferenced
//     and no catch points at a missing blob.
func (s *PhotoService) Upload(ctx context.Context, ownerID, catchID uuid.UUID, raw []byte) (domain.PhotoArtifact, error) {
	if _, err := s.catches.GetByID(ctx, ownerID, catchID); err != nil {
		return domain.PhotoArtifact{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}

	result, err := imageproc.Transform(raw, photoMaxDim, photoQuality)
	if err != nil {
		return domain.PhotoArtifact{}, domain.Validationf("invalid or unsupported image data")
	}

	path := photoPath(ownerID, catchID, photoExt)
	if err := s.blobs.Upload(ctx, path, result.Data, photoContentType); err != nil {
		return domain.PhotoArtifact{}, domain.Internal("photo upload failed", err)
	}

	if err := s.catches.SetPhotoPath(ctx, ownerID, catchID, &path); err != nil {
		// Compensate: the blob must not outlive a failed link.
		_ = s.blobs.Remove(ctx, path)
		return domain.PhotoArtifact{}, fmt.Errorf("service.PhotoService.Upload: link: %w", err)
	}

	return domain.PhotoArtifact{
		StoragePath: path,
		Width:       result.Width,
		Height:      result.Height,
		ByteSize:    len(result.Data),
	}, nil
}

// Delete removes a catch's photo: blob first (best-effort, a missing blob is
// not an error), then the path on the catch row. A failure clearing the path
// is surfaced; the blob is already gone either way.
func (s *PhotoService) Delete(ctx context.Context, ownerID, catchID uuid.UUID) error {
	c, err := s.catches.GetByID(ctx, ownerID, catchID)
	if err != nil {
		return fmt.Errorf("service.PhotoService.Delete: %w", err)
	}
	if c.PhotoPath == nil {
		return nil // nothing to delete
	}

	_ = s.blobs.Remove(ctx, *c.PhotoPath)

	if err := s.catches.SetPhotoPath(ctx, ownerID, catchID, nil); err != nil {
		return fmt.Errorf("service.PhotoService.Delete: clear path: %w", err)
	}
	return nil
}

// SignedUpload is a time-limited direct-upload grant.
type SignedUpload struct {
	URL       string `json:"url"`
	Path      string `json:"path"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// SignedUploadURL issues a time-limited write URL for a direct client upload
// to {ownerID}/{catchID}.{ext}, bypassing the server-side transform.
func (s *PhotoService) SignedUploadURL(ctx context.Context, ownerID, catchID uuid.UUID, ext string) (SignedUpload, error) {
	ext = strings.ToLower(ext)
	if !domain.ValidPhotoExt(ext) {
		return SignedUpload{}, domain.Validationf("unsupported photo extension %q", ext)
	}
	if _, err := s.catches.GetByID(ctx, ownerID, catchID); err != nil {
		return SignedUpload{}, fmt.Errorf("service.PhotoService.SignedUploadURL: %w", err)
	}

	path := photoPath(ownerID, catchID, ext)
	url, err := s.blobs.SignedUploadURL(ctx, path, contentTypeFor(ext), s.urlTTL)
	if err != nil {
		return SignedUpload{}, domain.Internal("signing upload URL failed", err)
	}

	return SignedUpload{URL: url, Path: path, ExpiresIn: int(s.urlTTL.Seconds())}, nil
}

// ConfirmDirectUpload links a client-supplied path after a direct upload.
// ValidatePhotoPath gates the path before anything trusts it: traversal,
// cross-owner paths, and unknown extensions are all rejected. The blob must
// actually exist before the catch row is pointed at it.
func (s *PhotoService) ConfirmDirectUpload(ctx context.Context, ownerID, catchID uuid.UUID, path string) error {
	if !domain.ValidatePhotoPath(path, ownerID.String()) {
		return domain.Validationf("invalid photo path")
	}
	if _, err := s.catches.GetByID(ctx, ownerID, catchID); err != nil {
		return fmt.Errorf("service.PhotoService.ConfirmDirectUpload: %w", err)
	}

	exists, err := s.blobs.Exists(ctx, path)
	if err != nil {
		return domain.Internal("photo existence check failed", err)
	}
	if !exists {
		return domain.Validationf("no uploaded photo at path")
	}

	if err := s.catches.SetPhotoPath(ctx, ownerID, catchID, &path); err != nil {
		return fmt.Errorf("service.PhotoService.ConfirmDirectUpload: %w", err)
	}
	return nil
}

// SignedURL issues a time-limited read URL for an existing photo path.
func (s *PhotoService) SignedURL(ctx context.Context, ownerID uuid.UUID, path string) (string, error) {
	if !domain.ValidatePhotoPath(path, ownerID.String()) {
		return "", domain.Validationf("invalid photo path")
	}

	url, err := s.blobs.SignedURL(ctx, path, s.urlTTL)
	if err != nil {
		return "", domain.Internal("signing read URL failed", err)
	}
	return url, nil
}

func photoPath(ownerID, catchID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", ownerID, catchID, ext)
}

func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
