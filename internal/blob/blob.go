// Package blob provides the object-storage capability used by the photo
// pipeline. The Store interface is the seam services depend on; the S3
// implementation lives in s3.go.
package blob

import (
	"context"
	"time"
)

// Store is the minimal blob-store capability: byte upload/removal, an
// existence probe, and time-limited signed URLs for direct client access.
// Implementations must make Upload overwrite any existing object at the path
// and make Remove idempotent (removing a missing object is not an error).
type Store interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Remove(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)

	// SignedURL returns a time-limited read URL for an existing object.
	SignedURL(ctx context.Context, path string, expires time.Duration) (string, error)

	// SignedUploadURL returns a time-limited write URL for the given path.
	SignedUploadURL(ctx context.Context, path, contentType string, expires time.Duration) (string, error)
}
