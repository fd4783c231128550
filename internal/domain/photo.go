package domain

import "strings"

// PhotoArtifact describes the stored result of a photo ingestion run.
// It is a derived value, not a persisted entity; the only durable trace is
// the catch row's photo path plus the blob itself.
type PhotoArtifact struct {
	StoragePath string `json:"storage_path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ByteSize    int    `json:"byte_size"`
}

// photoExts is the fixed allow-list of photo path extensions.
// jpg is the canonical server-transformed output; the others are accepted on
// the direct-upload path.
var photoExts = map[string]bool{
	"webp": true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// ValidPhotoExt reports whether ext (without dot, case-insensitive) is allowed.
func ValidPhotoExt(ext string) bool {
	return photoExts[strings.ToLower(ext)]
}

// ValidatePhotoPath reports whether path may be trusted on behalf of ownerID.
// It is the sole gate before acting on a client-supplied path and performs no
// I/O. A path is valid iff it has exactly two non-empty /-delimited segments,
// the first equals ownerID, no segment is "..", and its extension is on the
// allow-list (case-insensitive).
func ValidatePhotoPath(path, ownerID string) bool {
	if ownerID == "" {
		return false
	}

	segments := strings.Split(path, "/")
	if len(segments) != 2 {
		return false
	}
	for _, seg := range segments {
		if seg == "" || seg == ".." {
			return false
		}
	}
	if segments[0] != ownerID {
		return false
	}

	name := segments[1]
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return false
	}
	return ValidPhotoExt(name[dot+1:])
}
