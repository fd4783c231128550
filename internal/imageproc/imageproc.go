// Package imageproc normalizes uploaded photos: decode, auto-rotate from
// embedded orientation metadata, downscale to fit a bounding box, and
// re-encode as JPEG. Re-encoding strips all embedded metadata as a side
// effect, which is the point; stored photos carry no EXIF.
package imageproc

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Result is a transformed photo ready for storage.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Transform runs the normalization pipeline on raw image bytes.
// Images already within maxDim are never upscaled. The output is always JPEG
// at the given quality (1-100), regardless of the input format.
//
// A decode failure means the input was not a valid image; callers should
// treat that as bad input, not a server fault.
func Transform(raw []byte, maxDim, quality int) (Result, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("imageproc.Transform: decode: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		bounds = img.Bounds()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Result{}, fmt.Errorf("imageproc.Transform: encode: %w", err)
	}

	return Result{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
