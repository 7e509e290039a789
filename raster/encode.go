package raster

import (
	"bytes"
	"image"
	"image/png"

	"geocam.dev/geocam"
)

// EncodePNG serializes the raster into a lossless PNG container. PNG is the
// only output format: any lossy re-compression after this point would alter
// pixel values and invalidate the embedded signature by construction.
func EncodePNG(r *Raster) ([]byte, error) {
	n := &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, n); err != nil {
		return nil, geocam.WrapError(geocam.KindInternal, "GC-RAS-004", "png encode failed", err)
	}
	return buf.Bytes(), nil
}
