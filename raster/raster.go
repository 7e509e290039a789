// Package raster implements the canonical in-memory RGBA raster the codec
// operates on, plus the orientation transforms that must be applied
// identically before encoding and before verification.
package raster

import (
	"image"
	"image/draw"
)

// Raster is a row-major RGBA raster, 4 bytes per pixel in R,G,B,A order.
// Alpha is stored non-premultiplied so that alpha-channel writes never
// disturb color channels.
//
// Invariant: len(Pix) == Width*Height*4. Encoders mutate Pix in place and
// never resize it.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a fully opaque raster of the given dimensions.
func New(width, height int) *Raster {
	r := &Raster{Width: width, Height: height, Pix: make([]byte, width*height*4)}
	for i := 3; i < len(r.Pix); i += 4 {
		r.Pix[i] = 0xFF
	}
	return r
}

// FromImage converts any decoded image into a Raster.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	return &Raster{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix}
}

// PixelCount returns the number of pixels.
func (r *Raster) PixelCount() int {
	return r.Width * r.Height
}

// Alpha returns the alpha byte of the i-th pixel in row-major order.
func (r *Raster) Alpha(i int) byte {
	return r.Pix[i*4+3]
}

// SetAlpha overwrites the alpha byte of the i-th pixel in row-major order.
func (r *Raster) SetAlpha(i int, v byte) {
	r.Pix[i*4+3] = v
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	return &Raster{Width: r.Width, Height: r.Height, Pix: append([]byte(nil), r.Pix...)}
}

// pixel returns the 4-byte slice for (x, y).
func (r *Raster) pixel(x, y int) []byte {
	off := (y*r.Width + x) * 4
	return r.Pix[off : off+4 : off+4]
}
