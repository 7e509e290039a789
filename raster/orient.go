package raster

import "geocam.dev/geocam"

// orientationOp corrects one EXIF orientation value: rotate clockwise by
// quarter turns, then flip horizontally. Every one of the eight EXIF cases
// reduces to this composition, so a single rotate routine and a single flip
// routine cover all of them.
type orientationOp struct {
	quarterTurns int
	flipH        bool
}

var orientationOps = map[int]orientationOp{
	1: {0, false},
	2: {0, true},
	3: {2, false},
	4: {2, true},
	5: {1, true},
	6: {1, false},
	7: {3, true},
	8: {3, false},
}

// NormalizeOrientation rotates/flips the pixel data so that the stored
// orientation matches EXIF tag 1 ("up"). A raster that skips normalization
// hashes differently and fails verification even if authentic.
func NormalizeOrientation(r *Raster, exifOrientation int) (*Raster, error) {
	op, ok := orientationOps[exifOrientation]
	if !ok {
		return nil, geocam.NewError(geocam.KindDecode, "GC-RAS-002", "unsupported EXIF orientation value")
	}
	out := Rotate90(r, op.quarterTurns)
	if op.flipH {
		out = FlipHorizontal(out)
	}
	return out, nil
}

// RotateToPortrait rotates the raster 90 degrees clockwise when it is wider
// than tall, so the "last row" signature convention always lands on the
// short bottom edge of a portrait-oriented image.
func RotateToPortrait(r *Raster) *Raster {
	if r.Width > r.Height {
		return Rotate90(r, 1)
	}
	return r
}

// Rotate90 rotates the raster clockwise by quarterTurns*90 degrees and
// returns a new raster; the input is left untouched. quarterTurns is taken
// modulo 4.
func Rotate90(r *Raster, quarterTurns int) *Raster {
	quarterTurns = ((quarterTurns % 4) + 4) % 4
	if quarterTurns == 0 {
		return r
	}

	w, h := r.Width, r.Height
	var out *Raster
	switch quarterTurns {
	case 1:
		out = &Raster{Width: h, Height: w, Pix: make([]byte, len(r.Pix))}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				// (x, y) -> (h-1-y, x)
				copy(out.pixel(h-1-y, x), r.pixel(x, y))
			}
		}
	case 2:
		out = &Raster{Width: w, Height: h, Pix: make([]byte, len(r.Pix))}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				copy(out.pixel(w-1-x, h-1-y), r.pixel(x, y))
			}
		}
	case 3:
		out = &Raster{Width: h, Height: w, Pix: make([]byte, len(r.Pix))}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				// (x, y) -> (y, w-1-x)
				copy(out.pixel(y, w-1-x), r.pixel(x, y))
			}
		}
	}
	return out
}

// FlipHorizontal mirrors the raster across its vertical axis and returns a
// new raster.
func FlipHorizontal(r *Raster) *Raster {
	out := &Raster{Width: r.Width, Height: r.Height, Pix: make([]byte, len(r.Pix))}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			copy(out.pixel(r.Width-1-x, y), r.pixel(x, y))
		}
	}
	return out
}

// FlipVertical mirrors the raster across its horizontal axis and returns a
// new raster.
func FlipVertical(r *Raster) *Raster {
	out := &Raster{Width: r.Width, Height: r.Height, Pix: make([]byte, len(r.Pix))}
	rowBytes := r.Width * 4
	for y := 0; y < r.Height; y++ {
		copy(out.Pix[(r.Height-1-y)*rowBytes:(r.Height-y)*rowBytes], r.Pix[y*rowBytes:(y+1)*rowBytes])
	}
	return out
}
