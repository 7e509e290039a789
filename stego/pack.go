// Package stego packs byte sequences and UTF-16 text into the alpha channel
// of pixel regions, and implements the metadata and signature region codecs
// on top of that.
//
// Two packing primitives exist. Byte packing writes one byte per pixel's
// alpha. Text packing writes each UTF-16 code unit big-endian as two alpha
// bytes across two consecutive pixels; this byte-paired scheme replaced an
// earlier bit-by-bit LSB scheme that was a recurring source of embed/extract
// mismatches and survives only as a read-only decoder for generation-1
// images.
package stego

import (
	"unicode/utf16"

	"geocam.dev/geocam"
	"geocam.dev/geocam/raster"
)

// Region is a contiguous row-major pixel range.
type Region struct {
	Start  int
	Pixels int
}

// MetadataRegion covers every row except the last.
func MetadataRegion(r *raster.Raster) Region {
	return Region{Start: 0, Pixels: (r.Height - 1) * r.Width}
}

// SignatureRegion covers the last row only.
func SignatureRegion(r *raster.Raster) Region {
	return Region{Start: (r.Height - 1) * r.Width, Pixels: r.Width}
}

func checkRegion(r *raster.Raster, reg Region) error {
	if reg.Start < 0 || reg.Pixels < 0 || reg.Start+reg.Pixels > r.PixelCount() {
		return geocam.NewError(geocam.KindInternal, "GC-PACK-002", "region exceeds raster bounds")
	}
	return nil
}

// PackBytes writes one byte of data into the alpha channel of each
// consecutive pixel within reg, in sequence order. Nothing is written when
// data does not fit.
func PackBytes(r *raster.Raster, reg Region, data []byte) error {
	if err := checkRegion(r, reg); err != nil {
		return err
	}
	if len(data) > reg.Pixels {
		return geocam.NewError(geocam.KindCapacity, "GC-PACK-001", "byte sequence exceeds region capacity")
	}
	for i, b := range data {
		r.SetAlpha(reg.Start+i, b)
	}
	return nil
}

// UnpackBytes reads n alpha bytes from reg.
func UnpackBytes(r *raster.Raster, reg Region, n int) ([]byte, error) {
	if err := checkRegion(r, reg); err != nil {
		return nil, err
	}
	if n < 0 || n > reg.Pixels {
		return nil, geocam.NewError(geocam.KindCapacity, "GC-PACK-003", "read length exceeds region capacity")
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = r.Alpha(reg.Start + i)
	}
	return out, nil
}

// TextCapacity returns how many UTF-16 code units fit in reg under the
// byte-paired scheme: two alpha bytes per code unit.
func TextCapacity(reg Region) int {
	return reg.Pixels / 2
}

// PackText writes each UTF-16 code unit of text big-endian into two
// consecutive pixels' alpha channels.
func PackText(r *raster.Raster, reg Region, text string) error {
	units := utf16.Encode([]rune(text))
	return PackUnits(r, reg, units)
}

// PackUnits writes raw UTF-16 code units under the byte-paired scheme.
func PackUnits(r *raster.Raster, reg Region, units []uint16) error {
	if err := checkRegion(r, reg); err != nil {
		return err
	}
	if len(units) > TextCapacity(reg) {
		return geocam.NewError(geocam.KindCapacity, "GC-PACK-001", "text exceeds region capacity")
	}
	for i, u := range units {
		r.SetAlpha(reg.Start+i*2, byte(u>>8))
		r.SetAlpha(reg.Start+i*2+1, byte(u))
	}
	return nil
}

// UnpackUnits reads every whole UTF-16 code unit reg can hold. It never
// reads past the region bounds; interpreting where the payload ends (null
// unit, delimiter, or balanced JSON object) is the caller's concern.
func UnpackUnits(r *raster.Raster, reg Region) ([]uint16, error) {
	if err := checkRegion(r, reg); err != nil {
		return nil, err
	}
	out := make([]uint16, TextCapacity(reg))
	for i := range out {
		hi := r.Alpha(reg.Start + i*2)
		lo := r.Alpha(reg.Start + i*2 + 1)
		out[i] = uint16(hi)<<8 | uint16(lo)
	}
	return out, nil
}

// textUntilNull decodes units up to (not including) the first 0x0000 unit.
func textUntilNull(units []uint16) string {
	for i, u := range units {
		if u == 0 {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}
