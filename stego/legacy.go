package stego

import (
	"geocam.dev/geocam"
	"geocam.dev/geocam/raster"
)

// Generation-1 images packed one bit per alpha LSB, sixteen pixels per
// UTF-16 code unit, most significant bit first. The scheme is decode-only:
// new encodes always use the byte-paired scheme.

const legacyPixelsPerUnit = 16

// LegacyTextCapacity returns reg's capacity in code units under the 1-bit
// scheme.
func LegacyTextCapacity(reg Region) int {
	return reg.Pixels / legacyPixelsPerUnit
}

func unpackUnitsLegacy(r *raster.Raster, reg Region) ([]uint16, error) {
	if reg.Start < 0 || reg.Pixels < 0 || reg.Start+reg.Pixels > r.PixelCount() {
		return nil, geocam.NewError(geocam.KindInternal, "GC-PACK-002", "region exceeds raster bounds")
	}
	out := make([]uint16, LegacyTextCapacity(reg))
	for i := range out {
		var u uint16
		for bit := 0; bit < legacyPixelsPerUnit; bit++ {
			u <<= 1
			u |= uint16(r.Alpha(reg.Start+i*legacyPixelsPerUnit+bit) & 1)
		}
		out[i] = u
	}
	return out, nil
}
