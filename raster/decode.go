package raster

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"geocam.dev/geocam"
)

// Decode parses a PNG or JPEG container into a Raster.
func Decode(data []byte) (*Raster, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, geocam.WrapError(geocam.KindDecode, "GC-RAS-001", "input is not a decodable image", err)
	}
	r := FromImage(img)
	if r.Width == 0 || r.Height == 0 {
		return nil, geocam.NewError(geocam.KindDecode, "GC-RAS-003", "image has zero dimension")
	}
	return r, nil
}
