package stego

import (
	"encoding/json"
	"errors"
	"unicode/utf16"

	"geocam.dev/geocam"
	"geocam.dev/geocam/raster"
)

// SignatureCapacity returns the last-row capacity in UTF-16 code units:
// floor(width/2).
func SignatureCapacity(r *raster.Raster) int {
	return TextCapacity(SignatureRegion(r))
}

// EmbedSignaturePackage serializes p to JSON and packs it into the last
// row's alpha bytes. Overflow is a hard failure: there is no fallback
// region, and the raster is untouched when the package does not fit.
func EmbedSignaturePackage(r *raster.Raster, p *geocam.SignaturePackage) error {
	data, err := json.Marshal(p)
	if err != nil {
		return geocam.WrapError(geocam.KindInternal, "GC-SIG-002", "signature package is not JSON-serializable", err)
	}
	units := utf16.Encode([]rune(string(data)))
	if len(units) > SignatureCapacity(r) {
		return geocam.NewError(geocam.KindSignatureTooLarge, "GC-SIG-001", "serialized signature package exceeds last-row capacity")
	}
	return PackUnits(r, SignatureRegion(r), units)
}

// ExtractSignaturePackage reconstructs the signature package from the last
// row. The row's code units are scanned for exactly one balanced JSON
// object, so non-zero garbage after the package does not break extraction.
func ExtractSignaturePackage(r *raster.Raster) (*geocam.SignaturePackage, error) {
	units, err := UnpackUnits(r, SignatureRegion(r))
	if err != nil {
		return nil, err
	}
	obj, ok := balancedObject(units)
	if !ok {
		return nil, geocam.NewError(geocam.KindMalformedSignature, "GC-SIG-101", "no signature package found in last row")
	}
	var p geocam.SignaturePackage
	if err := json.Unmarshal([]byte(string(utf16.Decode(obj))), &p); err != nil {
		// Invalid JSON syntax is rejected before the package's own
		// UnmarshalJSON runs, so it must be classified here.
		var cerr *geocam.Error
		if errors.As(err, &cerr) {
			return nil, err
		}
		return nil, geocam.WrapError(geocam.KindMalformedSignature, "GC-SIG-102", "signature package is not valid JSON", err)
	}
	return &p, nil
}
