// Package seal computes the canonical digest that binds a signature to pixel
// content and implements the full verification pipeline.
package seal

import (
	"crypto/sha512"
	"encoding/hex"

	"geocam.dev/geocam/raster"
	"geocam.dev/geocam/stego"
)

// SentinelAlpha is the alpha value the signature row is reset to before
// hashing, i.e. the row's state as if no signature were present.
const SentinelAlpha = 0xFF

// ResetSignatureRow overwrites the last row's alpha bytes with the sentinel.
// Both the signing side (before signature embedding) and the verifying side
// (after signature extraction) must do this before hashing.
func ResetSignatureRow(r *raster.Raster) {
	reg := stego.SignatureRegion(r)
	for i := 0; i < reg.Pixels; i++ {
		r.SetAlpha(reg.Start+i, SentinelAlpha)
	}
}

// CanonicalHash digests the entire RGBA byte buffer with SHA-512.
//
// Precondition (enforced by callers): metadata is already embedded and the
// signature row is reset to the sentinel. Hashing the full buffer rather
// than a partial checksum means a single flipped bit anywhere in the image
// invalidates the signature.
func CanonicalHash(r *raster.Raster) []byte {
	sum := sha512.Sum512(r.Pix)
	return sum[:]
}

// CanonicalHashHex returns the canonical digest as 128 hex characters.
func CanonicalHashHex(r *raster.Raster) string {
	return hex.EncodeToString(CanonicalHash(r))
}
