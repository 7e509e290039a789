package seal

import (
	"geocam.dev/geocam"
	"geocam.dev/geocam/cidutil"
	"geocam.dev/geocam/raster"
	"geocam.dev/geocam/stego"
)

// VerificationResult is the outcome of a full decode-and-verify pass.
//
// SignatureValid=false with a nil error is a normal outcome ("tampered or
// not authentic"); only malformed input is reported as an error.
type VerificationResult struct {
	SignatureValid bool                  `json:"signatureValid"`
	Metadata       geocam.MetadataRecord `json:"metadata"`
	Message        string                `json:"message"`
	Warnings       []string              `json:"warnings,omitempty"`

	// Scheme and Generation are decoded from the embedded version tag.
	Scheme     string `json:"scheme"`
	Generation int    `json:"generation"`

	// PublicKey is the key embedded in the image. The verifier trusts it
	// only cryptographically; cross-checking it against a registered device
	// is the registry's job, via the fingerprint.
	PublicKey            []byte `json:"publicKey"`
	PublicKeyFingerprint string `json:"publicKeyFingerprint"`
	SignedAt             string `json:"signedAt"`

	// ImageCID is a CIDv1 over the exact input bytes, for audit references.
	ImageCID string `json:"imageCid"`
}

// Verify runs the full decode path: parse the raster, extract the signature
// package, reset the signature row, extract metadata, recompute the
// canonical hash, and check the signature against the embedded public key.
func Verify(imageBytes []byte) (*VerificationResult, error) {
	r, err := raster.Decode(imageBytes)
	if err != nil {
		return nil, err
	}
	// Same normalization as the signing side; a no-op for images the codec
	// produced, which are always portrait.
	r = raster.RotateToPortrait(r)

	pkg, err := stego.ExtractSignaturePackage(r)
	if err != nil {
		return nil, err
	}
	gen, scheme, err := geocam.ParseVersion(pkg.Version)
	if err != nil {
		return nil, err
	}

	ResetSignatureRow(r)

	res := &VerificationResult{
		Scheme:     scheme.Name,
		Generation: gen,
		PublicKey:  pkg.PublicKey,
		SignedAt:   pkg.Timestamp,
		ImageCID:   cidutil.ImageCID(imageBytes),
	}

	var warning string
	res.Metadata, warning = stego.ExtractMetadata(r, gen)
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
	}

	digest := CanonicalHash(r)

	// Length validation is distinct from signature validity: a scheme
	// mismatch means "wrong format", not "tampered".
	if err := scheme.ValidateKey(pkg.PublicKey); err != nil {
		return nil, err
	}
	if err := scheme.ValidateSignature(pkg.Signature); err != nil {
		return nil, err
	}
	res.PublicKeyFingerprint = geocam.Fingerprint(pkg.PublicKey)

	ok, err := scheme.Verify(digest, pkg.Signature, pkg.PublicKey)
	if err != nil {
		return nil, err
	}
	res.SignatureValid = ok
	if ok {
		res.Message = "signature valid: image content and metadata are unchanged since signing"
	} else {
		res.Message = "signature invalid: image was altered or was not produced by the embedded key"
	}
	return res, nil
}
