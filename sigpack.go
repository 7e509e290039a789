package geocam

import (
	"encoding/base64"
	"encoding/json"
)

// SignaturePackage is the record embedded in the last pixel row of a signed
// image: the device public key, the signature over the canonical digest, the
// signing timestamp, and the version tag naming scheme and encoding
// generation.
//
// Once embedded it occupies exactly the last row's alpha bytes and must fit
// floor(width/2) UTF-16 code units.
type SignaturePackage struct {
	PublicKey []byte
	Signature []byte
	Timestamp string
	Version   string
}

type sigPackageWire struct {
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// MarshalJSON encodes key and signature bytes as standard base64.
func (p *SignaturePackage) MarshalJSON() ([]byte, error) {
	return json.Marshal(sigPackageWire{
		PublicKey: base64.StdEncoding.EncodeToString(p.PublicKey),
		Signature: base64.StdEncoding.EncodeToString(p.Signature),
		Timestamp: p.Timestamp,
		Version:   p.Version,
	})
}

func (p *SignaturePackage) UnmarshalJSON(data []byte) error {
	var w sigPackageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return WrapError(KindMalformedSignature, "GC-SIG-102", "signature package is not valid JSON", err)
	}
	if w.PublicKey == "" || w.Signature == "" || w.Timestamp == "" {
		return NewError(KindMalformedSignature, "GC-SIG-103", "signature package is missing required fields")
	}
	pub, err := base64.StdEncoding.DecodeString(w.PublicKey)
	if err != nil {
		return WrapError(KindMalformedSignature, "GC-SIG-104", "invalid public key base64", err)
	}
	sig, err := base64.StdEncoding.DecodeString(w.Signature)
	if err != nil {
		return WrapError(KindMalformedSignature, "GC-SIG-104", "invalid signature base64", err)
	}
	p.PublicKey = pub
	p.Signature = sig
	p.Timestamp = w.Timestamp
	p.Version = w.Version
	return nil
}

// Scheme resolves the signing scheme declared by the version tag.
func (p *SignaturePackage) Scheme() (*Scheme, error) {
	_, scheme, err := ParseVersion(p.Version)
	return scheme, err
}

// Generation resolves the encoding generation declared by the version tag.
func (p *SignaturePackage) Generation() (int, error) {
	gen, _, err := ParseVersion(p.Version)
	return gen, err
}

// Validate checks structural well-formedness: a parseable version tag and
// key/signature lengths matching the declared scheme.
func (p *SignaturePackage) Validate() error {
	_, scheme, err := ParseVersion(p.Version)
	if err != nil {
		return err
	}
	if err := scheme.ValidateKey(p.PublicKey); err != nil {
		return err
	}
	return scheme.ValidateSignature(p.Signature)
}
