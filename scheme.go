package geocam

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// DigestSize is the length of the canonical SHA-512 digest every scheme
// signs over. ECDSA schemes consume only the first 32 bytes of it; ed25519
// signs the full digest.
const DigestSize = 64

// Scheme describes one supported signing scheme: the byte lengths the
// signature package must carry and the verify primitive for the canonical
// digest. Lengths are fixed per scheme and are validated before any
// cryptographic call is attempted.
type Scheme struct {
	Name          string
	PublicKeySize int
	SignatureSize int
}

var (
	// SchemeSecp256k1 is the scheme issued by registered capture devices:
	// 33-byte compressed public key, 64-byte compact r||s signature.
	SchemeSecp256k1 = &Scheme{Name: "secp256k1", PublicKeySize: 33, SignatureSize: 64}

	// SchemeEd25519: 32-byte public key, 64-byte signature.
	SchemeEd25519 = &Scheme{Name: "ed25519", PublicKeySize: 32, SignatureSize: 64}

	// SchemeP256 is NIST P-256 with an X9.62 compressed 33-byte public key
	// and a 64-byte r||s signature.
	SchemeP256 = &Scheme{Name: "p256", PublicKeySize: 33, SignatureSize: 64}
)

var schemes = map[string]*Scheme{
	SchemeSecp256k1.Name: SchemeSecp256k1,
	SchemeEd25519.Name:   SchemeEd25519,
	SchemeP256.Name:      SchemeP256,
}

// SchemeByName returns the registered scheme for name.
func SchemeByName(name string) (*Scheme, error) {
	s, ok := schemes[name]
	if !ok {
		return nil, NewError(KindMalformedSignature, "GC-CRYPTO-001", "unsupported signing scheme "+name)
	}
	return s, nil
}

// ValidateKey checks the public key length against the scheme.
func (s *Scheme) ValidateKey(publicKey []byte) error {
	if len(publicKey) != s.PublicKeySize {
		return NewError(KindKeyLength, "GC-CRYPTO-101", "invalid "+s.Name+" public key length")
	}
	return nil
}

// ValidateSignature checks the signature length against the scheme.
func (s *Scheme) ValidateSignature(signature []byte) error {
	if len(signature) != s.SignatureSize {
		return NewError(KindSignatureLength, "GC-CRYPTO-111", "invalid "+s.Name+" signature length")
	}
	return nil
}

// Verify reports whether signature is a valid signature by publicKey over the
// canonical digest. A false result with a nil error means the signature is
// cryptographically invalid, which is a normal verification outcome, not a
// failure of the verify operation itself.
func (s *Scheme) Verify(digest, signature, publicKey []byte) (bool, error) {
	if len(digest) != DigestSize {
		return false, NewError(KindInternal, "GC-CRYPTO-002", "canonical digest must be 64 bytes")
	}
	if err := s.ValidateKey(publicKey); err != nil {
		return false, err
	}
	if err := s.ValidateSignature(signature); err != nil {
		return false, err
	}

	switch s.Name {
	case "ed25519":
		return ed25519.Verify(ed25519.PublicKey(publicKey), digest, signature), nil
	case "secp256k1":
		pub, err := secp256k1.ParsePubKey(publicKey)
		if err != nil {
			return false, WrapError(KindKeyLength, "GC-CRYPTO-102", "invalid secp256k1 public key", err)
		}
		var r, sc secp256k1.ModNScalar
		if r.SetByteSlice(signature[:32]) {
			return false, nil
		}
		if sc.SetByteSlice(signature[32:]) {
			return false, nil
		}
		return secpecdsa.NewSignature(&r, &sc).Verify(digest[:32], pub), nil
	case "p256":
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), publicKey)
		if x == nil {
			return false, NewError(KindKeyLength, "GC-CRYPTO-102", "invalid p256 public key")
		}
		pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
		r := new(big.Int).SetBytes(signature[:32])
		sv := new(big.Int).SetBytes(signature[32:])
		return ecdsa.Verify(pub, digest[:32], r, sv), nil
	default:
		return false, NewError(KindInternal, "GC-CRYPTO-003", "scheme "+s.Name+" has no verify primitive")
	}
}
