// Package keys holds device key material for local signing: deterministic
// keypair construction per scheme, digest signing, and a filesystem-backed
// keystore.
//
// The authentication codec itself never sees private keys; this package
// exists for the CLI's local signer and for tests. A production device keeps
// its private key in platform secure storage and only ever submits
// signatures.
package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"geocam.dev/geocam"
)

// SeedSize is the private seed length for every supported scheme.
const SeedSize = 32

// KeyPair is a scheme-tagged device keypair. The private seed never leaves
// this package except through Save.
type KeyPair struct {
	SchemeName string
	Public     []byte

	seed []byte
}

// Generate creates a fresh keypair for the named scheme.
func Generate(schemeName string) (*KeyPair, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return FromSeed(schemeName, seed)
}

// FromSeed deterministically derives a keypair from a 32-byte seed. Used by
// tests and by keystore loading; the same seed always yields the same key.
func FromSeed(schemeName string, seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("keys: expected %d-byte seed, got %d", SeedSize, len(seed))
	}
	scheme, err := geocam.SchemeByName(schemeName)
	if err != nil {
		return nil, err
	}

	kp := &KeyPair{SchemeName: scheme.Name, seed: append([]byte(nil), seed...)}
	switch scheme.Name {
	case "ed25519":
		priv := ed25519.NewKeyFromSeed(kp.seed)
		kp.Public = append([]byte(nil), priv.Public().(ed25519.PublicKey)...)
	case "secp256k1":
		priv := secp256k1.PrivKeyFromBytes(kp.seed)
		if priv.Key.IsZero() {
			return nil, errors.New("keys: seed reduces to zero scalar")
		}
		kp.Public = priv.PubKey().SerializeCompressed()
	case "p256":
		priv, err := p256FromSeed(kp.seed)
		if err != nil {
			return nil, err
		}
		kp.Public = elliptic.MarshalCompressed(elliptic.P256(), priv.X, priv.Y)
	default:
		return nil, fmt.Errorf("keys: scheme %s has no key derivation", scheme.Name)
	}
	return kp, nil
}

// Scheme returns the registered scheme for the keypair.
func (k *KeyPair) Scheme() *geocam.Scheme {
	s, _ := geocam.SchemeByName(k.SchemeName)
	return s
}

// Fingerprint returns the registry-facing fingerprint of the public key.
func (k *KeyPair) Fingerprint() string {
	return geocam.Fingerprint(k.Public)
}

// SignDigest signs the 64-byte canonical digest and returns the signature
// in the fixed length the scheme declares. ECDSA schemes sign the first 32
// digest bytes; ed25519 signs the full digest.
func (k *KeyPair) SignDigest(digest []byte) ([]byte, error) {
	if len(digest) != geocam.DigestSize {
		return nil, fmt.Errorf("keys: expected %d-byte digest, got %d", geocam.DigestSize, len(digest))
	}
	switch k.SchemeName {
	case "ed25519":
		priv := ed25519.NewKeyFromSeed(k.seed)
		return ed25519.Sign(priv, digest), nil
	case "secp256k1":
		priv := secp256k1.PrivKeyFromBytes(k.seed)
		// SignCompact prepends a recovery byte; the package carries r||s.
		compact := secpecdsa.SignCompact(priv, digest[:32], true)
		return compact[1:], nil
	case "p256":
		priv, err := p256FromSeed(k.seed)
		if err != nil {
			return nil, err
		}
		r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:32])
		if err != nil {
			return nil, err
		}
		sig := make([]byte, 64)
		r.FillBytes(sig[:32])
		s.FillBytes(sig[32:])
		return sig, nil
	default:
		return nil, fmt.Errorf("keys: scheme %s has no sign primitive", k.SchemeName)
	}
}

func p256FromSeed(seed []byte) (*ecdsa.PrivateKey, error) {
	curve := elliptic.P256()
	n := new(big.Int).Sub(curve.Params().N, big.NewInt(1))
	d := new(big.Int).SetBytes(seed)
	d.Mod(d, n)
	d.Add(d, big.NewInt(1)) // 1 <= d <= N-1
	priv := &ecdsa.PrivateKey{D: d}
	priv.Curve = curve
	priv.X, priv.Y = curve.ScalarBaseMult(d.Bytes())
	return priv, nil
}
