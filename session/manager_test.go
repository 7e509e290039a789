package session

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocam.dev/geocam"
	"geocam.dev/geocam/keys"
	"geocam.dev/geocam/raster"
	"geocam.dev/geocam/seal"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	r := raster.New(width, height)
	for i := 0; i < len(r.Pix); i += 4 {
		r.Pix[i] = byte(i >> 2)
		r.Pix[i+1] = byte(i >> 10)
		r.Pix[i+2] = byte(i)
	}
	png, err := raster.EncodePNG(r)
	require.NoError(t, err)
	return png
}

func testManagerKeyPair(t *testing.T, schemeName string) *keys.KeyPair {
	t.Helper()
	seed := make([]byte, keys.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	kp, err := keys.FromSeed(schemeName, seed)
	require.NoError(t, err)
	return kp
}

func signHex(t *testing.T, kp *keys.KeyPair, hashHex string) []byte {
	t.Helper()
	digest, err := hex.DecodeString(hashHex)
	require.NoError(t, err)
	sig, err := kp.SignDigest(digest)
	require.NoError(t, err)
	return sig
}

func TestBeginCompleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()
	m := NewManager(store, 0, zerolog.Nop())

	kp := testManagerKeyPair(t, "secp256k1")
	rec := geocam.MetadataRecord{"deviceId": "cam-7", "latitude": 51.5074}

	begun, err := m.Begin(ctx, &BeginRequest{
		Image:      testPNG(t, 480, 640),
		Metadata:   rec,
		PublicKey:  kp.Public,
		SchemeName: "secp256k1",
	})
	require.NoError(t, err)
	assert.Len(t, begun.HashToSign, 128)
	assert.Equal(t, 480, begun.Width)
	assert.Equal(t, 640, begun.Height)
	assert.NotEmpty(t, begun.SessionID)

	done, err := m.Complete(ctx, begun.SessionID, signHex(t, kp, begun.HashToSign))
	require.NoError(t, err)
	assert.NotEmpty(t, done.ImageCID)
	assert.Equal(t, kp.Public, done.Package.PublicKey)

	res, err := seal.Verify(done.ImageBytes)
	require.NoError(t, err)
	assert.True(t, res.SignatureValid, res.Message)
	assert.Equal(t, "secp256k1", res.Scheme)
	assert.Equal(t, "cam-7", res.Metadata["deviceId"])
	assert.Equal(t, done.ImageCID, res.ImageCID)
	assert.Equal(t, kp.Fingerprint(), res.PublicKeyFingerprint)
}

func TestBeginAppliesOrientation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()
	m := NewManager(store, 0, zerolog.Nop())

	kp := testManagerKeyPair(t, "ed25519")

	// Submit an upside-down capture with the matching EXIF tag. The manager
	// must normalize it before embedding, so the sealed image verifies.
	upright := testPNG(t, 480, 640)
	r, err := raster.Decode(upright)
	require.NoError(t, err)
	upsideDown, err := raster.EncodePNG(raster.Rotate90(r, 2))
	require.NoError(t, err)

	begun, err := m.Begin(ctx, &BeginRequest{
		Image:           upsideDown,
		Metadata:        geocam.MetadataRecord{"deviceId": "cam-7"},
		PublicKey:       kp.Public,
		SchemeName:      "ed25519",
		EXIFOrientation: 3,
	})
	require.NoError(t, err)

	done, err := m.Complete(ctx, begun.SessionID, signHex(t, kp, begun.HashToSign))
	require.NoError(t, err)

	res, err := seal.Verify(done.ImageBytes)
	require.NoError(t, err)
	assert.True(t, res.SignatureValid, res.Message)
}

func TestBeginRejectsWrongKeyLength(t *testing.T) {
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	_, err := m.Begin(context.Background(), &BeginRequest{
		Image:      testPNG(t, 480, 640),
		PublicKey:  make([]byte, 20),
		SchemeName: "ed25519",
	})
	assert.True(t, geocam.IsKind(err, geocam.KindKeyLength), "err = %v", err)
}

func TestBeginRejectsUnknownScheme(t *testing.T) {
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	_, err := m.Begin(context.Background(), &BeginRequest{
		Image:      testPNG(t, 480, 640),
		PublicKey:  make([]byte, 32),
		SchemeName: "rsa2048",
	})
	assert.Error(t, err)
}

func TestBeginRejectsImageTooNarrowForSignature(t *testing.T) {
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	kp := testManagerKeyPair(t, "ed25519")
	_, err := m.Begin(context.Background(), &BeginRequest{
		Image:      testPNG(t, 64, 96),
		Metadata:   geocam.MetadataRecord{"deviceId": "cam-7"},
		PublicKey:  kp.Public,
		SchemeName: "ed25519",
	})
	assert.True(t, geocam.IsKind(err, geocam.KindSignatureTooLarge), "err = %v", err)
}

func TestCompleteUnknownSession(t *testing.T) {
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	_, err := m.Complete(context.Background(), "no-such-session", make([]byte, 64))
	assert.True(t, geocam.IsKind(err, geocam.KindSession), "err = %v", err)
}

// wrappingStore returns the not-found sentinel wrapped, the way a backend
// adding its own context would.
type wrappingStore struct{ Store }

func (s wrappingStore) Take(_ context.Context, id string) (*Session, error) {
	return nil, fmt.Errorf("redis take %q: %w", id, ErrNotFound)
}

func TestCompleteWrappedNotFound(t *testing.T) {
	m := NewManager(wrappingStore{NewMemoryStore(0)}, 0, zerolog.Nop())
	_, err := m.Complete(context.Background(), "gone", make([]byte, 64))
	assert.True(t, geocam.IsKind(err, geocam.KindSession), "err = %v", err)
}

func TestCompleteIsSingleUse(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	kp := testManagerKeyPair(t, "p256")

	begun, err := m.Begin(ctx, &BeginRequest{
		Image:      testPNG(t, 480, 640),
		Metadata:   geocam.MetadataRecord{"deviceId": "cam-7"},
		PublicKey:  kp.Public,
		SchemeName: "p256",
	})
	require.NoError(t, err)

	sig := signHex(t, kp, begun.HashToSign)
	_, err = m.Complete(ctx, begun.SessionID, sig)
	require.NoError(t, err)

	_, err = m.Complete(ctx, begun.SessionID, sig)
	assert.True(t, geocam.IsKind(err, geocam.KindSession), "err = %v", err)
}

func TestCompleteRejectsInvalidSignature(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	kp := testManagerKeyPair(t, "ed25519")

	begun, err := m.Begin(ctx, &BeginRequest{
		Image:      testPNG(t, 480, 640),
		Metadata:   geocam.MetadataRecord{"deviceId": "cam-7"},
		PublicKey:  kp.Public,
		SchemeName: "ed25519",
	})
	require.NoError(t, err)

	_, err = m.Complete(ctx, begun.SessionID, make([]byte, 64))
	assert.True(t, geocam.IsKind(err, geocam.KindMalformedSignature), "err = %v", err)

	// A rejected signature consumes the session.
	_, err = m.Complete(ctx, begun.SessionID, signHex(t, kp, begun.HashToSign))
	assert.True(t, geocam.IsKind(err, geocam.KindSession), "err = %v", err)
}

func TestCompleteRejectsWrongSignatureLength(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(0), 0, zerolog.Nop())
	kp := testManagerKeyPair(t, "ed25519")

	begun, err := m.Begin(ctx, &BeginRequest{
		Image:      testPNG(t, 480, 640),
		Metadata:   geocam.MetadataRecord{"deviceId": "cam-7"},
		PublicKey:  kp.Public,
		SchemeName: "ed25519",
	})
	require.NoError(t, err)

	_, err = m.Complete(ctx, begun.SessionID, make([]byte, 12))
	assert.True(t, geocam.IsKind(err, geocam.KindSignatureLength), "err = %v", err)
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	clock := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	m := NewManager(store, 5*time.Minute, zerolog.Nop())
	m.now = func() time.Time { return clock }

	kp := testManagerKeyPair(t, "ed25519")
	begun, err := m.Begin(ctx, &BeginRequest{
		Image:      testPNG(t, 480, 640),
		Metadata:   geocam.MetadataRecord{"deviceId": "cam-7"},
		PublicKey:  kp.Public,
		SchemeName: "ed25519",
	})
	require.NoError(t, err)
	assert.Equal(t, clock.Add(5*time.Minute), begun.ExpiresAt)

	clock = clock.Add(6 * time.Minute)
	_, err = m.Complete(ctx, begun.SessionID, signHex(t, kp, begun.HashToSign))
	assert.True(t, geocam.IsKind(err, geocam.KindSession), "err = %v", err)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	clock := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Put(context.Background(), &Session{
		ID:        "stale",
		ExpiresAt: clock.Add(time.Minute),
	}, time.Minute))
	require.Equal(t, 1, store.Len())

	clock = clock.Add(2 * time.Minute)
	store.sweep()
	assert.Equal(t, 0, store.Len())
}
