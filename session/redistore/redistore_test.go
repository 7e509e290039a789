package redistore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocam.dev/geocam"
	"geocam.dev/geocam/session"
)

func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := New(NewPool(mr.Addr()))
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func testSession(id string) *session.Session {
	now := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	return &session.Session{
		ID:         id,
		Width:      480,
		Height:     640,
		Pix:        []byte{1, 2, 3, 0xFF, 4, 5, 6, 0xFF},
		PublicKey:  make([]byte, 32),
		SchemeName: "ed25519",
		Metadata:   geocam.MetadataRecord{"deviceId": "cam-7"},
		DigestHex:  "0a0b",
		CreatedAt:  now,
		ExpiresAt:  now.Add(10 * time.Minute),
	}
}

func TestPutTakeRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	want := testSession("s-1")
	require.NoError(t, store.Put(ctx, want, 10*time.Minute))

	got, err := store.Take(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Pix, got.Pix)
	assert.Equal(t, want.PublicKey, got.PublicKey)
	assert.Equal(t, want.SchemeName, got.SchemeName)
	assert.Equal(t, want.DigestHex, got.DigestHex)
	assert.Equal(t, "cam-7", got.Metadata["deviceId"])
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
}

func TestTakeIsConsuming(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("s-1"), 10*time.Minute))

	_, err := store.Take(ctx, "s-1")
	require.NoError(t, err)

	_, err = store.Take(ctx, "s-1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestTakeUnknownID(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Take(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestPutSetsTTL(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("s-1"), 10*time.Minute))
	assert.Equal(t, 10*time.Minute, mr.TTL("geocam:session:s-1"))

	mr.FastForward(11 * time.Minute)
	_, err := store.Take(ctx, "s-1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
