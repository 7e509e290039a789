package session

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"geocam.dev/geocam"
	"geocam.dev/geocam/cidutil"
	"geocam.dev/geocam/raster"
	"geocam.dev/geocam/seal"
	"geocam.dev/geocam/stego"
)

// DefaultTTL is how long a prepared session waits for the device's
// signature before Complete starts rejecting it.
const DefaultTTL = 10 * time.Minute

// Manager runs the two-phase signing protocol on top of a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger

	// Injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewManager wraps store. A zero ttl selects DefaultTTL.
func NewManager(store Store, ttl time.Duration, log zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store: store,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// BeginRequest carries everything the device submits to open a signing
// session. EXIFOrientation is the raw tag value; zero means "not present"
// and is treated as already upright.
type BeginRequest struct {
	Image           []byte
	Metadata        geocam.MetadataRecord
	PublicKey       []byte
	SchemeName      string
	EXIFOrientation int
}

// BeginResult is handed back to the device: the digest to sign with its
// private key, plus the session handle to quote on Complete.
type BeginResult struct {
	SessionID  string
	HashToSign string
	Width      int
	Height     int
	ExpiresAt  time.Time
}

// Begin decodes and normalizes the image, embeds the metadata record, resets
// the signature row, and parks the prepared raster under a fresh session ID.
// The returned digest is what the device must sign; no key material is ever
// sent to or held by the manager.
func (m *Manager) Begin(ctx context.Context, req *BeginRequest) (*BeginResult, error) {
	scheme, err := geocam.SchemeByName(req.SchemeName)
	if err != nil {
		return nil, err
	}
	if err := scheme.ValidateKey(req.PublicKey); err != nil {
		return nil, err
	}

	r, err := raster.Decode(req.Image)
	if err != nil {
		return nil, err
	}
	if req.EXIFOrientation != 0 {
		r, err = raster.NormalizeOrientation(r, req.EXIFOrientation)
		if err != nil {
			return nil, err
		}
	}
	r = raster.RotateToPortrait(r)

	rec := req.Metadata
	if rec == nil {
		rec = geocam.MetadataRecord{}
	}
	if err := stego.EmbedMetadata(r, rec); err != nil {
		return nil, err
	}
	seal.ResetSignatureRow(r)

	// Fail now, not at Complete, if the eventual signature package cannot
	// fit the last row. The probe package has the exact serialized size of
	// the real one: key and signature lengths are fixed per scheme and
	// RFC 3339 UTC timestamps are fixed-width.
	probe := &geocam.SignaturePackage{
		PublicKey: req.PublicKey,
		Signature: make([]byte, scheme.SignatureSize),
		Timestamp: m.now().UTC().Format(time.RFC3339),
		Version:   geocam.FormatVersion(geocam.CurrentGeneration, scheme),
	}
	if err := stego.EmbedSignaturePackage(r.Clone(), probe); err != nil {
		return nil, err
	}

	now := m.now()
	sess := &Session{
		ID:         m.newID(),
		Width:      r.Width,
		Height:     r.Height,
		Pix:        r.Pix,
		PublicKey:  req.PublicKey,
		SchemeName: scheme.Name,
		Metadata:   rec,
		DigestHex:  seal.CanonicalHashHex(r),
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
	}
	if err := m.store.Put(ctx, sess, m.ttl); err != nil {
		return nil, geocam.WrapError(geocam.KindInternal, "GC-SESS-003", "failed to persist signing session", err)
	}

	m.log.Info().
		Str("session_id", sess.ID).
		Str("scheme", scheme.Name).
		Str("key_fingerprint", geocam.Fingerprint(req.PublicKey)).
		Int("width", r.Width).
		Int("height", r.Height).
		Msg("signing session opened")

	return &BeginResult{
		SessionID:  sess.ID,
		HashToSign: sess.DigestHex,
		Width:      r.Width,
		Height:     r.Height,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

// CompleteResult is the sealed image and its audit references.
type CompleteResult struct {
	ImageBytes []byte
	ImageCID   string
	Package    *geocam.SignaturePackage
}

// Complete consumes the session, checks the submitted signature against the
// parked digest, embeds the signature package, and returns the sealed PNG.
// The session is gone afterwards whether or not Complete succeeds, so a
// rejected signature means restarting from Begin.
func (m *Manager) Complete(ctx context.Context, sessionID string, signature []byte) (*CompleteResult, error) {
	sess, err := m.store.Take(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, geocam.NewError(geocam.KindSession, "GC-SESS-001", "signing session not found, expired, or already completed")
		}
		return nil, geocam.WrapError(geocam.KindInternal, "GC-SESS-004", "failed to load signing session", err)
	}

	scheme, err := geocam.SchemeByName(sess.SchemeName)
	if err != nil {
		return nil, err
	}
	if err := scheme.ValidateSignature(signature); err != nil {
		return nil, err
	}

	digest, err := hex.DecodeString(sess.DigestHex)
	if err != nil {
		return nil, geocam.WrapError(geocam.KindInternal, "GC-SESS-005", "stored session digest is corrupt", err)
	}
	ok, err := scheme.Verify(digest, signature, sess.PublicKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.log.Warn().
			Str("session_id", sessionID).
			Str("key_fingerprint", geocam.Fingerprint(sess.PublicKey)).
			Msg("submitted signature does not verify, refusing to seal")
		return nil, geocam.NewError(geocam.KindMalformedSignature, "GC-SESS-002", "submitted signature does not verify against the session digest")
	}

	r := &raster.Raster{Width: sess.Width, Height: sess.Height, Pix: sess.Pix}
	pkg := &geocam.SignaturePackage{
		PublicKey: sess.PublicKey,
		Signature: signature,
		Timestamp: m.now().UTC().Format(time.RFC3339),
		Version:   geocam.FormatVersion(geocam.CurrentGeneration, scheme),
	}
	if err := stego.EmbedSignaturePackage(r, pkg); err != nil {
		return nil, err
	}

	imageBytes, err := raster.EncodePNG(r)
	if err != nil {
		return nil, err
	}
	imageCID := cidutil.ImageCID(imageBytes)

	m.log.Info().
		Str("session_id", sessionID).
		Str("image_cid", imageCID).
		Str("scheme", scheme.Name).
		Msg("image sealed")

	return &CompleteResult{ImageBytes: imageBytes, ImageCID: imageCID, Package: pkg}, nil
}
