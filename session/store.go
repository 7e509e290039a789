// Package session implements the two-phase signing protocol: Begin prepares
// an image and returns the canonical digest for the device to sign locally,
// Complete embeds the returned signature and seals the image. Private keys
// never reach this package.
package session

import (
	"context"
	"errors"
	"time"

	"geocam.dev/geocam"
)

// ErrNotFound is returned by Store.Take for an unknown, expired, or already
// consumed session.
var ErrNotFound = errors.New("session: not found")

// Session is the server-side state parked between Begin and Complete: the
// prepared raster (metadata embedded, signature row reset) and everything
// needed to build the signature package once the device responds.
type Session struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pix    []byte `json:"pix"`

	PublicKey  []byte                `json:"publicKey"`
	SchemeName string                `json:"schemeName"`
	Metadata   geocam.MetadataRecord `json:"metadata"`
	DigestHex  string                `json:"digestHex"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store holds pending sessions. Take is the consuming read: it returns the
// session and removes it in one step, so a session can be completed at most
// once even under concurrent Complete calls.
type Store interface {
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Take(ctx context.Context, id string) (*Session, error)
	Close() error
}
