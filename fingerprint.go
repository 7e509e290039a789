package geocam

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the registry-facing public key fingerprint: the first
// 16 hex characters of the key's SHA-256. Device registries index keys by
// this value.
func Fingerprint(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return hex.EncodeToString(sum[:])[:16]
}
