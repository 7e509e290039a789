// Package cidutil derives content identifiers for signed GeoCam images so
// that collaborators (device registry, audit logs) can reference an exact
// image without holding its bytes.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ImageCID returns a CIDv1 string using the "raw" multicodec and a
// sha2-256 multihash over the serialized image bytes.
func ImageCID(imageBytes []byte) string {
	c, err := ImageCIDParsed(imageBytes)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length this is unreachable.
		return ""
	}
	return c.String()
}

// ImageCIDParsed returns the CIDv1 (raw + sha2-256) for imageBytes.
func ImageCIDParsed(imageBytes []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(imageBytes, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
