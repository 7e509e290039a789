// Package geocam defines the shared vocabulary of the GeoCam image
// authentication codec: the structured error taxonomy, the signing-scheme
// registry, the signature package embedded in an image's last pixel row, and
// the version tag that binds an image to the scheme and encoding generation
// it was produced with.
//
// The pixel-level work lives in the subpackages: raster (canonical RGBA
// model and orientation normalization), stego (alpha-channel packing and the
// metadata/signature region codecs), seal (canonical hashing and
// verification), and session (the two-phase signing protocol).
package geocam
