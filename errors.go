package geocam

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindDecode: the input bytes are not a decodable image container.
	KindDecode Kind = "DecodeError"
	// KindCapacity: a byte sequence does not fit the target pixel region.
	KindCapacity Kind = "CapacityExceeded"
	// KindMetadataTooLarge: the serialized metadata record exceeds the
	// metadata region capacity.
	KindMetadataTooLarge Kind = "MetadataTooLarge"
	// KindSignatureTooLarge: the serialized signature package exceeds the
	// last-row capacity. There is no fallback region; this is a hard failure.
	KindSignatureTooLarge Kind = "SignatureTooLarge"
	// KindMalformedSignature: the signature region does not contain a
	// well-formed signature package.
	KindMalformedSignature Kind = "MalformedSignaturePackage"
	// KindKeyLength: the embedded public key does not match the declared
	// scheme. Distinct from "signature invalid" so callers can tell a wrong
	// format from a tampered image.
	KindKeyLength Kind = "InvalidKeyLength"
	// KindSignatureLength: the signature bytes do not match the declared
	// scheme.
	KindSignatureLength Kind = "InvalidSignatureLength"
	// KindSession: the signing session is unknown, expired, or already
	// completed. The caller must restart signing.
	KindSession Kind = "SessionNotFound"
	// KindInternal: invariant violation inside the codec.
	KindInternal Kind = "Internal"
)

// Error is the codec's structured error type.
//
// RuleID is a stable identifier (e.g., GC-PACK-001, GC-CRYPTO-111) naming the
// violated invariant. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured codec error.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured codec error wrapping cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
