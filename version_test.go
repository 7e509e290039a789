package geocam

import "testing"

func TestVersionRoundTrip(t *testing.T) {
	v := FormatVersion(CurrentGeneration, SchemeSecp256k1)
	if v != "geocam-2-secp256k1" {
		t.Fatalf("unexpected version tag %q", v)
	}
	gen, scheme, err := ParseVersion(v)
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if gen != GenerationBytePaired || scheme != SchemeSecp256k1 {
		t.Fatalf("round trip mismatch: gen=%d scheme=%s", gen, scheme.Name)
	}
}

func TestParseVersionLegacy(t *testing.T) {
	gen, scheme, err := ParseVersion("geocam-1-ed25519")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if gen != GenerationLegacy1Bit || scheme != SchemeEd25519 {
		t.Fatalf("unexpected parse: gen=%d scheme=%s", gen, scheme.Name)
	}
}

func TestParseVersionRejects(t *testing.T) {
	cases := []string{
		"",
		"geocam",
		"geocam-2",
		"geocam-3-ed25519",
		"geocam-x-ed25519",
		"othercam-2-ed25519",
		"geocam-2-rsa",
	}
	for _, v := range cases {
		if _, _, err := ParseVersion(v); !IsKind(err, KindMalformedSignature) {
			t.Fatalf("ParseVersion(%q): expected malformed-signature error, got %v", v, err)
		}
	}
}

func TestSignaturePackageJSONRoundTrip(t *testing.T) {
	p := &SignaturePackage{
		PublicKey: make([]byte, 33),
		Signature: make([]byte, 64),
		Timestamp: "2026-08-28T10:00:00Z",
		Version:   "geocam-2-secp256k1",
	}
	p.PublicKey[0] = 0x02
	data, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var got SignaturePackage
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if string(got.PublicKey) != string(p.PublicKey) || string(got.Signature) != string(p.Signature) {
		t.Fatalf("byte fields did not survive round trip")
	}
	if got.Timestamp != p.Timestamp || got.Version != p.Version {
		t.Fatalf("string fields did not survive round trip")
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSignaturePackageMissingFields(t *testing.T) {
	var p SignaturePackage
	err := p.UnmarshalJSON([]byte(`{"publicKey":"aGk=","timestamp":"2026-08-28T10:00:00Z"}`))
	if !IsKind(err, KindMalformedSignature) {
		t.Fatalf("expected malformed-signature error, got %v", err)
	}
	if RuleID(err) != "GC-SIG-103" {
		t.Fatalf("unexpected rule id %q", RuleID(err))
	}
}

func TestSignaturePackageValidateLengths(t *testing.T) {
	p := &SignaturePackage{
		PublicKey: make([]byte, 32),
		Signature: make([]byte, 64),
		Timestamp: "2026-08-28T10:00:00Z",
		Version:   "geocam-2-secp256k1",
	}
	if err := p.Validate(); !IsKind(err, KindKeyLength) {
		t.Fatalf("expected InvalidKeyLength, got %v", err)
	}
	p.PublicKey = make([]byte, 33)
	p.Signature = make([]byte, 65)
	if err := p.Validate(); !IsKind(err, KindSignatureLength) {
		t.Fatalf("expected InvalidSignatureLength, got %v", err)
	}
}
