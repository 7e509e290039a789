package geocam

import (
	"fmt"
	"strconv"
	"strings"
)

// Version tags have the form "geocam-<generation>-<scheme>".
//
// The generation selects the metadata-region encoding: generation 1 packed
// one bit per alpha byte and is supported for decoding only; generation 2
// packs whole bytes two per UTF-16 code unit and is the only generation new
// encodes emit. The signature row itself is byte-paired in every generation,
// so the tag is always readable before the generation is known.
const (
	versionPrefix = "geocam"

	GenerationLegacy1Bit = 1
	GenerationBytePaired = 2

	CurrentGeneration = GenerationBytePaired
)

// FormatVersion renders the version tag for a generation and scheme.
func FormatVersion(generation int, scheme *Scheme) string {
	return fmt.Sprintf("%s-%d-%s", versionPrefix, generation, scheme.Name)
}

// ParseVersion splits a version tag into its generation and scheme.
func ParseVersion(v string) (int, *Scheme, error) {
	parts := strings.SplitN(v, "-", 3)
	if len(parts) != 3 || parts[0] != versionPrefix {
		return 0, nil, NewError(KindMalformedSignature, "GC-SIG-105", "unrecognized version tag "+strconv.Quote(v))
	}
	gen, err := strconv.Atoi(parts[1])
	if err != nil || (gen != GenerationLegacy1Bit && gen != GenerationBytePaired) {
		return 0, nil, NewError(KindMalformedSignature, "GC-SIG-106", "unsupported encoding generation in version tag "+strconv.Quote(v))
	}
	scheme, err := SchemeByName(parts[2])
	if err != nil {
		return 0, nil, err
	}
	return gen, scheme, nil
}
