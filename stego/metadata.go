package stego

import (
	"encoding/json"
	"strings"
	"unicode/utf16"

	"geocam.dev/geocam"
	"geocam.dev/geocam/raster"
)

// MetadataDelimiter terminates the serialized metadata record inside the
// metadata region. Extraction also accepts a balanced JSON object without
// the delimiter (the strict variant), so records written by tools that omit
// it still decode.
const MetadataDelimiter = "###END###"

// MetadataCapacity returns the metadata region capacity in UTF-16 code
// units under the byte-paired scheme.
func MetadataCapacity(r *raster.Raster) int {
	return TextCapacity(MetadataRegion(r))
}

// EmbedMetadata serializes rec to compact JSON, appends the delimiter, and
// packs the result into the alpha bytes of every row except the last. The
// raster is untouched when the record does not fit.
func EmbedMetadata(r *raster.Raster, rec geocam.MetadataRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return geocam.WrapError(geocam.KindInternal, "GC-META-002", "metadata record is not JSON-serializable", err)
	}
	text := string(data) + MetadataDelimiter
	units := utf16.Encode([]rune(text))
	if len(units) > MetadataCapacity(r) {
		return geocam.NewError(geocam.KindMetadataTooLarge, "GC-META-001", "serialized metadata exceeds region capacity")
	}
	return PackUnits(r, MetadataRegion(r), units)
}

// ExtractMetadata decodes the metadata record for the given encoding
// generation. Extraction is best-effort: a missing or corrupt metadata
// region yields an empty record and a warning string rather than an error,
// because the signature's validity is independent of whether metadata
// parses.
func ExtractMetadata(r *raster.Raster, generation int) (geocam.MetadataRecord, string) {
	var units []uint16
	var err error
	switch generation {
	case geocam.GenerationLegacy1Bit:
		units, err = unpackUnitsLegacy(r, MetadataRegion(r))
	default:
		units, err = UnpackUnits(r, MetadataRegion(r))
	}
	if err != nil {
		return geocam.MetadataRecord{}, "metadata region unreadable: " + err.Error()
	}

	text := textUntilNull(units)
	jsonText, ok := cutAtDelimiter(text)
	if !ok {
		obj, found := balancedObject(units)
		if !found {
			return geocam.MetadataRecord{}, "no metadata record found"
		}
		jsonText = string(utf16.Decode(obj))
	}

	var rec geocam.MetadataRecord
	if err := json.Unmarshal([]byte(jsonText), &rec); err != nil {
		return geocam.MetadataRecord{}, "metadata record is not valid JSON"
	}
	return rec, ""
}

func cutAtDelimiter(text string) (string, bool) {
	idx := strings.Index(text, MetadataDelimiter)
	if idx < 0 {
		return "", false
	}
	return text[:idx], true
}
