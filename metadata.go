package geocam

// MetadataRecord is the location/device record embedded in the metadata
// region. The codec treats it as an opaque JSON-safe mapping; it never
// interprets field semantics. Serialization is compact JSON with
// lexicographically sorted keys, which keeps embedded bytes deterministic
// for a given record.
type MetadataRecord map[string]any
