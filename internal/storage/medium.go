package storage

// Medium is a flat string key-value storage surface. It mirrors the
// web-storage contract the catalog app originally persisted into: keys are
// well-known strings, values are opaque (usually JSON) strings, and reads
// of missing keys are not errors.
type Medium interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set replaces the value for key.
	Set(key, value string) error
	// Delete removes key; deleting a missing key is a no-op.
	Delete(key string) error
	// Keys returns a snapshot of all present keys.
	Keys() []string
}
