package crawlonce

// SeenSet tracks resource keys that have already been seen.
// Implementations must be safe for concurrent use.
type SeenSet interface {
	// Add inserts key and reports whether it was already present.
	// The check and the insert happen atomically.
	Add(key string) bool

	// Contains reports whether key is present. It never inserts.
	Contains(key string) bool

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)

	// Clear removes every key.
	Clear()

	// Len returns the number of keys in the set.
	// Probabilistic implementations return an estimate.
	Len() int
}
