package ds

// Store is the storage engine behind a shared map table.
// Implementations are not safe for concurrent use; the caller guards them.
type Store[V any] interface {
	// Get gets the value under a given key.
	Get(key string) (V, bool)

	// Put sets the value under key, replacing any previous value.
	Put(key string, value V)

	// Delete removes key. It is a no-op if key is absent.
	Delete(key string)

	// Len returns the number of keys.
	Len() int

	// Keys returns keys starting with prefix. An empty prefix matches all keys.
	Keys(prefix string) []string

	// Reset drops every entry.
	Reset()
}
