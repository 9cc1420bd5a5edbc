package cache

// entry is the value stored in each list element.
// The key is kept alongside the value so eviction can remove the index entry.
type entry[K comparable, V any] struct {
	key   K
	value V
}
