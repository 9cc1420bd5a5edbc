// Package cache provides a fixed-capacity, in-memory LRU cache for query results.
//
// The cache memoizes expensive query results so that repeated questions in a
// session are answered without rescanning the dataset. Key features:
//   - Strict least-recently-used eviction with promotion on read
//   - O(1) Get, Put and eviction (doubly linked list plus hash index)
//   - Explicit hit/miss signal that does not depend on the stored value
//   - Optional eviction callback and Prometheus metrics
//   - Deterministic, namespaced cache keys (see Key)
//
// An LRU is not safe for concurrent use. Callers that share one across
// goroutines must serialize the whole get-then-put sequence for a key.
package cache
