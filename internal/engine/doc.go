// Package engine answers structured financial queries against an immutable
// dataset and memoizes their results in a fixed-capacity LRU cache.
//
// Every query follows the same get-or-compute-and-store discipline:
//  1. derive a deterministic cache key from the query type and its arguments
//  2. serve the result from the cache on a hit
//  3. on a miss, scan the dataset, store the result and return it
//
// Only successfully computed results are cached. A balance or transaction
// lookup for an unknown client or year returns ErrNotFound and leaves the
// cache untouched, so a later retry can still succeed. Empty category and
// average results are valid answers and are cached like any other.
//
// Every result reports CacheHit so callers can tell a memoized answer from a
// freshly computed one. A QueryEngine is not safe for concurrent use.
package engine
