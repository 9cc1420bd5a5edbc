package cache

import "github.com/prometheus/client_golang/prometheus"

// Option configures an LRU at construction time.
type Option[K comparable, V any] func(*options[K, V])

type options[K comparable, V any] struct {
	onEvict    EvictCallback[K, V]
	registerer prometheus.Registerer
	component  string
}

// WithEvictCallback sets a function called for every capacity eviction.
func WithEvictCallback[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(o *options[K, V]) {
		o.onEvict = fn
	}
}

// WithMetrics exports the cache counters as Prometheus metrics registered with reg.
// component is attached as a constant label so several caches can share a registry.
func WithMetrics[K comparable, V any](reg prometheus.Registerer, component string) Option[K, V] {
	return func(o *options[K, V]) {
		o.registerer = reg
		o.component = component
	}
}
