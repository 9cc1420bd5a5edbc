package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rshade/finquery/internal/dataset"
	"github.com/rshade/finquery/internal/engine/cache"
	"github.com/rshade/finquery/internal/logging"
)

// Cache key namespaces, one per query type.
const (
	namespaceBalance      = "balance"
	namespaceTransactions = "transactions"
	namespaceCategory     = "category"

	// keyAverage is the single key under which the average table is cached.
	keyAverage = "average_transaction"
)

// metricsComponent labels the engine's cache metrics.
const metricsComponent = "query_engine"

// QueryEngine holds an immutable dataset and the LRU cache of query results.
type QueryEngine struct {
	dataset *dataset.Dataset
	cache   *cache.LRU[string, any]
	logger  zerolog.Logger
}

// Option configures a QueryEngine.
type Option func(*engineOptions)

type engineOptions struct {
	logger     zerolog.Logger
	registerer prometheus.Registerer
}

// WithLogger sets the logger used for cache diagnostics. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithMetrics exports the engine's cache metrics to reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *engineOptions) {
		o.registerer = reg
	}
}

// New creates a QueryEngine over ds with a result cache of the given capacity.
// It returns an error wrapping cache.ErrInvalidCapacity if capacity is not positive,
// and ErrNilDataset if ds is nil.
func New(ds *dataset.Dataset, capacity int, opts ...Option) (*QueryEngine, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}

	o := engineOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	e := &QueryEngine{
		dataset: ds,
		logger:  logging.ComponentLogger(o.logger, "engine"),
	}

	cacheOpts := []cache.Option[string, any]{
		cache.WithEvictCallback(func(key string, _ any) {
			e.logger.Info().Str("evicted_key", key).Msg("cache evicted")
		}),
	}
	if o.registerer != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics[string, any](o.registerer, metricsComponent))
	}

	lru, err := cache.New(capacity, cacheOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	e.cache = lru

	e.logger.Debug().
		Int("cache_capacity", capacity).
		Int("client_count", ds.Len()).
		Msg("query engine ready")

	return e, nil
}

// CacheStats returns a snapshot of the result cache counters.
func (e *QueryEngine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// CacheLen returns the number of cached results.
func (e *QueryEngine) CacheLen() int {
	return e.cache.Len()
}

// CacheCap returns the capacity of the result cache.
func (e *QueryEngine) CacheCap() int {
	return e.cache.Cap()
}

// CacheKeys returns the cached keys from most to least recently used.
func (e *QueryEngine) CacheKeys() []string {
	return e.cache.Keys()
}

// lookup fetches key from the cache, logging the outcome.
func (e *QueryEngine) lookup(key string) (any, bool) {
	v, ok := e.cache.Get(key)
	if ok {
		e.logger.Debug().Str("cache_key", key).Msg("cache hit")
	} else {
		e.logger.Debug().Str("cache_key", key).Msg("cache miss")
	}
	return v, ok
}

// store caches a freshly computed result.
func (e *QueryEngine) store(key string, value any) {
	e.cache.Put(key, value)
	e.logger.Debug().
		Str("cache_key", key).
		Int("cache_entries", e.cache.Len()).
		Msg("cached query result")
}
