package cache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus naming for cache metrics.
const (
	metricsNamespace = "finquery"
	metricsSubsystem = "cache"
)

// cacheMetrics holds the Prometheus collectors for one LRU.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	entries   prometheus.Gauge
	capacity  prometheus.Gauge
}

// newCacheMetrics creates the collectors and registers them with reg.
// Collectors that are already registered with identical descriptors are reused.
func newCacheMetrics(reg prometheus.Registerer, component string) (*cacheMetrics, error) {
	labels := prometheus.Labels{"component": component}
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   metricsSubsystem,
			Name:        "hits_total",
			ConstLabels: labels,
			Help:        "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   metricsSubsystem,
			Name:        "misses_total",
			ConstLabels: labels,
			Help:        "Total number of cache misses",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   metricsSubsystem,
			Name:        "evictions_total",
			ConstLabels: labels,
			Help:        "Total number of entries evicted to make room for new ones",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   metricsSubsystem,
			Name:        "entries",
			ConstLabels: labels,
			Help:        "Current number of entries in the cache",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   metricsSubsystem,
			Name:        "capacity",
			ConstLabels: labels,
			Help:        "Maximum number of entries the cache can hold",
		}),
	}

	var err error
	if m.hits, err = registerCollector(reg, m.hits); err != nil {
		return nil, err
	}
	if m.misses, err = registerCollector(reg, m.misses); err != nil {
		return nil, err
	}
	if m.evictions, err = registerCollector(reg, m.evictions); err != nil {
		return nil, err
	}
	if m.entries, err = registerCollector(reg, m.entries); err != nil {
		return nil, err
	}
	if m.capacity, err = registerCollector(reg, m.capacity); err != nil {
		return nil, err
	}

	return m, nil
}

// registerCollector registers c, returning the existing collector when an
// identical one is already registered.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *cacheMetrics) recordHit() {
	m.hits.Inc()
}

func (m *cacheMetrics) recordMiss() {
	m.misses.Inc()
}

func (m *cacheMetrics) recordEviction() {
	m.evictions.Inc()
}

func (m *cacheMetrics) updateSize(size int) {
	m.entries.Set(float64(size))
}

func (m *cacheMetrics) setCapacity(capacity int) {
	m.capacity.Set(float64(capacity))
}
