package cache

import (
	"container/list"
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned when an LRU is constructed with a non-positive capacity.
var ErrInvalidCapacity = errors.New("cache capacity must be greater than zero")

// EvictCallback is invoked with the key and value of every entry evicted to make room
// for a new one. It is not called for explicit Remove or Purge.
type EvictCallback[K comparable, V any] func(key K, value V)

// LRU is a fixed-capacity key/value store with least-recently-used eviction.
// Both a successful Get and any Put mark the key as most recently used.
type LRU[K comparable, V any] struct {
	capacity int

	// items indexes list elements by key.
	items map[K]*list.Element

	// order holds entries from most recently used (front) to least (back).
	order *list.List

	onEvict EvictCallback[K, V]
	stats   Stats
	metrics *cacheMetrics
}

// New creates an LRU holding at most capacity entries.
// It returns ErrInvalidCapacity if capacity is zero or negative, and an error
// if metrics were requested but could not be registered.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*LRU[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	o := &options[K, V]{}
	for _, opt := range opts {
		opt(o)
	}

	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		onEvict:  o.onEvict,
	}

	if o.registerer != nil {
		m, err := newCacheMetrics(o.registerer, o.component)
		if err != nil {
			return nil, fmt.Errorf("registering cache metrics: %w", err)
		}
		m.setCapacity(capacity)
		c.metrics = m
	}

	return c, nil
}

// Get returns the value stored under key and whether it was present.
// A hit promotes the key to most recently used; a miss has no side effect on ordering.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		var zero V
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.stats.Hits++
	if c.metrics != nil {
		c.metrics.recordHit()
	}

	//nolint:forcetypeassert // every element in order holds an *entry[K, V]
	return elem.Value.(*entry[K, V]).value, true
}

// Put stores value under key and marks it most recently used.
// Updating an existing key never evicts. Inserting a new key into a full cache
// first evicts the least recently used entry.
func (c *LRU[K, V]) Put(key K, value V) {
	c.stats.Puts++

	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value //nolint:forcetypeassert // see Get
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	if c.metrics != nil {
		c.metrics.updateSize(c.order.Len())
	}
}

// Contains reports whether key is present without changing its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Remove deletes key from the cache. It returns false if the key was absent.
func (c *LRU[K, V]) Remove(key K) bool {
	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	if c.metrics != nil {
		c.metrics.updateSize(c.order.Len())
	}
	return true
}

// Purge removes every entry. Statistics are kept.
func (c *LRU[K, V]) Purge() {
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
	if c.metrics != nil {
		c.metrics.updateSize(0)
	}
}

// Keys returns the cached keys ordered from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry[K, V]).key) //nolint:forcetypeassert // see Get
	}
	return keys
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.order.Len()
}

// Cap returns the fixed capacity of the cache.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	s := c.stats
	s.Entries = c.order.Len()
	s.Capacity = c.capacity
	return s
}

// evictOldest removes the least recently used entry and notifies the callback.
func (c *LRU[K, V]) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}

	ent := c.removeElement(elem)
	c.stats.Evictions++
	if c.metrics != nil {
		c.metrics.recordEviction()
	}
	if c.onEvict != nil {
		c.onEvict(ent.key, ent.value)
	}
}

func (c *LRU[K, V]) removeElement(elem *list.Element) *entry[K, V] {
	c.order.Remove(elem)
	ent := elem.Value.(*entry[K, V]) //nolint:forcetypeassert // see Get
	delete(c.items, ent.key)
	return ent
}
