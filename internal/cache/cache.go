// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cyclingdb/internal/metrics"
)

const (
	// defaultCleanupInterval is how often expired entries are swept.
	defaultCleanupInterval = time.Minute

	// DefaultCapacity is used when New is given a non-positive capacity.
	DefaultCapacity = 1000
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe in-memory cache with a single TTL for every entry
// and a fixed capacity. When full, Set evicts the least recently used entry.
// Hits and misses are also exported to Prometheus under the cache's name.
type Cache[V any] struct {
	name     string
	ttl      time.Duration
	capacity int

	mu    sync.Mutex
	items map[string]*node[V]
	order *lruList[V]
	stats Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its background sweeper. Call Stop when the
// cache is no longer needed.
//
// Example:
//
//	results := cache.New[*dataset.Dataset]("search", 5*time.Minute, 1000)
//	defer results.Stop()
//	results.Set(key, view)
func New[V any](name string, ttl time.Duration, capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[V]{
		name:     name,
		ttl:      ttl,
		capacity: capacity,
		items:    make(map[string]*node[V]),
		order:    newLRUList[V](),
		stats:    Stats{LastCleanup: time.Now()},
		stop:     make(chan struct{}),
	}
	go c.cleanupLoop(defaultCleanupInterval)
	return c
}

// Get returns the value for key if present and not expired, and marks it as
// recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	n, ok := c.items[key]
	if ok && time.Now().After(n.expiresAt) {
		c.remove(n)
		ok = false
	}
	if ok {
		c.order.moveToFront(n)
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	metrics.RecordCacheAccess(c.name, ok)
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Set stores value under key with the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	if n, ok := c.items[key]; ok {
		n.value = value
		n.expiresAt = expiresAt
		c.order.moveToFront(n)
		return
	}

	n := &node[V]{key: key, value: value, expiresAt: expiresAt}
	c.order.pushFront(n)
	c.items[key] = n
	for len(c.items) > c.capacity {
		c.remove(c.order.oldest())
	}
	c.stats.TotalKeys = int64(len(c.items))
}

// Clear drops every entry. Used after the dataset is reloaded.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.items))
	c.items = make(map[string]*node[V])
	c.order.reset()
	c.stats.TotalKeys = 0
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a copy of the counters.
func (c *Cache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HitRate returns hits as a percentage of lookups, 0 before any lookup.
func (c *Cache[V]) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Stop ends the background sweeper. Safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// remove must be called with mu held.
func (c *Cache[V]) remove(n *node[V]) {
	c.order.unlink(n)
	delete(c.items, n.key)
	c.stats.Evictions++
	c.stats.TotalKeys = int64(len(c.items))
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Cache[V]) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	// Walk from the oldest end; entries are not ordered by expiry, so the
	// whole list is visited.
	for n := c.order.tail.prev; n != c.order.head; {
		prev := n.prev
		if now.After(n.expiresAt) {
			c.remove(n)
		}
		n = prev
	}
	c.stats.TotalKeys = int64(len(c.items))
	c.stats.LastCleanup = now
}

// GenerateKey creates a cache key from a method name and its parameters.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
