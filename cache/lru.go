// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the typed read caches used in front of storage.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// Stats is a snapshot of the lookups served by a cache.
type Stats struct {
	Hit  int64
	Miss int64
}

// HitRate returns the share of lookups served from the cache, in permille.
func (s Stats) HitRate() int64 {
	if lookups := s.Hit + s.Miss; lookups > 0 {
		return s.Hit * 1000 / lookups
	}
	return 0
}

// LRU a typed LRU cache extends golang-lru, with hit/miss stats.
type LRU[K comparable, V any] struct {
	cache    *lru.Cache
	hit      atomic.Int64
	miss     atomic.Int64
	lastRate atomic.Int64
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: cache}, nil
}

// Get returns the cached value of key.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.hit.Add(1)
		return v.(V), true
	}
	l.miss.Add(1)
	var zero V
	return zero, false
}

// Add adds or replaces the value of key.
func (l *LRU[K, V]) Add(key K, val V) {
	l.cache.Add(key, val)
}

// Remove drops key from the cache.
func (l *LRU[K, V]) Remove(key K) {
	l.cache.Remove(key)
}

// Purge drops all entries.
func (l *LRU[K, V]) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// Loader defines loader to load value.
type Loader[K comparable, V any] func(key K) (V, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader Loader[K, V]) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return v, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats returns the lookup counts, and whether the hit rate moved since the
// previous call.
func (l *LRU[K, V]) Stats() (Stats, bool) {
	s := Stats{Hit: l.hit.Load(), Miss: l.miss.Load()}
	rate := s.HitRate()
	return s, l.lastRate.Swap(rate) != rate
}
