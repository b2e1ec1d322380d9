// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the caches shared by the state and chain layers.
package cache

import lru "github.com/hashicorp/golang-lru"

// LRU a LRU cache extends golang-lru.
type LRU struct {
	*lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance, reporting its hit rate under name.
// maxSize should be > 0, or an error returned.
func NewLRU(name string, maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: c, stats: Stats{Name: name}}, nil
}

// MustNewLRU is like NewLRU but panics on invalid size.
func MustNewLRU(name string, maxSize int) *LRU {
	c, err := NewLRU(name, maxSize)
	if err != nil {
		panic(err)
	}
	return c
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// GetOrLoad first try to get from cache, do load if missed. Failed loads are not cached.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	defer l.stats.Report()
	if v, ok := l.Get(key); ok {
		l.stats.Hit()
		return v, nil
	}
	l.stats.Miss()
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats returns hit/miss counters of GetOrLoad.
func (l *LRU) Stats() *Stats {
	return &l.stats
}
