// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	"github.com/ronin-chain/dpos-contract/metrics"
)

var metricCacheHitMiss = metrics.LazyLoadGaugeVec("cache_hit_miss_count", []string{"cache", "event"})

// Stats counts the lookups served by a named cache.
type Stats struct {
	Name string

	hit, miss atomic.Int64
	// hit rate in permille at the last report
	reported atomic.Int32
}

// Hit records a hit and returns the hits so far.
func (s *Stats) Hit() int64 { return s.hit.Add(1) }

// Miss records a miss and returns the misses so far.
func (s *Stats) Miss() int64 { return s.miss.Add(1) }

// Counts returns the hits and misses so far.
func (s *Stats) Counts() (hit, miss int64) {
	return s.hit.Load(), s.miss.Load()
}

// HitRate returns the share of hits in permille.
func (s *Stats) HitRate() int32 {
	hit, miss := s.Counts()
	if hit+miss == 0 {
		return 0
	}
	return int32(hit * 1000 / (hit + miss))
}

// Report publishes the counters when the hit rate moved since the previous report,
// and tells whether it did.
func (s *Stats) Report() bool {
	rate := s.HitRate()
	if s.reported.Swap(rate) == rate {
		return false
	}
	if !metrics.NoOp() {
		hit, miss := s.Counts()
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"cache": s.Name, "event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"cache": s.Name, "event": "miss"})
	}
	return true
}
