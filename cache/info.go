// Package cache implements an approximate-LRU cache inspired by the
// eviction scheme Redis uses, simplified to a single flat entries slice
// instead of Redis's ring-buffer-segregated storage. Grounded on
// original_source/src/cache/mod.rs, cache_entry.rs and cache_info.rs.
package cache

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

func humanizeCount(n uint64) string {
	return humanize.Comma(int64(n))
}

// Info reports usage statistics for a Cache. It is a plain value so
// callers can snapshot it cheaply.
type Info struct {
	// Size is the number of items currently stored.
	Size int
	// Capacity is the maximum number of items the cache will hold
	// (possibly higher than requested; see New).
	Capacity int
	// Hits counts requests where the key was already present.
	Hits int
	// Misses counts requests where the key was absent.
	Misses int
	// AccessCount is the total number of requests since creation or
	// the last Clear.
	AccessCount uint64
}

func newInfo(capacity int) Info {
	return Info{Capacity: capacity}
}

func (i *Info) access(hit bool) {
	if hit {
		i.Hits++
	} else {
		i.Misses++
	}
	i.AccessCount++
}

// HitRatio returns Hits/AccessCount, or 0 if there have been no accesses.
func (i Info) HitRatio() float64 {
	if i.AccessCount == 0 {
		return 0
	}
	return float64(i.Hits) / float64(i.AccessCount)
}

// MissRatio returns Misses/AccessCount, or 0 if there have been no accesses.
func (i Info) MissRatio() float64 {
	if i.AccessCount == 0 {
		return 0
	}
	return float64(i.Misses) / float64(i.AccessCount)
}

// String renders a human-readable summary, using humanize for the
// access count so large caches print legibly in cmd/shy's stats output.
func (i Info) String() string {
	return fmt.Sprintf("size=%d/%d hits=%d misses=%d hit_ratio=%.1f%% accesses=%s",
		i.Size, i.Capacity, i.Hits, i.Misses, i.HitRatio()*100, humanizeCount(i.AccessCount))
}
