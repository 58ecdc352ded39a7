package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRaisesSmallCapacity(t *testing.T) {
	c := New[string, int](4)
	assert.Equal(t, 4*evictionCandidatesSize, c.Capacity())
}

func TestAddOrReplaceReportsAddVsReplace(t *testing.T) {
	c := New[string, int](64)
	assert.True(t, c.AddOrReplace("a", 1, false))
	assert.False(t, c.AddOrReplace("a", 2, false))
	v, _, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGetTracksHitsAndMisses(t *testing.T) {
	c := New[string, int](64)
	c.AddOrReplace("a", 1, false)
	_, _, ok := c.Get("a")
	assert.True(t, ok)
	_, _, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Hits())
	assert.Equal(t, 1, c.Misses())
}

func TestGetOrAddUsesFactoryOnce(t *testing.T) {
	c := New[string, int](64)
	calls := 0
	factory := func(k string) (int, bool) {
		calls++
		return len(k), true
	}
	v1, ok := c.GetOrAdd("hello", factory)
	assert.True(t, ok)
	assert.Equal(t, 5, v1)
	v2, ok := c.GetOrAdd("hello", factory)
	assert.True(t, ok)
	assert.Equal(t, 5, v2)
	assert.Equal(t, 1, calls)
}

func TestGetOrAddFactoryFailureAddsNothing(t *testing.T) {
	c := New[string, int](64)
	_, ok := c.GetOrAdd("nope", func(string) (int, bool) { return 0, false })
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestGetOrExpireRefreshesStaleEntries(t *testing.T) {
	c := New[string, int](64)
	c.AddOrReplace("a", 1, false)
	v, ok := c.GetOrExpire("a", func(string) (int, bool) { return 2, true }, -time.Second)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRemoveReportsPresence(t *testing.T) {
	c := New[string, int](64)
	c.AddOrReplace("a", 1, false)
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 0, c.Size())
}

func TestClearResetsSizeAndStats(t *testing.T) {
	c := New[string, int](64)
	c.AddOrReplace("a", 1, false)
	c.Get("a")
	c.Get("missing")
	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, 0, c.Hits())
	assert.Equal(t, 0, c.Misses())
	_, _, ok := c.Get("a")
	assert.False(t, ok)
}

func TestEvictionKeepsCacheAtCapacity(t *testing.T) {
	c := New[int, int](4 * evictionCandidatesSize) // capacity 64
	for i := 0; i < 64; i++ {
		c.AddOrReplace(i, i, false)
	}
	assert.Equal(t, 64, c.Size())
	assert.True(t, c.IsFull())

	// Keep entry 0 hot so it should survive eviction pressure.
	for i := 0; i < 200; i++ {
		c.Get(0)
		c.AddOrReplace(1000+i, i, false)
		assert.LessOrEqual(t, c.Size(), 64)
	}
	_, _, ok := c.Get(0)
	assert.True(t, ok, "frequently accessed entry should survive eviction")
}

func TestSetProbeCountClampsToRange(t *testing.T) {
	c := New[int, int](64)
	for i := 0; i < 30; i++ {
		c.AddOrReplace(i, i, false)
	}
	c.SetProbeCount(1000)
	assert.Equal(t, c.Size()/3, c.evictionProbes)
}
