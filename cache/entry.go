package cache

import "time"

// entry records a single cached key/value pair along with the
// bookkeeping the eviction policy needs: how recently it was touched
// (accessSequence), how often (accessCount) and when it was created.
type entry[K comparable, V any] struct {
	key            K
	value          V
	accessSequence uint64
	accessCount    uint32
	created        time.Time
}

func newEntry[K comparable, V any](key K, value V, accessSequence uint64) *entry[K, V] {
	return &entry[K, V]{
		key:            key,
		value:          value,
		accessSequence: accessSequence,
		accessCount:    1,
		created:        time.Now(),
	}
}

// touch marks the entry as freshly accessed, making it the most
// recently used entry until the next one is touched.
func (e *entry[K, V]) touch(newAccessSequence uint64) {
	e.accessCount++
	e.accessSequence = newAccessSequence
}

// replace swaps in a new value, resets the creation time, and bumps
// (not resets) the access count.
func (e *entry[K, V]) replace(newValue V, newAccessSequence uint64) {
	e.accessCount++
	e.accessSequence = newAccessSequence
	e.value = newValue
	e.created = time.Now()
}

func (e *entry[K, V]) valueCreated() (V, time.Time) {
	return e.value, e.created
}

// wasLastUsedBefore reports whether e was accessed less recently than
// other.
func (e *entry[K, V]) wasLastUsedBefore(other *entry[K, V]) bool {
	return e.accessSequence < other.accessSequence
}

// isOlderThan reports whether e was created longer ago than duration.
func (e *entry[K, V]) isOlderThan(duration time.Duration) bool {
	return time.Since(e.created) > duration
}
