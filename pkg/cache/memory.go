package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type memEntry[V any] struct {
	value   V
	expires time.Time
}

// Memory is an in-process TTL cache keyed by query identity. Concurrent
// misses for the same key collapse into a single fetch; everyone gets the
// one result. Expired entries are dropped lazily on read, there is no
// background sweep.
type Memory[V any] struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memEntry[V]
	group   singleflight.Group
}

func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{ttl: ttl, entries: make(map[string]memEntry[V])}
}

func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(e.expires) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (m *Memory[V]) Set(key string, v V) {
	m.mu.Lock()
	m.entries[key] = memEntry[V]{value: v, expires: time.Now().Add(m.ttl)}
	m.mu.Unlock()
}

// GetOrFetch returns the cached value, or runs fetch exactly once for all
// concurrent callers of the same key and caches its result. The boolean
// reports whether the value came from cache.
func (m *Memory[V]) GetOrFetch(key string, fetch func() (V, error)) (V, bool, error) {
	if v, ok := m.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		// a concurrent flight may have filled the entry meanwhile
		if v, ok := m.Get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return v, err
		}
		m.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

// Prune drops every expired entry.
func (m *Memory[V]) Prune() {
	now := time.Now()
	m.mu.Lock()
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
}

// Len reports live entries, expired ones included until pruned.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
