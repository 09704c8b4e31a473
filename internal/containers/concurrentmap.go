package containers

import (
	"sync"

	"github.com/safariyetu/bigqueryobjects/internal/functional"
)

// ConcurrentMap is a typed facade over sync.Map.
type ConcurrentMap[K comparable, V any] struct {
	entries sync.Map
}

func NewConcurrentMap[K comparable, V any]() *ConcurrentMap[K, V] {
	return &ConcurrentMap[K, V]{}
}

func (m *ConcurrentMap[K, V]) Load(key K) (V, bool) {
	entry, present := m.entries.Load(key)
	if !present {
		return functional.Zero[V](), false
	}
	return entry.(V), true
}

func (m *ConcurrentMap[K, V]) Store(key K, value V) {
	m.entries.Store(key, value)
}

func (m *ConcurrentMap[K, V]) LoadOrStore(key K, value V) (V, bool) {
	entry, loaded := m.entries.LoadOrStore(key, value)
	return entry.(V), loaded
}

func (m *ConcurrentMap[K, V]) Range(f func(key K, value V) bool) {
	m.entries.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}
