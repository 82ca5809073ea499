// Package ordermap provides a name-keyed container that preserves insertion
// order while still supporting O(1) lookup by key.
package ordermap

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// entry pairs a key with its value as stored in insertion order.
type entry[K comparable, V any] struct {
	key K
	val V
}

// Map is an insertion-ordered map. The zero value is not usable; use New.
type Map[K constraints.Ordered, V any] struct {
	items []entry[K, V]
	index map[K]int
}

// New creates an empty ordered map.
func New[K constraints.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]int)}
}

// Add appends a new entry unconditionally. If the key already exists the new
// value shadows the old one for lookups, but both entries remain in the
// iteration order under their original position (see spec §9 on duplicate
// names within an archive).
func (m *Map[K, V]) Add(key K, val V) {
	m.items = append(m.items, entry[K, V]{key, val})
	m.index[key] = len(m.items) - 1
}

// Update replaces the value for key in place if present, otherwise appends.
func (m *Map[K, V]) Update(key K, val V) {
	if i, ok := m.index[key]; ok {
		m.items[i].val = val
		return
	}
	m.Add(key, val)
}

// Contains reports whether key has been added.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Get returns the value for key and whether it was found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.items[i].val, true
}

// IndexOf returns the position of key's most recent binding, or -1.
func (m *Map[K, V]) IndexOf(key K) int {
	i, ok := m.index[key]
	if !ok {
		return -1
	}
	return i
}

// At returns the key/value pair at position i in insertion order.
func (m *Map[K, V]) At(i int) (K, V) {
	e := m.items[i]
	return e.key, e.val
}

// Len returns the number of entries, including shadowed duplicates.
func (m *Map[K, V]) Len() int {
	return len(m.items)
}

// Values returns all values in insertion order.
func (m *Map[K, V]) Values() []V {
	vals := make([]V, len(m.items))
	for i, e := range m.items {
		vals[i] = e.val
	}
	return vals
}

// Keys returns all keys in insertion order, including shadowed duplicates.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.items))
	for i, e := range m.items {
		keys[i] = e.key
	}
	return keys
}

// Sort reorders items by key ascending and rewrites the key→position index.
// Complexity is O(n log n).
func (m *Map[K, V]) Sort() {
	sort.SliceStable(m.items, func(i, j int) bool {
		return m.items[i].key < m.items[j].key
	})
	for i, e := range m.items {
		m.index[e.key] = i
	}
}

// SortFunc reorders items using a caller-supplied less function, for cases
// like spec's pinned-top null-texture ordering where plain key order isn't
// enough.
func (m *Map[K, V]) SortFunc(less func(a, b V) bool) {
	sort.SliceStable(m.items, func(i, j int) bool {
		return less(m.items[i].val, m.items[j].val)
	})
	for i, e := range m.items {
		m.index[e.key] = i
	}
}
