package aal

import (
	"maps"
	"slices"
)

// Map is an insertion-ordered string-keyed table of shared values.
type Map struct {
	keys    []string
	entries map[string]*Value
}

func newMap() *Map {
	return &Map{entries: make(map[string]*Value)}
}

// clone returns a new container holding the same entry values.
func (m *Map) clone() *Map {
	if m == nil {
		return nil
	}
	return &Map{keys: slices.Clone(m.keys), entries: maps.Clone(m.entries)}
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Get(key string) (*Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores val itself (not a copy) under key. Existing keys keep their
// original insertion position.
func (m *Map) Set(key string, val *Value) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = val
}

func (m *Map) Delete(key string) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return true
}

// Keys returns a snapshot of the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// Range visits entries in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, val *Value) bool) {
	for _, k := range m.Keys() {
		v, ok := m.entries[k]
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}
