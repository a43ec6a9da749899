package aal

type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBlock
	KindMap
)

// Value is the shared, mutable cell behind every binding, stack slot and map
// entry. Holders share a *Value; assignment mutates the cell in place.
type Value struct {
	kind ValueKind
	str  string
	num  float32
	m    *Map
}
