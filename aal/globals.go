package aal

import (
	"maps"
	"slices"
)

// globals is the single flat variable namespace of an engine.
type globals struct {
	values map[string]*Value
}

func newGlobals() *globals {
	return &globals{values: make(map[string]*Value)}
}

func (g *globals) Get(name string) (*Value, bool) {
	val, ok := g.values[name]
	return val, ok
}

func (g *globals) Define(name string, val *Value) {
	g.values[name] = val
}

func (g *globals) Names() []string {
	return slices.Sorted(maps.Keys(g.values))
}
