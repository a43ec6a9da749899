package aal

import "fmt"

func (e *Engine) registerMapBuiltins() {
	e.RegisterFunction("setMap", 3, builtinSetMap)
	e.RegisterFunction("getMap", 2, builtinGetMap)
	e.RegisterFunction("hasKey", 2, builtinHasKey)
	e.RegisterFunction("removeMap", 2, builtinRemoveMap)
	e.RegisterFunction("size", 1, builtinSize)
}

// builtinSetMap stores the value itself, so the entry and the argument stay
// the same identity. A target that is not a map yet becomes an empty one.
func builtinSetMap(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 3)
	if err != nil {
		return nil, err
	}
	target, key, val := args[0], args[1], args[2]
	if target == e.null {
		return nil, fmt.Errorf("cannot store into the null value")
	}
	if target.kind != KindMap {
		target.AssignInPlace(NewMap())
	}
	k, err := mapKey(key)
	if err != nil {
		return nil, err
	}
	if val == e.null {
		val = NewNull()
	}
	target.m.Set(k, val)
	return val, nil
}

func builtinGetMap(e *Engine, cs *CallStack) (*Value, error) {
	m, k, err := popMapAndKey(cs)
	if err != nil {
		return nil, err
	}
	if val, ok := m.Get(k); ok {
		return val, nil
	}
	return e.null, nil
}

func builtinHasKey(e *Engine, cs *CallStack) (*Value, error) {
	m, k, err := popMapAndKey(cs)
	if err != nil {
		return nil, err
	}
	_, ok := m.Get(k)
	return newBool(ok), nil
}

func builtinRemoveMap(e *Engine, cs *CallStack) (*Value, error) {
	m, k, err := popMapAndKey(cs)
	if err != nil {
		return nil, err
	}
	return newBool(m.Delete(k)), nil
}

func builtinSize(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	if v.kind != KindMap {
		return nil, fmt.Errorf("expected a map, got %s", v.kind)
	}
	return NewNumber(float32(v.m.Len())), nil
}

func popMapAndKey(cs *CallStack) (*Map, string, error) {
	args, err := popArgs(cs, 2)
	if err != nil {
		return nil, "", err
	}
	if args[0].kind != KindMap {
		return nil, "", fmt.Errorf("expected a map, got %s", args[0].kind)
	}
	k, err := mapKey(args[1])
	if err != nil {
		return nil, "", err
	}
	return args[0].m, k, nil
}

// mapKey renders a key the same way an index expression does.
func mapKey(v *Value) (string, error) {
	if v.kind == KindMap {
		return "", fmt.Errorf("map key cannot be a map")
	}
	return v.String(), nil
}
