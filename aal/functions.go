package aal

import (
	"errors"
	"maps"
	"slices"
)

// Action is a native function body. It pops its arguments from the call
// stack (leftmost argument on top) and returns exactly one result.
type Action func(e *Engine, cs *CallStack) (*Value, error)

// Function is a registry entry. Arity is a minimum checked before dispatch;
// an action may pop more when its own arguments say so.
type Function struct {
	Name   string
	Arity  int
	Action Action
}

// RegisterFunction adds or replaces a native function.
func (e *Engine) RegisterFunction(name string, arity int, action Action) *Function {
	fn := &Function{Name: name, Arity: arity, Action: action}
	e.functions[name] = fn
	return fn
}

// Function looks up a registered native function.
func (e *Engine) Function(name string) (*Function, bool) {
	fn, ok := e.functions[name]
	return fn, ok
}

// FunctionNames lists registered functions in sorted order.
func (e *Engine) FunctionNames() []string {
	return slices.Sorted(maps.Keys(e.functions))
}

type callableKind int

const (
	callableNone callableKind = iota
	callableNative
	callableBlock
)

// callable is anything that can appear in call position: a registered
// native function or a variable holding a block.
type callable struct {
	kind  callableKind
	fn    *Function
	block *Value
}

func (e *Engine) resolveCallable(name string) callable {
	if fn, ok := e.functions[name]; ok {
		return callable{kind: callableNative, fn: fn}
	}
	if val, ok := e.globals.Get(name); ok && val.kind == KindBlock {
		return callable{kind: callableBlock, block: val}
	}
	return callable{kind: callableNone}
}

// call pushes args (given in written order) so the leftmost ends on top,
// dispatches, and leaves the stack exactly as deep as it found it.
func (e *Engine) call(name Token, args []*Value) (*Value, error) {
	target := e.resolveCallable(name.Literal)
	if target.kind == callableNone {
		e.diag.report(newDiagnostic(SeverityWarning, e.state.statement, name.Pos, "call to undefined function %s()", name.Literal))
		return e.null, nil
	}

	base := e.stack.Len()
	for i := len(args) - 1; i >= 0; i-- {
		e.stack.Push(args[i])
	}
	e.stack.enter(base)
	e.pushFrame(name.Literal, base, target.kind == callableBlock)
	defer func() {
		e.popFrame()
		e.stack.leave()
		e.stack.truncate(base)
	}()

	if target.kind == callableBlock {
		return e.executeBlock(target.block.str)
	}

	fn := target.fn
	if fn.Arity > 0 && e.stack.Available() < fn.Arity {
		return nil, e.scriptError(RuntimeError, name.Pos,
			"call to %s() failed: too few stack items for call (need %d, have %d)",
			fn.Name, fn.Arity, e.stack.Available())
	}
	result, err := fn.Action(e, e.stack)
	if err != nil {
		return nil, e.wrapActionError(name, err)
	}
	if result == nil {
		result = e.null
	}
	return result, nil
}

func (e *Engine) wrapActionError(name Token, err error) error {
	if IsFatal(err) {
		return err
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return err
	}
	return e.scriptError(RuntimeError, name.Pos, "%s(): %v", name.Literal, err)
}
