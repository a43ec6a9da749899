package aal

import "fmt"

func (e *Engine) registerIntrinsics() {
	e.RegisterFunction("if", 2, intrinsicIf)
	e.RegisterFunction("ifelse", 3, intrinsicIfElse)
	e.RegisterFunction("while", 2, intrinsicWhile)
	e.RegisterFunction("foreach", 4, intrinsicForeach)
	e.RegisterFunction("value", 0, intrinsicValue)
	e.RegisterFunction("arg", 0, intrinsicArg)
}

// popArgs pops n values; the first element is the leftmost argument.
func popArgs(cs *CallStack, n int) ([]*Value, error) {
	out := make([]*Value, n)
	for i := range n {
		v, err := cs.Pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func expectBlock(fn string, position string, v *Value) error {
	if v.kind != KindBlock {
		return fmt.Errorf("%s expects a block as its %s argument, got %s", fn, position, v.kind)
	}
	return nil
}

func intrinsicIf(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 2)
	if err != nil {
		return nil, err
	}
	cond, block := args[0], args[1]
	if err := expectBlock("if", "second", block); err != nil {
		return nil, err
	}
	if cond.Truthy() {
		if _, err := e.executeBlock(block.str); err != nil {
			return nil, err
		}
	}
	return e.null, nil
}

// intrinsicIfElse pops both branches before running exactly one of them and
// yields that branch's value.
func intrinsicIfElse(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 3)
	if err != nil {
		return nil, err
	}
	cond, thenBlock, elseBlock := args[0], args[1], args[2]
	if cond.Truthy() {
		if err := expectBlock("ifelse", "second", thenBlock); err != nil {
			return nil, err
		}
		return e.executeBlock(thenBlock.str)
	}
	if err := expectBlock("ifelse", "third", elseBlock); err != nil {
		return nil, err
	}
	return e.executeBlock(elseBlock.str)
}

// intrinsicWhile re-runs the condition block and, while its value is
// non-zero, the body. Type mismatches are reported and nothing loops.
func intrinsicWhile(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 2)
	if err != nil {
		return nil, err
	}
	condBlock, body := args[0], args[1]
	if condBlock.kind != KindBlock || body.kind != KindBlock {
		e.report(e.runtimeError("while expects (block, block), got (%s, %s)", condBlock.kind, body.kind))
		return e.null, nil
	}
	condSrc, bodySrc := condBlock.str, body.str

	for {
		if err := e.step(); err != nil {
			return nil, err
		}
		cond, err := e.executeBlock(condSrc)
		if err != nil {
			return nil, err
		}
		if !cond.Truthy() {
			return e.null, nil
		}
		if _, err := e.executeBlock(bodySrc); err != nil {
			if IsFatal(err) {
				return nil, err
			}
			e.report(err)
		}
	}
}

// intrinsicForeach implements foreach(block, keyVar, valueVar, mapVar).
func intrinsicForeach(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 4)
	if err != nil {
		return nil, err
	}
	body, keySink, valueSink, target := args[0], args[1], args[2], args[3]
	if err := expectBlock("foreach", "first", body); err != nil {
		return nil, err
	}
	if target.kind != KindMap {
		return nil, fmt.Errorf("foreach expects a map as its fourth argument, got %s", target.kind)
	}
	if keySink == e.null || valueSink == e.null {
		return nil, fmt.Errorf("foreach key and value arguments must be variables")
	}

	entries, src := target.m, body.str
	prevIn, prevValue := e.state.inForeach, e.state.foreachValue
	defer func() {
		e.state.inForeach, e.state.foreachValue = prevIn, prevValue
	}()

	for _, key := range entries.Keys() {
		entry, ok := entries.Get(key)
		if !ok {
			continue
		}
		keySink.AssignInPlace(NewString(key))
		valueSink.AssignInPlace(entry)
		e.state.inForeach = true
		e.state.foreachValue = entry
		if _, err := e.executeBlock(src); err != nil {
			if IsFatal(err) {
				return nil, err
			}
			e.report(err)
		}
	}
	return e.null, nil
}

func intrinsicValue(e *Engine, cs *CallStack) (*Value, error) {
	if !e.state.inForeach || e.state.foreachValue == nil {
		return nil, fmt.Errorf("value() called outside of foreach")
	}
	return e.state.foreachValue, nil
}

// intrinsicArg pops the next argument passed to the innermost block call.
// Frames between that call and arg() must have consumed their own arguments.
func intrinsicArg(e *Engine, cs *CallStack) (*Value, error) {
	frames := e.state.frames
	// the last frame is arg() itself
	for i := len(frames) - 2; i >= 0; i-- {
		if !frames[i].user {
			if frames[i].base != cs.Len() {
				return nil, fmt.Errorf("arguments of %s() are still pending", frames[i].function)
			}
			continue
		}
		v, err := cs.popFrom(frames[i].base)
		if err != nil {
			return nil, fmt.Errorf("no arguments left for %s()", frames[i].function)
		}
		return v, nil
	}
	return nil, fmt.Errorf("arg() called outside of a block call")
}
