package aal

import (
	"fmt"
	"io"
	"math"
	"strings"
)

func (e *Engine) registerStdlib() {
	e.RegisterFunction("print", 1, builtinPrint)
	e.RegisterFunction("printv", 2, builtinPrintV)

	e.RegisterFunction("add", 2, numericBinary(func(a, b float32) (float32, error) { return a + b, nil }))
	e.RegisterFunction("sub", 2, numericBinary(func(a, b float32) (float32, error) { return a - b, nil }))
	e.RegisterFunction("mul", 2, numericBinary(func(a, b float32) (float32, error) { return a * b, nil }))
	e.RegisterFunction("div", 2, numericBinary(func(a, b float32) (float32, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	}))
	e.RegisterFunction("mod", 2, numericBinary(func(a, b float32) (float32, error) {
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return float32(math.Mod(float64(a), float64(b))), nil
	}))
	e.RegisterFunction("neg", 1, builtinNeg)

	e.RegisterFunction("eq", 2, builtinEq)
	e.RegisterFunction("neq", 2, builtinNeq)
	e.RegisterFunction("lt", 2, ordering(func(c int) bool { return c < 0 }))
	e.RegisterFunction("gt", 2, ordering(func(c int) bool { return c > 0 }))
	e.RegisterFunction("le", 2, ordering(func(c int) bool { return c <= 0 }))
	e.RegisterFunction("ge", 2, ordering(func(c int) bool { return c >= 0 }))
	e.RegisterFunction("and", 2, logical(func(a, b bool) bool { return a && b }))
	e.RegisterFunction("or", 2, logical(func(a, b bool) bool { return a || b }))
	e.RegisterFunction("not", 1, builtinNot)

	e.RegisterFunction("concat", 2, builtinConcat)
	e.RegisterFunction("len", 1, builtinLen)
	e.RegisterFunction("str", 1, builtinStr)
	e.RegisterFunction("num", 1, builtinNum)
	e.RegisterFunction("type", 1, builtinType)

	e.registerMapBuiltins()
	e.registerHostBuiltins()
}

func builtinPrint(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(e.stdout, v.String()+"\n"); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return e.null, nil
}

// builtinPrintV pops a count and then prints that many values, one per line.
func builtinPrintV(e *Engine, cs *CallStack) (*Value, error) {
	countVal, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	count := int(countVal.Number())
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	if count > cs.Available() {
		return nil, fmt.Errorf("count %d exceeds the %d values passed", count, cs.Available())
	}
	var b strings.Builder
	for range count {
		v, err := cs.Pop()
		if err != nil {
			return nil, err
		}
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(e.stdout, b.String()); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return e.null, nil
}

func numericBinary(op func(a, b float32) (float32, error)) Action {
	return func(e *Engine, cs *CallStack) (*Value, error) {
		args, err := popArgs(cs, 2)
		if err != nil {
			return nil, err
		}
		out, err := op(args[0].Number(), args[1].Number())
		if err != nil {
			return nil, err
		}
		return NewNumber(out), nil
	}
}

func builtinNeg(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	return NewNumber(-v.Number()), nil
}

func builtinEq(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 2)
	if err != nil {
		return nil, err
	}
	return newBool(valuesEqual(args[0], args[1])), nil
}

func builtinNeq(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 2)
	if err != nil {
		return nil, err
	}
	return newBool(!valuesEqual(args[0], args[1])), nil
}

// valuesEqual compares strings as text, numbers and numeric strings by
// value, and everything else by kind and payload.
func valuesEqual(a, b *Value) bool {
	switch {
	case a.kind == KindString && b.kind == KindString:
		return a.str == b.str
	case a.kind == KindNumber || b.kind == KindNumber:
		return a.Number() == b.Number()
	default:
		return a.Equal(b)
	}
}

func compareValues(a, b *Value) int {
	if a.kind == KindString && b.kind == KindString {
		return strings.Compare(a.str, b.str)
	}
	x, y := a.Number(), b.Number()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func ordering(accept func(int) bool) Action {
	return func(e *Engine, cs *CallStack) (*Value, error) {
		args, err := popArgs(cs, 2)
		if err != nil {
			return nil, err
		}
		return newBool(accept(compareValues(args[0], args[1]))), nil
	}
}

func logical(op func(a, b bool) bool) Action {
	return func(e *Engine, cs *CallStack) (*Value, error) {
		args, err := popArgs(cs, 2)
		if err != nil {
			return nil, err
		}
		return newBool(op(args[0].Truthy(), args[1].Truthy())), nil
	}
}

func builtinNot(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	return newBool(!v.Truthy()), nil
}

func builtinConcat(e *Engine, cs *CallStack) (*Value, error) {
	args, err := popArgs(cs, 2)
	if err != nil {
		return nil, err
	}
	return NewString(args[0].String() + args[1].String()), nil
}

func builtinLen(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	switch v.kind {
	case KindString:
		return NewNumber(float32(len([]rune(v.str)))), nil
	case KindMap:
		return NewNumber(float32(v.m.Len())), nil
	default:
		return nil, fmt.Errorf("expected a string or map, got %s", v.kind)
	}
}

func builtinStr(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	return NewString(v.String()), nil
}

func builtinNum(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	return NewNumber(v.Number()), nil
}

func builtinType(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	return NewString(v.kind.String()), nil
}
