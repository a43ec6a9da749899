package aal

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

func (e *Engine) registerHostBuiltins() {
	e.RegisterFunction("include", 1, builtinInclude)
	e.RegisterFunction("system", 1, builtinSystem)
	e.RegisterFunction("timeMS", 0, builtinTimeMS)
	e.RegisterFunction("exit", 0, builtinExit)
	e.RegisterFunction("hash", 1, builtinHash)
}

// builtinInclude loads a file and runs it statement by statement in the
// current engine. Definitions it makes are visible to the caller.
func builtinInclude(e *Engine, cs *CallStack) (*Value, error) {
	pathVal, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	if pathVal.kind != KindString {
		return nil, fmt.Errorf("expected a path string, got %s", pathVal.kind)
	}
	src, err := e.loader.Load(pathVal.str)
	if err != nil {
		return nil, err
	}
	if err := e.enterBlock(); err != nil {
		return nil, err
	}
	defer e.leaveBlock()
	if err := e.Run(src); err != nil {
		return nil, err
	}
	return e.null, nil
}

func builtinSystem(e *Engine, cs *CallStack) (*Value, error) {
	cmdVal, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	if cmdVal.kind != KindString {
		return nil, fmt.Errorf("expected a command string, got %s", cmdVal.kind)
	}
	out, err := e.runner.Run(context.Background(), cmdVal.str)
	if err != nil {
		return nil, err
	}
	return NewString(out), nil
}

func builtinTimeMS(e *Engine, cs *CallStack) (*Value, error) {
	elapsed := e.clock.Since(e.started)
	return NewNumber(float32(elapsed.Seconds() * 1000)), nil
}

// builtinExit stops the program. The exit code argument is optional.
func builtinExit(e *Engine, cs *CallStack) (*Value, error) {
	code := 0
	if cs.Available() > 0 {
		v, err := cs.Pop()
		if err != nil {
			return nil, err
		}
		code = int(v.Number())
	}
	return nil, &ExitError{Code: code}
}

func builtinHash(e *Engine, cs *CallStack) (*Value, error) {
	v, err := cs.Pop()
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256([]byte(v.String()))
	return NewString(hex.EncodeToString(sum[:])), nil
}
