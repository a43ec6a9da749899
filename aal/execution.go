package aal

import (
	"errors"
	"fmt"
)

// ExecuteStatement runs a single statement. A failed statement returns an
// error and no value; a statement that legitimately yields null returns the
// null sentinel and a nil error.
func (e *Engine) ExecuteStatement(text string) (*Value, error) {
	return e.topLevel(func() (*Value, error) {
		return e.executeStatement(text)
	})
}

// ExecuteBlock splits raw block text into statements and runs them in
// order. The block's value is the value of its last statement.
func (e *Engine) ExecuteBlock(raw string) (*Value, error) {
	return e.topLevel(func() (*Value, error) {
		return e.executeBlock(raw)
	})
}

// Eval runs source text like a block without the block nesting guard and
// returns the last statement's value. Failures of earlier statements are
// reported and skipped.
func (e *Engine) Eval(src string) (*Value, error) {
	return e.topLevel(func() (*Value, error) {
		stmts, diags := SplitStatements(src)
		e.diag.reportAll(diags)
		return e.executeStatements(stmts)
	})
}

// Run executes a whole program. Recoverable errors are reported and the next
// statement runs; only exit() and resource errors stop the program.
func (e *Engine) Run(src string) error {
	top := e.isTopLevel()
	if top {
		e.beginTopLevel()
	}
	stmts, diags := SplitStatements(src)
	e.diag.reportAll(diags)
	for _, stmt := range stmts {
		_, err := e.executeStatement(stmt)
		if err == nil {
			continue
		}
		if !IsFatal(err) {
			e.report(err)
			continue
		}
		if !top {
			return err
		}
		e.resetState()
		if errors.Is(err, ErrRecursionLimit) {
			e.report(err)
			continue
		}
		return err
	}
	return nil
}

// RunFile loads a program through the configured FileLoader and runs it.
func (e *Engine) RunFile(path string) error {
	src, err := e.loader.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return e.Run(src)
}

func (e *Engine) isTopLevel() bool {
	return e.state.depth == 0 && len(e.state.frames) == 0 && e.stack.Len() == 0
}

func (e *Engine) topLevel(fn func() (*Value, error)) (*Value, error) {
	top := e.isTopLevel()
	if top {
		e.beginTopLevel()
	}
	val, err := fn()
	if top && IsFatal(err) {
		e.resetState()
	}
	return val, err
}

func (e *Engine) executeStatement(text string) (*Value, error) {
	if err := e.step(); err != nil {
		return nil, err
	}
	prev := e.state.statement
	e.state.statement = text
	defer func() { e.state.statement = prev }()

	tokens, diags := e.cache.get(text)
	e.diag.reportAll(diags)

	left, right, assignment := splitAssignment(tokens)
	if assignment && len(left) == 0 {
		return nil, e.parseErrorAt(tokens[0], "missing assignment target")
	}

	lhs, err := e.evaluate(left, true)
	if err != nil {
		return nil, err
	}
	if !assignment {
		// A literal block was already run by the auto-declaring evaluation.
		if lhs.kind == KindBlock && !(len(left) == 1 && left[0].is(tokenBlock)) {
			return e.executeBlock(lhs.str)
		}
		return lhs, nil
	}

	rhs, err := e.evaluate(right, false)
	if err != nil {
		return nil, err
	}
	if lhs == e.null {
		return nil, e.runtimeError("cannot assign to the null value")
	}
	lhs.AssignInPlace(rhs)
	return lhs, nil
}

// splitAssignment drops end-of-statement tokens and splits at the first
// assignment operator.
func splitAssignment(tokens []Token) (left, right []Token, assignment bool) {
	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.is(tokenEOS) {
			filtered = append(filtered, tok)
		}
	}
	for i, tok := range filtered {
		if tok.is(tokenAssign) {
			return filtered[:i], filtered[i+1:], true
		}
	}
	return filtered, nil, false
}

func (e *Engine) executeBlock(raw string) (*Value, error) {
	if err := e.enterBlock(); err != nil {
		return nil, err
	}
	defer e.leaveBlock()

	stmts, diags := SplitStatements(raw)
	e.diag.reportAll(diags)
	return e.executeStatements(stmts)
}

func (e *Engine) executeStatements(stmts []string) (*Value, error) {
	result := e.null
	for i, stmt := range stmts {
		val, err := e.executeStatement(stmt)
		if err != nil {
			if IsFatal(err) || i == len(stmts)-1 {
				return nil, err
			}
			e.report(err)
			continue
		}
		result = val
	}
	return result, nil
}
