package aal

import "fmt"

type callFrame struct {
	function string
	base     int
	user     bool
}

type execState struct {
	statement string
	frames    []callFrame
	depth     int
	steps     int

	inForeach    bool
	foreachValue *Value
}

func (e *Engine) pushFrame(function string, base int, user bool) {
	e.state.frames = append(e.state.frames, callFrame{function: function, base: base, user: user})
}

func (e *Engine) popFrame() {
	if len(e.state.frames) == 0 {
		return
	}
	e.state.frames = e.state.frames[:len(e.state.frames)-1]
}

// enterBlock guards block nesting, which is where script recursion shows up.
func (e *Engine) enterBlock() error {
	if e.state.depth >= e.config.RecursionLimit {
		return fmt.Errorf("%w (limit %d)", ErrRecursionLimit, e.config.RecursionLimit)
	}
	e.state.depth++
	return nil
}

func (e *Engine) leaveBlock() {
	if e.state.depth > 0 {
		e.state.depth--
	}
}

func (e *Engine) step() error {
	if e.interrupted.IsSet() {
		e.interrupted.UnSet()
		return ErrInterrupted
	}
	e.state.steps++
	if e.config.StepQuota > 0 && e.state.steps > e.config.StepQuota {
		return fmt.Errorf("%w (%d)", ErrStepQuotaExceeded, e.config.StepQuota)
	}
	return nil
}

// beginTopLevel starts a fresh host entry. An interrupt that arrived after
// the previous entry finished is dropped along with its step count.
func (e *Engine) beginTopLevel() {
	e.state.steps = 0
	e.interrupted.UnSet()
}

// resetState restores a consistent state after a fatal error unwound the
// evaluation mid-flight.
func (e *Engine) resetState() {
	e.stack.Reset()
	e.state.frames = e.state.frames[:0]
	e.state.depth = 0
	e.state.inForeach = false
	e.state.foreachValue = nil
}
