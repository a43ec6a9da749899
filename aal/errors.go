package aal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the taxonomy of recoverable script errors.
type ErrorKind string

const (
	ParseError   ErrorKind = "ParseError"
	RuntimeError ErrorKind = "RuntimeError"
)

type StackFrame struct {
	Function string
}

// ScriptError is a recoverable failure: the statement produced no value, the
// engine reports it and carries on with the next statement.
type ScriptError struct {
	Kind      ErrorKind
	Message   string
	Statement string
	Pos       Position
	Frames    []StackFrame
}

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

var (
	ErrStepQuotaExceeded = errors.New("step quota exceeded")
	ErrRecursionLimit    = errors.New("recursion depth exceeded")
	ErrInterrupted       = errors.New("execution interrupted")
)

// ExitError is returned when a script calls exit().
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (se *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString(se.Message)
	if frame := formatCodeFrame(se.Statement, se.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}

	if len(se.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range se.Frames {
			fmt.Fprintf(&b, "\n  at %s()", frame.Function)
		}
		return b.String()
	}
	for _, frame := range se.Frames[:errorFrameHead] {
		fmt.Fprintf(&b, "\n  at %s()", frame.Function)
	}
	omitted := len(se.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range se.Frames[len(se.Frames)-errorFrameTail:] {
		fmt.Fprintf(&b, "\n  at %s()", frame.Function)
	}
	return b.String()
}

func (se *ScriptError) severity() Severity {
	if se.Kind == ParseError {
		return SeverityParse
	}
	return SeverityRuntime
}

// IsFatal reports whether err must abort execution instead of being reported
// and skipped.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return true
	}
	return errors.Is(err, ErrStepQuotaExceeded) ||
		errors.Is(err, ErrRecursionLimit) ||
		errors.Is(err, ErrInterrupted)
}

func (e *Engine) parseErrorAt(tok Token, format string, args ...any) error {
	return e.scriptError(ParseError, tok.Pos, format, args...)
}

func (e *Engine) runtimeError(format string, args ...any) error {
	return e.scriptError(RuntimeError, Position{}, format, args...)
}

func (e *Engine) scriptError(kind ErrorKind, pos Position, format string, args ...any) error {
	frames := make([]StackFrame, 0, len(e.state.frames))
	for i := len(e.state.frames) - 1; i >= 0; i-- {
		frames = append(frames, StackFrame{Function: e.state.frames[i].function})
	}
	return &ScriptError{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Statement: e.state.statement,
		Pos:       pos,
		Frames:    frames,
	}
}

// report sends a recovered error to the diagnostic channel.
func (e *Engine) report(err error) {
	var se *ScriptError
	if errors.As(err, &se) {
		e.diag.report(Diagnostic{
			Severity:  se.severity(),
			Message:   se.Message + se.frameSuffix(),
			Statement: se.Statement,
			Pos:       se.Pos,
		})
		return
	}
	e.diag.report(Diagnostic{Severity: SeverityRuntime, Message: err.Error(), Statement: e.state.statement})
}

func (se *ScriptError) frameSuffix() string {
	if len(se.Frames) == 0 {
		return ""
	}
	return fmt.Sprintf(" (in %s())", se.Frames[0].Function)
}
