package aal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Severity classifies a reported diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityParse
	SeverityRuntime
)

func (s Severity) String() string {
	switch s {
	case SeverityParse:
		return "Parse Error"
	case SeverityRuntime:
		return "Runtime Error"
	default:
		return "Warning"
	}
}

// Diagnostic is one non-fatal report sent to the engine's diagnostic channel.
type Diagnostic struct {
	Severity  Severity
	Message   string
	Statement string
	Pos       Position
}

func newDiagnostic(sev Severity, stmt string, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...), Statement: stmt, Pos: pos}
}

func (d Diagnostic) String() string {
	out := d.Severity.String() + ": " + d.Message
	if frame := formatCodeFrame(d.Statement, d.Pos); frame != "" {
		out += "\n" + frame
	}
	return out
}

type reporter struct {
	out     io.Writer
	styles  map[Severity]*color.Color
	records []Diagnostic
}

func newReporter(out io.Writer, noColor bool) *reporter {
	r := &reporter{
		out: out,
		styles: map[Severity]*color.Color{
			SeverityWarning: color.New(color.FgMagenta),
			SeverityParse:   color.New(color.FgYellow),
			SeverityRuntime: color.New(color.FgRed, color.Bold),
		},
	}
	if noColor {
		for _, c := range r.styles {
			c.DisableColor()
		}
	}
	return r
}

func (r *reporter) report(d Diagnostic) {
	r.records = append(r.records, d)
	if r.out == nil {
		return
	}
	r.styles[d.Severity].Fprintln(r.out, d.String())
}

func (r *reporter) reportAll(ds []Diagnostic) {
	for _, d := range ds {
		r.report(d)
	}
}
