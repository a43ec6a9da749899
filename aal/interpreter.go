package aal

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tevino/abool/v2"
)

const defaultRecursionLimit = 256

// Config controls interpreter limits and the host collaborators.
type Config struct {
	RecursionLimit int
	StepQuota      int
	Stdout         io.Writer
	Diagnostics    io.Writer
	NoColor        bool
	Loader         FileLoader
	Runner         CommandRunner
	Clock          clockwork.Clock
	DisableStdlib  bool
}

// Engine owns every piece of interpreter state: globals, the function
// registry, the call stack and the token cache. Engines share nothing, and an
// Engine must only be driven by one goroutine at a time; Interrupt is the
// only method safe to call concurrently.
type Engine struct {
	config      Config
	globals     *globals
	functions   map[string]*Function
	stack       *CallStack
	cache       *tokenCache
	null        *Value
	diag        *reporter
	stdout      io.Writer
	loader      FileLoader
	runner      CommandRunner
	clock       clockwork.Clock
	started     time.Time
	interrupted *abool.AtomicBool
	state       execState
}

// NewEngine constructs an Engine with sane defaults and registers the
// control-flow intrinsics and, unless disabled, the standard library.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("aal: recursion limit cannot be negative (%d)", cfg.RecursionLimit)
	}
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("aal: step quota cannot be negative (%d)", cfg.StepQuota)
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = os.Stderr
	}
	if cfg.Loader == nil {
		cfg.Loader = OSFileLoader{}
	}
	if cfg.Runner == nil {
		cfg.Runner = ShellRunner{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	engine := &Engine{
		config:      cfg,
		globals:     newGlobals(),
		functions:   make(map[string]*Function),
		stack:       newCallStack(),
		cache:       newTokenCache(),
		null:        NewNull(),
		diag:        newReporter(cfg.Diagnostics, cfg.NoColor),
		stdout:      cfg.Stdout,
		loader:      cfg.Loader,
		runner:      cfg.Runner,
		clock:       cfg.Clock,
		interrupted: abool.New(),
	}
	engine.started = engine.clock.Now()

	engine.registerIntrinsics()
	if !cfg.DisableStdlib {
		engine.registerStdlib()
	}
	return engine, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Close tears the engine down, dropping every binding and cached statement.
func (e *Engine) Close() {
	clear(e.globals.values)
	clear(e.functions)
	e.stack.Reset()
	e.cache.clear()
	e.diag.records = nil
	e.state = execState{}
}

// SetOutput redirects print output and diagnostics. A nil writer leaves the
// corresponding stream unchanged.
func (e *Engine) SetOutput(stdout, diagnostics io.Writer) {
	if stdout != nil {
		e.stdout = stdout
	}
	if diagnostics != nil {
		e.diag.out = diagnostics
	}
}

// Interrupt asks a running evaluation to stop at the next statement boundary.
func (e *Engine) Interrupt() {
	e.interrupted.Set()
}

// Null returns the engine's shared null sentinel. It must never be mutated.
func (e *Engine) Null() *Value { return e.null }

// Global returns the value bound to name.
func (e *Engine) Global(name string) (*Value, bool) {
	return e.globals.Get(name)
}

// SetGlobal binds name to val, replacing any previous binding.
func (e *Engine) SetGlobal(name string, val *Value) {
	e.globals.Define(name, val)
}

// GlobalNames lists bound variable names in sorted order.
func (e *Engine) GlobalNames() []string {
	return e.globals.Names()
}

// Diagnostics returns every diagnostic reported since the last reset.
func (e *Engine) Diagnostics() []Diagnostic {
	return slices.Clone(e.diag.records)
}

func (e *Engine) ResetDiagnostics() {
	e.diag.records = nil
}

func (e *Engine) CacheStats() CacheStats {
	return e.cache.stats()
}

// StackDepth reports how many values sit on the call stack.
func (e *Engine) StackDepth() int {
	return e.stack.Len()
}

// ConfigSummary provides a human-readable description of the interpreter limits.
func (e *Engine) ConfigSummary() string {
	quota := "unlimited"
	if e.config.StepQuota > 0 {
		quota = fmt.Sprintf("%d", e.config.StepQuota)
	}
	return fmt.Sprintf("recursion=%d steps=%s functions=%d", e.config.RecursionLimit, quota, len(e.functions))
}
