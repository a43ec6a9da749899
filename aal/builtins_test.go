package aal

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/zeebo/blake3"
)

type mapLoader map[string]string

func (l mapLoader) Load(path string) (string, error) {
	src, ok := l[path]
	if !ok {
		return "", fmt.Errorf("path does not exist: %s", path)
	}
	return src, nil
}

type recordingRunner struct {
	commands []string
	output   string
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, command string) (string, error) {
	r.commands = append(r.commands, command)
	return r.output, r.err
}

func evalNumber(t *testing.T, engine *Engine, stmt string) float32 {
	t.Helper()
	val, err := engine.ExecuteStatement(stmt)
	if err != nil {
		t.Fatalf("%s: %v", stmt, err)
	}
	if val.Kind() != KindNumber {
		t.Fatalf("%s: expected number, got %s", stmt, val.Kind())
	}
	return val.Float()
}

func TestPrintAndPrintV(t *testing.T) {
	engine, stdout, _ := newTestEngine(t, Config{})
	if err := engine.Run(`print("hi"); print(2); printv(2, "a", "b"); m = 0; setMap(m, "k", 1); print(m);`); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "hi\n2.000000\na\nb\n{ MAP }\n"
	if stdout.String() != want {
		t.Fatalf("expected %q, got %q", want, stdout.String())
	}
}

func TestPrintVRejectsOversizedCount(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	if _, err := engine.ExecuteStatement(`printv(3, "a");`); err == nil {
		t.Fatalf("expected error for count larger than argument list")
	}
	if engine.StackDepth() != 0 {
		t.Fatalf("expected balanced stack, got %d", engine.StackDepth())
	}
}

func TestArithmetic(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	cases := map[string]float32{
		`x = add(2, 3);`:                 5,
		`x = sub(2, 3);`:                 -1,
		`x = mul(4, 2.5);`:               10,
		`x = div(9, 2);`:                 4.5,
		`x = mod(9, 4);`:                 1,
		`x = neg(7);`:                    -7,
		`x = add("2", 1);`:               3,
		`x = add(add(1, 2), mul(2, 3));`: 9,
	}
	for stmt, want := range cases {
		if got := evalNumber(t, engine, stmt); got != want {
			t.Fatalf("%s: expected %v, got %v", stmt, want, got)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	for _, stmt := range []string{`x = div(1, 0);`, `x = mod(1, 0);`} {
		_, err := engine.ExecuteStatement(stmt)
		var se *ScriptError
		if !errors.As(err, &se) || se.Kind != RuntimeError {
			t.Fatalf("%s: expected runtime error, got %v", stmt, err)
		}
	}
}

func TestTooFewArguments(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	_, err := engine.ExecuteStatement(`x = add(1);`)
	if err == nil || !strings.Contains(err.Error(), "too few stack items for call") {
		t.Fatalf("expected arity error, got %v", err)
	}
	if engine.StackDepth() != 0 {
		t.Fatalf("expected balanced stack, got %d", engine.StackDepth())
	}
}

func TestComparisons(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	cases := map[string]float32{
		`x = eq(1, 1);`:         1,
		`x = eq("1", 1);`:       1,
		`x = eq("a", "a");`:     1,
		`x = neq("a", "b");`:    1,
		`x = lt(1, 2);`:         1,
		`x = gt(1, 2);`:         0,
		`x = le(2, 2);`:         1,
		`x = ge(1, 2);`:         0,
		`x = lt("apple", "b");`: 1,
		`x = lt("10", "9");`:    1,
		`x = and(1, 0);`:        0,
		`x = or(1, 0);`:         1,
		`x = not(0);`:           1,
	}
	for stmt, want := range cases {
		if got := evalNumber(t, engine, stmt); got != want {
			t.Fatalf("%s: expected %v, got %v", stmt, want, got)
		}
	}
}

func TestStringBuiltins(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	if err := engine.Run(`s = concat("foo", 1); n = len("héllo"); t = type(s); u = str(2); v = num("3.5");`); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := mustGlobal(t, engine, "s").String(); got != "foo1.000000" {
		t.Fatalf("unexpected concat %q", got)
	}
	if got := mustGlobal(t, engine, "n").Float(); got != 5 {
		t.Fatalf("expected 5 runes, got %v", got)
	}
	if got := mustGlobal(t, engine, "t").String(); got != "string" {
		t.Fatalf("unexpected type %q", got)
	}
	if got := mustGlobal(t, engine, "u"); got.Kind() != KindString || got.String() != "2.000000" {
		t.Fatalf("unexpected str result %v", got)
	}
	if got := mustGlobal(t, engine, "v"); got.Kind() != KindNumber || got.Float() != 3.5 {
		t.Fatalf("unexpected num result %v", got)
	}
}

func TestMapBuiltins(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	src := `m = 0; setMap(m, "a", 1); setMap(m, "b", 2);
has = hasKey(m, "a"); missing = hasKey(m, "z");
removed = removeMap(m, "a"); count = size(m); got = getMap(m, "b"); none = getMap(m, "a");`
	if err := engine.Run(src); err != nil {
		t.Fatalf("run: %v", err)
	}
	checks := map[string]float32{"has": 1, "missing": 0, "removed": 1, "count": 1, "got": 2}
	for name, want := range checks {
		if got := mustGlobal(t, engine, name).Float(); got != want {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
	}
	if !mustGlobal(t, engine, "none").IsNull() {
		t.Fatalf("expected removed key to read as null")
	}
	if len(engine.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics %v", engine.Diagnostics())
	}
}

func TestSetMapNeverStoresSharedNull(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	if err := engine.Run(`m = 0; setMap(m, "k", getMap(m, "absent")); m["k"] = 5;`); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !engine.Null().IsNull() {
		t.Fatalf("shared null was mutated to %v", engine.Null())
	}
}

func TestIncludeRunsFileInSameEngine(t *testing.T) {
	loader := mapLoader{"lib.aal": "greeting = \"hi\";\ndouble = { r = mul(arg(), 2); };\n"}
	engine, _, _ := newTestEngine(t, Config{Loader: loader})
	if err := engine.Run(`include("lib.aal"); double(21);`); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := mustGlobal(t, engine, "greeting").String(); got != "hi" {
		t.Fatalf("expected included binding, got %q", got)
	}
	if got := mustGlobal(t, engine, "r").Float(); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}

	_, err := engine.ExecuteStatement(`include("missing.aal");`)
	if err == nil || !strings.Contains(err.Error(), "path does not exist") {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestRunFile(t *testing.T) {
	loader := mapLoader{"main.aal": `print("main");`}
	engine, stdout, _ := newTestEngine(t, Config{Loader: loader})
	if err := engine.RunFile("main.aal"); err != nil {
		t.Fatalf("run file: %v", err)
	}
	if stdout.String() != "main\n" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	if err := engine.RunFile("nope.aal"); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestSystemUsesRunner(t *testing.T) {
	runner := &recordingRunner{output: "ok\n"}
	engine, _, _ := newTestEngine(t, Config{Runner: runner})
	val, err := engine.ExecuteStatement(`out = system("echo ok");`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if val.String() != "ok\n" {
		t.Fatalf("unexpected output %q", val.String())
	}
	if len(runner.commands) != 1 || runner.commands[0] != "echo ok" {
		t.Fatalf("unexpected commands %v", runner.commands)
	}

	runner.err = errors.New("boom")
	if _, err := engine.ExecuteStatement(`out = system("false");`); err == nil {
		t.Fatalf("expected runner error")
	}
}

func TestTimeMSUsesClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine, _, _ := newTestEngine(t, Config{Clock: clock})
	clock.Advance(1500 * time.Millisecond)
	if got := evalNumber(t, engine, `t = timeMS();`); got != 1500 {
		t.Fatalf("expected 1500ms, got %v", got)
	}
}

func TestExit(t *testing.T) {
	engine, stdout, _ := newTestEngine(t, Config{})
	err := engine.Run(`print("before"); exit(3); print("after");`)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("expected exit 3, got %v", err)
	}
	if stdout.String() != "before\n" {
		t.Fatalf("unexpected output %q", stdout.String())
	}

	_, err = engine.ExecuteStatement(`exit();`)
	if !errors.As(err, &exitErr) || exitErr.Code != 0 {
		t.Fatalf("expected exit 0, got %v", err)
	}
}

func TestHash(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{})
	val, err := engine.ExecuteStatement(`h = hash("abc");`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	sum := blake3.Sum256([]byte("abc"))
	if val.String() != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected digest %q", val.String())
	}
}
