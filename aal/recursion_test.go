package aal

import (
	"errors"
	"strings"
	"testing"
)

const countdownScript = `down = { n = arg(); ifelse(gt(n, 0), { down(sub(n, 1)); }, { "done"; }); };`

func TestRecursionLimitExceeded(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{RecursionLimit: 5})
	if err := engine.Run(countdownScript); err != nil {
		t.Fatalf("run: %v", err)
	}

	_, err := engine.ExecuteStatement(`r = down(4);`)
	if err == nil {
		t.Fatalf("expected recursion depth error")
	}
	if !errors.Is(err, ErrRecursionLimit) {
		t.Fatalf("expected ErrRecursionLimit, got %T", err)
	}
	if !strings.Contains(err.Error(), "recursion depth exceeded (limit 5)") {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.StackDepth() != 0 {
		t.Fatalf("expected stack to be reset, got %d", engine.StackDepth())
	}
}

func TestRecursionLimitAllowsWithinBound(t *testing.T) {
	engine, _, _ := newTestEngine(t, Config{RecursionLimit: 12})
	if err := engine.Run(countdownScript); err != nil {
		t.Fatalf("run: %v", err)
	}

	result, err := engine.ExecuteStatement(`r = down(4);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind() != KindString || result.String() != "done" {
		t.Fatalf("expected done, got %v", result)
	}
}

func TestRunRecoversFromRunawayRecursion(t *testing.T) {
	engine, stdout, _ := newTestEngine(t, Config{})
	if err := engine.Run(`f = { f(); }; f(); print("after");`); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.String() != "after\n" {
		t.Fatalf("expected execution to continue, got %q", stdout.String())
	}
	diags := engine.Diagnostics()
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "recursion depth exceeded") {
		t.Fatalf("expected recursion diagnostic, got %v", diags)
	}
}
