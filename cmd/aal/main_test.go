package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgomes/aalang/aal"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"aal", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"aal", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"aal"})
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("expected invalid command error, got %v", err)
	}
}

func TestRunCommandExecutesScript(t *testing.T) {
	scriptPath := writeScript(t, "main.aal", `greeting = "hello";
print(greeting);`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-q", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hello" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandResolvesIncludesNextToScript(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.aal"), []byte(`shout = { print(concat(arg(), "!")); };`), 0o644); err != nil {
		t.Fatalf("write lib: %v", err)
	}
	scriptPath := filepath.Join(dir, "main.aal")
	if err := os.WriteFile(scriptPath, []byte(`include("lib.aal"); shout("hi");`), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hi!" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandInlineSource(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-e", `print(add(2, 3));`})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "5.000000" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandPropagatesExitCode(t *testing.T) {
	err := runCommand([]string{"-e", `exit(4);`})
	var exitErr *aal.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 4 {
		t.Fatalf("expected exit code 4, got %v", err)
	}
}

func TestRunCommandStepQuota(t *testing.T) {
	err := runCommand([]string{"-q", "-s", "100", "-e", `while({1;}, {});`})
	if err == nil || !errors.Is(err, aal.ErrStepQuotaExceeded) {
		t.Fatalf("expected step quota error, got %v", err)
	}
}

func TestRunCommandRejectsBadLimits(t *testing.T) {
	err := runCommand([]string{"-d", "zero", "-e", `x = 1;`})
	if err == nil || !strings.Contains(err.Error(), "invalid -d value") {
		t.Fatalf("expected invalid -d error, got %v", err)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, "ok.aal", `double = { r = mul(arg(), 2); };
double(4);
if(1, { print(r); });`)

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("checkCommand failed: %v (%s)", err, out)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected check output: %q", out)
	}
}

func TestCheckCommandReportsProblems(t *testing.T) {
	scriptPath := writeScript(t, "bad.aal", `x = 1 # 2;
if(1, { undefinedThing(x); });`)

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected check to report issues")
	}
	if !strings.Contains(err.Error(), "check found 2 issue(s)") {
		t.Fatalf("unexpected check error: %v", err)
	}
	if !strings.Contains(out, "unexpected character") || !strings.Contains(out, "call to undefined function undefinedThing()") {
		t.Fatalf("unexpected check output: %q", out)
	}
}

func TestWriteTokens(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTokens(&buf, `x = add(1, "a");`); err != nil {
		t.Fatalf("writeTokens failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"x = add(1, \"a\");\n", "  x\t(T_Identifier)", "  =\t(T_AssignmentOperator)", "  a\t(T_String)", "  ;\t(T_EndOfLine)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func writeScript(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
