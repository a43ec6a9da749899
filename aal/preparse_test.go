package aal

import (
	"strings"
	"testing"
)

func trimmed(stmts []string) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func TestSplitStatementsQuotedSemicolon(t *testing.T) {
	stmts, diags := SplitStatements(`a(";");`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(stmts) != 1 || stmts[0] != `a(";");` {
		t.Fatalf("expected one statement, got %q", stmts)
	}
}

func TestSplitStatementsKeepsBlocksWhole(t *testing.T) {
	stmts, _ := SplitStatements(`run({ a; b; }); c;`)
	got := trimmed(stmts)
	if len(got) != 2 || got[0] != `run({ a; b; });` || got[1] != `c;` {
		t.Fatalf("unexpected split %q", got)
	}
}

func TestSplitStatementsStripsNewlinesAndComments(t *testing.T) {
	src := "x = 1; // first\n// whole line\ny = \"a // b\";\nwhile({ lt(i, 2); },\n  { i = add(i, 1); });\n"
	stmts, diags := SplitStatements(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	got := trimmed(stmts)
	want := []string{
		`x = 1;`,
		`y = "a // b";`,
		`while({ lt(i, 2); },  { i = add(i, 1); });`,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d statements, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statement %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitStatementsDropsEmptyStatements(t *testing.T) {
	stmts, _ := SplitStatements(";; x = 1;  ;")
	if len(stmts) != 1 || strings.TrimSpace(stmts[0]) != "x = 1;" {
		t.Fatalf("expected a single statement, got %q", stmts)
	}
}

func TestSplitStatementsKeepsTrailingText(t *testing.T) {
	stmts, _ := SplitStatements("x = 1; print(x)")
	got := trimmed(stmts)
	if len(got) != 2 || got[1] != "print(x)" {
		t.Fatalf("expected trailing statement, got %q", got)
	}
}

func TestSplitStatementsMismatchedBlocks(t *testing.T) {
	_, diags := SplitStatements(`if(1, { x = 1;`)
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "unclosed '{'") {
		t.Fatalf("expected unclosed block diagnostic, got %v", diags)
	}
	_, diags = SplitStatements(`x = 1; };`)
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "unmatched '}'") {
		t.Fatalf("expected unmatched brace diagnostic, got %v", diags)
	}
	_, diags = SplitStatements(`print("open);`)
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "unterminated quote") {
		t.Fatalf("expected unterminated quote diagnostic, got %v", diags)
	}
}
