package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mgomes/aalang/aal"
)

// Token type names as printed by the tokens command.
const (
	identToken  = aal.TokenType("T_Identifier")
	assignToken = aal.TokenType("T_AssignmentOperator")
	lparenToken = aal.TokenType("T_OpenParenthesis")
	blockToken  = aal.TokenType("T_Block")
)

type lintWarning struct {
	Statement int
	Column    int
	Severity  aal.Severity
	Message   string
}

func checkCommand(args []string) error {
	argv := append([]string{"check"}, args...)
	_, optind, err := getopt.Getopts(argv, "")
	if err != nil {
		return fmt.Errorf("aal check: %w", err)
	}
	remaining := argv[optind:]
	if len(remaining) == 0 {
		return errors.New("aal check: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	engine := aal.MustNewEngine(aal.Config{})
	defer engine.Close()
	warnings := checkSource(string(input), engine.FunctionNames())
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		column := max(warning.Column, 1)
		fmt.Printf("%s:%d:%d: %s: %s\n", scriptPath, warning.Statement, column, warning.Severity, warning.Message)
	}
	return fmt.Errorf("check found %d issue(s)", len(warnings))
}

// checkSource splits and tokenizes src without running it, descending into
// block literals. Besides lexer problems it flags calls to names that are
// neither registered functions nor assigned anywhere in the file. Statement
// numbers start at 1; 0 marks problems with the file as a whole. Problems
// inside a block are reported at the block's column.
func checkSource(src string, functions []string) []lintWarning {
	stmts, diags := aal.SplitStatements(src)
	warnings := make([]lintWarning, 0)
	for _, d := range diags {
		warnings = append(warnings, lintWarning{Severity: d.Severity, Message: d.Message})
	}

	var checked []checkedStatement
	for i, stmt := range stmts {
		checked = collectStatement(stmt, i+1, 0, checked, &warnings)
	}

	assigned := make(map[string]bool)
	for _, c := range checked {
		if len(c.tokens) > 1 && c.tokens[0].Type == identToken && c.tokens[1].Type == assignToken {
			assigned[c.tokens[0].Literal] = true
		}
	}

	for _, c := range checked {
		for j := 0; j+1 < len(c.tokens); j++ {
			name := c.tokens[j]
			if name.Type != identToken || c.tokens[j+1].Type != lparenToken {
				continue
			}
			if slices.Contains(functions, name.Literal) || assigned[name.Literal] {
				continue
			}
			warnings = append(warnings, lintWarning{
				Statement: c.index,
				Column:    c.column(name),
				Severity:  aal.SeverityWarning,
				Message:   fmt.Sprintf("call to undefined function %s()", name.Literal),
			})
		}
	}

	slices.SortStableFunc(warnings, func(a, b lintWarning) int {
		if a.Statement != b.Statement {
			return a.Statement - b.Statement
		}
		return a.Column - b.Column
	})
	return warnings
}

type checkedStatement struct {
	index       int
	blockColumn int
	tokens      []aal.Token
}

func (c checkedStatement) column(tok aal.Token) int {
	if c.blockColumn > 0 {
		return c.blockColumn
	}
	return tok.Pos.Column
}

func collectStatement(stmt string, index, blockColumn int, out []checkedStatement, warnings *[]lintWarning) []checkedStatement {
	tokens, diags := aal.Tokenize(stmt)
	c := checkedStatement{index: index, blockColumn: blockColumn, tokens: tokens}
	for _, d := range diags {
		*warnings = append(*warnings, lintWarning{Statement: index, Column: c.column(aal.Token{Pos: d.Pos}), Severity: d.Severity, Message: d.Message})
	}
	out = append(out, c)

	for _, tok := range tokens {
		if tok.Type != blockToken {
			continue
		}
		inner, diags := aal.SplitStatements(tok.Literal)
		for _, d := range diags {
			*warnings = append(*warnings, lintWarning{Statement: index, Column: c.column(tok), Severity: d.Severity, Message: d.Message})
		}
		for _, s := range inner {
			out = collectStatement(s, index, c.column(tok), out, warnings)
		}
	}
	return out
}
