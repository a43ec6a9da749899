package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mgomes/aalang/aal"
)

func tokensCommand(args []string) error {
	argv := append([]string{"tokens"}, args...)
	opts, optind, err := getopt.Getopts(argv, "e:")
	if err != nil {
		return fmt.Errorf("aal tokens: %w", err)
	}
	remaining := argv[optind:]

	var src string
	switch {
	case len(opts) > 0:
		src = opts[len(opts)-1].Value
	case len(remaining) > 0:
		data, err := os.ReadFile(remaining[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		src = string(data)
	default:
		return errors.New("aal tokens: script path or -e source required")
	}
	return writeTokens(os.Stdout, src)
}

// writeTokens prints each statement followed by one line per token.
func writeTokens(w io.Writer, src string) error {
	stmts, diags := aal.SplitStatements(src)
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	for _, stmt := range stmts {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(stmt))
		tokens, diags := aal.Tokenize(stmt)
		for _, tok := range tokens {
			fmt.Fprintf(&b, "  %s\t(%s)\n", tok.Literal, tok.Type)
		}
		for _, d := range diags {
			fmt.Fprintf(&b, "  %s\n", d.Message)
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
