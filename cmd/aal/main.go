package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mgomes/aalang/aal"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		var exitErr *aal.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	argv := append([]string{"run"}, args...)
	opts, optind, err := getopt.Getopts(argv, "e:d:s:qn")
	if err != nil {
		return fmt.Errorf("aal run: %w", err)
	}
	remaining := argv[optind:]

	var cfg aal.Config
	inline, hasInline := "", false
	for _, opt := range opts {
		if opt.Option == 'e' {
			inline, hasInline = opt.Value, true
			continue
		}
		if err := applyEngineOption(&cfg, opt.Option, opt.Value); err != nil {
			return err
		}
	}

	if hasInline {
		engine, err := aal.NewEngine(cfg)
		if err != nil {
			return err
		}
		defer engine.Close()
		return execResult(engine.Run(inline))
	}

	if len(remaining) == 0 {
		return errors.New("aal run: script path required")
	}
	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	cfg.Loader = aal.OSFileLoader{BaseDir: filepath.Dir(scriptPath)}
	engine, err := aal.NewEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()
	return execResult(engine.RunFile(scriptPath))
}

// applyEngineOption handles the flags shared by run and repl.
func applyEngineOption(cfg *aal.Config, option rune, value string) error {
	switch option {
	case 'd':
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid -d value %q: expected a positive recursion limit", value)
		}
		cfg.RecursionLimit = n
	case 's':
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid -s value %q: expected a step quota (0 for unlimited)", value)
		}
		cfg.StepQuota = n
	case 'q':
		cfg.Diagnostics = io.Discard
	case 'n':
		cfg.NoColor = true
	default:
		return fmt.Errorf("unknown option -%c", option)
	}
	return nil
}

func execResult(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *aal.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return fmt.Errorf("execution failed: %w", err)
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options] [script]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-e source] [options] <script>   execute a program")
	fmt.Fprintln(os.Stderr, "  check <script>                       report parse problems without executing")
	fmt.Fprintln(os.Stderr, "  tokens [-e source] <script>          print every statement's tokens")
	fmt.Fprintln(os.Stderr, "  repl [options]                       start an interactive session")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -d <n>   block nesting limit (default 256)")
	fmt.Fprintln(os.Stderr, "  -s <n>   statement quota per top-level run (default unlimited)")
	fmt.Fprintln(os.Stderr, "  -q       discard diagnostics")
	fmt.Fprintln(os.Stderr, "  -n       disable colored diagnostics")
}
