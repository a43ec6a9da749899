package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/aalang/aal"
	"github.com/tevino/abool/v2"
	"golang.org/x/term"
)

// exchange is one entry of the transcript: a statement and what it produced.
type exchange struct {
	input  string
	output string
	isErr  bool
}

// evalResultMsg carries the outcome of an evaluation run off the UI loop.
type evalResultMsg struct {
	input  string
	output string
	isErr  bool
	exit   bool
}

type replModel struct {
	textInput   textinput.Model
	help        help.Model
	config      aal.Config
	engine      *aal.Engine
	summary     string
	busy        *abool.AtomicBool
	history     []exchange
	recall      recall
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

func newREPLModel(cfg aal.Config) replModel {
	input := textinput.New()
	input.Prompt = "aal> "
	input.PromptStyle = theme.prompt
	input.Placeholder = "statement; statement; ..."
	input.CharLimit = 4096
	input.Width = 60
	input.Focus()

	footer := help.New()
	footer.Styles.ShortKey = theme.key
	footer.Styles.ShortDesc = theme.muted
	footer.Styles.ShortSeparator = theme.muted

	cfg.NoColor = true
	engine := aal.MustNewEngine(cfg)
	return replModel{
		textInput: input,
		help:      footer,
		config:    cfg,
		engine:    engine,
		summary:   engine.ConfigSummary(),
		busy:      abool.New(),
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = max(msg.Width-10, 10)
		m.help.Width = msg.Width
		m.initialized = true
		return m, nil

	case evalResultMsg:
		m.busy.UnSet()
		m.history = append(m.history, exchange{input: msg.input, output: msg.output, isErr: msg.isErr})
		if msg.exit {
			return m.quit()
		}
		return m, nil

	case tea.KeyMsg:
		if next, cmd, ok := m.handleKey(msg); ok {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleKey reports false for keys that belong to the text input.
func (m replModel) handleKey(msg tea.KeyMsg) (replModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Interrupt):
		if m.busy.IsSet() {
			m.engine.Interrupt()
			return m, nil, true
		}
		next, cmd := m.quit()
		return next, cmd, true
	case key.Matches(msg, keys.Quit):
		next, cmd := m.quit()
		return next, cmd, true
	case key.Matches(msg, keys.Clear):
		m.history = nil
	case key.Matches(msg, keys.Vars):
		m.showVars = !m.showVars
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Older):
		if stmt, ok := m.recall.older(); ok {
			m.textInput.SetValue(stmt)
			m.textInput.CursorEnd()
		}
	case key.Matches(msg, keys.Newer):
		if stmt, ok := m.recall.newer(); ok {
			m.textInput.SetValue(stmt)
			m.textInput.CursorEnd()
		}
	case key.Matches(msg, keys.Complete):
		if !m.busy.IsSet() {
			m = m.handleAutocomplete()
		}
	case key.Matches(msg, keys.Submit):
		next, cmd := m.submit()
		return next, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m replModel) submit() (replModel, tea.Cmd) {
	if m.busy.IsSet() {
		return m, nil
	}
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil
	}
	m.textInput.SetValue("")
	m.recall.rewind()

	switch {
	case strings.HasPrefix(input, ":"):
		return m.handleCommand(input)
	case isQuitWord(input):
		return m.quit()
	}

	m.recall.push(input)
	m.busy.Set()
	return m, m.evaluateCmd(input)
}

func (m replModel) quit() (replModel, tea.Cmd) {
	m.quitting = true
	m.textInput.SetValue("")
	return m, tea.Quit
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	name := strings.Fields(input)[0]
	command, ok := lookupCommand(name)
	if !ok {
		m.history = append(m.history, exchange{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", name),
			isErr:  true,
		})
		return m, nil
	}
	return command.run(m, input)
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	stem := lastIdentifier(input)
	if stem == "" {
		return m
	}

	matches := completionsFor(stem, m.engine.FunctionNames(), m.engine.GlobalNames())
	switch len(matches) {
	case 0:
	case 1:
		m.textInput.SetValue(input[:len(input)-len(stem)] + matches[0])
		m.textInput.CursorEnd()
	default:
		m.history = append(m.history, exchange{output: "Completions: " + strings.Join(matches, ", ")})
	}
	return m
}

// completionsFor returns the sorted, de-duplicated names starting with stem.
func completionsFor(stem string, sources ...[]string) []string {
	var matches []string
	for _, names := range sources {
		for _, name := range names {
			if strings.HasPrefix(name, stem) && !slices.Contains(matches, name) {
				matches = append(matches, name)
			}
		}
	}
	slices.Sort(matches)
	return matches
}

// lastIdentifier returns the identifier-like suffix of input.
func lastIdentifier(input string) string {
	i := strings.LastIndexFunc(input, func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	return input[i+1:]
}

func isQuitWord(input string) bool {
	word := strings.TrimSuffix(input, ";")
	return word == "quit" || word == "exit"
}

func (m replModel) evaluateCmd(input string) tea.Cmd {
	return func() tea.Msg {
		return m.run(input)
	}
}

// evaluate runs input synchronously and returns what the transcript shows.
func (m replModel) evaluate(input string) (string, bool) {
	result := m.run(input)
	return result.output, result.isErr
}

func (m replModel) run(input string) evalResultMsg {
	var out bytes.Buffer
	m.engine.SetOutput(&out, &out)
	result, err := m.engine.Eval(input)
	printed := strings.TrimRight(out.String(), "\n")

	msg := evalResultMsg{input: input}
	var exitErr *aal.ExitError
	switch {
	case errors.As(err, &exitErr):
		msg.exit = true
		msg.output = joinOutput(printed, fmt.Sprintf("exit(%d)", exitErr.Code))
	case err != nil:
		msg.isErr = true
		msg.output = joinOutput(printed, err.Error())
	default:
		msg.output = joinOutput(printed, result.String())
	}
	return msg
}

func joinOutput(printed, last string) string {
	if printed == "" {
		return last
	}
	return printed + "\n" + last
}

// recall keeps executed statements for up/down navigation. A cursor equal
// to len(entries) means the user is not browsing.
type recall struct {
	entries []string
	cursor  int
}

func (r *recall) push(stmt string) {
	r.entries = append(r.entries, stmt)
	r.cursor = len(r.entries)
}

func (r *recall) rewind() {
	r.cursor = len(r.entries)
}

func (r *recall) older() (string, bool) {
	if len(r.entries) == 0 {
		return "", false
	}
	if r.cursor > 0 {
		r.cursor--
	}
	return r.entries[r.cursor], true
}

// newer steps forward; walking past the newest entry yields an empty line.
func (r *recall) newer() (string, bool) {
	if r.cursor >= len(r.entries) {
		return "", false
	}
	r.cursor++
	if r.cursor == len(r.entries) {
		return "", true
	}
	return r.entries[r.cursor], true
}

func replCommand(args []string) error {
	argv := append([]string{"repl"}, args...)
	opts, _, err := getopt.Getopts(argv, "d:s:qn")
	if err != nil {
		return fmt.Errorf("aal repl: %w", err)
	}
	var cfg aal.Config
	for _, opt := range opts {
		if err := applyEngineOption(&cfg, opt.Option, opt.Value); err != nil {
			return err
		}
	}
	return runREPL(cfg)
}

// runREPL starts the full-screen UI on a terminal and a plain line loop
// when input or output is redirected.
func runREPL(cfg aal.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		engine, err := aal.NewEngine(cfg)
		if err != nil {
			return err
		}
		defer engine.Close()
		return runLineREPL(engine, os.Stdin, os.Stdout)
	}
	p := tea.NewProgram(newREPLModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// runLineREPL executes one line at a time and prints the resulting value,
// until EOF, quit or exit().
func runLineREPL(engine *aal.Engine, in io.Reader, out io.Writer) error {
	engine.SetOutput(out, nil)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isQuitWord(line) {
			return nil
		}
		val, err := engine.Eval(line)
		if err != nil {
			var exitErr *aal.ExitError
			if errors.As(err, &exitErr) {
				return err
			}
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, val.String())
	}
	return scanner.Err()
}
