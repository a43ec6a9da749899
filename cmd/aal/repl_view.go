package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mgomes/aalang/aal"
)

type replTheme struct {
	accent  lipgloss.TerminalColor
	prompt  lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	result  lipgloss.Style
	failure lipgloss.Style
	key     lipgloss.Style
	panel   lipgloss.Style
}

func newREPLTheme() replTheme {
	accent := lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#818CF8"}
	subtle := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	return replTheme{
		accent:  accent,
		prompt:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		title:   lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
		muted:   lipgloss.NewStyle().Foreground(subtle),
		result:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}),
		failure: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}),
		key:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
	}
}

var theme = newREPLTheme()

type keyMap struct {
	Older     key.Binding
	Newer     key.Binding
	Submit    key.Binding
	Complete  key.Binding
	Interrupt key.Binding
	Quit      key.Binding
	Clear     key.Binding
	Vars      key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Older:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older")),
	Newer:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Complete:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Interrupt: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "interrupt/quit")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "quit")),
	Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Vars:      key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	Help:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Vars, k.Clear, k.Interrupt}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Older, k.Newer, k.Submit, k.Complete},
		{k.Interrupt, k.Quit, k.Clear, k.Vars, k.Help},
	}
}

type replDirective struct {
	names []string
	usage string
	run   func(m replModel, input string) (replModel, tea.Cmd)
}

var replDirectives = []replDirective{
	{names: []string{":help", ":h"}, usage: "toggle this help", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.showHelp = !m.showHelp
		return m, nil
	}},
	{names: []string{":vars", ":v"}, usage: "toggle the globals panel", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.showVars = !m.showVars
		return m, nil
	}},
	{names: []string{":limits"}, usage: "show engine limits", run: func(m replModel, input string) (replModel, tea.Cmd) {
		m.history = append(m.history, exchange{input: input, output: m.summary})
		return m, nil
	}},
	{names: []string{":clear", ":c"}, usage: "clear the transcript", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.history = nil
		return m, nil
	}},
	{names: []string{":reset", ":r"}, usage: "start a fresh engine", run: func(m replModel, input string) (replModel, tea.Cmd) {
		m.engine.Close()
		m.engine = aal.MustNewEngine(m.config)
		m.history = append(m.history, exchange{input: input, output: "Engine reset"})
		return m, nil
	}},
	{names: []string{":quit", ":q"}, usage: "leave (also quit, exit)", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		return m.quit()
	}},
}

func lookupCommand(name string) (replDirective, bool) {
	for _, d := range replDirectives {
		for _, n := range d.names {
			if n == name {
				return d, true
			}
		}
	}
	return replDirective{}, false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return theme.muted.Render("Goodbye!") + "\n"
	}

	var globals []string
	if m.showVars && !m.busy.IsSet() {
		globals = m.engine.GlobalNames()
	}

	var sections []string
	sections = append(sections,
		theme.title.Render("AALang")+" "+theme.muted.Render(m.summary),
		theme.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))),
		"",
	)

	reserved := 8
	if m.showHelp {
		reserved += len(replDirectives) + 4
	}
	if globals != nil {
		reserved += len(globals) + 4
	}
	visible := m.history
	if limit := max(m.height-reserved, 0); len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}
	for _, e := range visible {
		sections = append(sections, renderExchange(e))
	}

	if globals != nil {
		sections = append(sections, renderVarsPanel(m.engine, globals))
	}
	if m.showHelp {
		sections = append(sections, renderHelpPanel())
	}
	if m.busy.IsSet() {
		sections = append(sections, theme.muted.Render("running... ctrl+c to interrupt"))
	} else {
		sections = append(sections, m.textInput.View())
	}
	sections = append(sections, "", m.help.View(keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderExchange(e exchange) string {
	var b strings.Builder
	if e.input != "" {
		b.WriteString(theme.muted.Render("  › ") + e.input + "\n")
	}
	if e.isErr {
		b.WriteString("  " + theme.failure.Render("✗ "+e.output))
	} else {
		b.WriteString("  " + theme.result.Render("→ "+e.output))
	}
	b.WriteString("\n")
	return b.String()
}

func renderVarsPanel(engine *aal.Engine, names []string) string {
	if len(names) == 0 {
		return theme.panel.Render(theme.muted.Render("No globals defined"))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.accent)).
		Headers("NAME", "KIND", "VALUE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.prompt.Padding(0, 1)
			case col == 0:
				return theme.key.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
	for _, name := range names {
		val, ok := engine.Global(name)
		if !ok {
			continue
		}
		t.Row(name, val.Kind().String(), val.String())
	}
	return t.Render()
}

func renderHelpPanel() string {
	lines := []string{theme.prompt.Render("Commands")}
	for _, d := range replDirectives {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			theme.key.Render(fmt.Sprintf("%-10s", strings.Join(d.names, " "))),
			theme.muted.Render(d.usage)))
	}
	lines = append(lines, "", help.New().FullHelpView(keys.FullHelp()))
	return theme.panel.Render(strings.Join(lines, "\n"))
}
