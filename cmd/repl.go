package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// getReplCmd returns the `repl` subcommand: an interactive bubbletea
// read-eval-print loop over a single, long-lived interpreter instance,
// so bindings made on one line (`let x = 1`) are visible on the next.
// This is the CLI's interactive counterpart to `eval`.
func getReplCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor, err := cmd.Flags().GetBool("no-color")
			if err != nil {
				return err
			}
			m := newReplModel(gs, noColor)
			p := tea.NewProgram(m, tea.WithInput(gs.stdIn), tea.WithOutput(gs.stdOut))
			_, err = p.Run()
			return err
		},
	}
}

type replEntry struct {
	source string
	result string
	isErr  bool
}

type replModel struct {
	in       *interp.Interpreter
	input    []rune
	cursor   int
	history  []replEntry
	promptS  lipgloss.Style
	resultS  lipgloss.Style
	errorS   lipgloss.Style
	quitting bool
}

func newReplModel(gs *globalState, noColor bool) replModel {
	m := replModel{in: newInterpreter(gs)}
	if noColor {
		m.promptS, m.resultS, m.errorS = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
		return m
	}
	m.promptS = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	m.resultS = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	m.errorS = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	return m
}

func (m replModel) Init() tea.Cmd { return nil }

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submit(), nil
	case tea.KeyBackspace:
		if m.cursor > 0 {
			m.input = append(m.input[:m.cursor-1], m.input[m.cursor:]...)
			m.cursor--
		}
		return m, nil
	case tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyRight:
		if m.cursor < len(m.input) {
			m.cursor++
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		runes := keyMsg.Runes
		if keyMsg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		m.input = append(m.input[:m.cursor], append(append([]rune(nil), runes...), m.input[m.cursor:]...)...)
		m.cursor += len(runes)
		return m, nil
	default:
		return m, nil
	}
}

func (m replModel) submit() replModel {
	source := string(m.input)
	m.input = nil
	m.cursor = 0
	if strings.TrimSpace(source) == "" {
		return m
	}

	v, err := m.in.Eval(source)
	entry := replEntry{source: source}
	if err != nil {
		entry.isErr = true
		entry.result = formatError(err)
	} else {
		entry.result = formatValue(v)
	}
	m.history = append(m.history, entry)
	return m
}

func (m replModel) View() string {
	var b strings.Builder
	for _, e := range m.history {
		fmt.Fprintf(&b, "%s %s\n", m.promptS.Render(">"), e.source)
		if e.isErr {
			fmt.Fprintln(&b, m.errorS.Render(e.result))
		} else {
			fmt.Fprintln(&b, m.resultS.Render(e.result))
		}
	}
	if m.quitting {
		return b.String()
	}
	fmt.Fprintf(&b, "%s %s", m.promptS.Render(">"), string(m.input))
	return b.String()
}
