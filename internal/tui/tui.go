// Package tui is an interactive live preview: type Cyrillic on the left,
// read the polonized text on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jusunglee/polonizacyja/internal/transliteration"
)

type keyMap struct {
	Serbian    key.Binding
	Exceptions key.Binding
	Suffixes   key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Serbian, k.Exceptions, k.Suffixes, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Serbian: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "serbian"),
	),
	Exceptions: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "polish exceptions"),
	),
	Suffixes: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "suffix rules"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	onStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model for the live preview.
type Model struct {
	input  textarea.Model
	help   help.Model
	opts   transliteration.Options
	t      *transliteration.Transliterator
	output string
	width  int
}

func New(opts transliteration.Options) (Model, error) {
	t, err := transliteration.New(opts)
	if err != nil {
		return Model{}, err
	}

	input := textarea.New()
	input.Placeholder = "Пишите здесь..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	return Model{
		input: input,
		help:  help.New(),
		opts:  t.Options(),
		t:     t,
		width: 80,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Serbian):
			m.opts.SerbianSoftConsonants = !m.opts.SerbianSoftConsonants
			return m.rebuild(), nil
		case key.Matches(msg, keys.Exceptions):
			m.opts.PolishExceptions = !m.opts.PolishExceptions
			return m.rebuild(), nil
		case key.Matches(msg, keys.Suffixes):
			if m.opts.SuffixRules == transliteration.SuffixRulesExtended {
				m.opts.SuffixRules = transliteration.SuffixRulesMinimal
			} else {
				m.opts.SuffixRules = transliteration.SuffixRulesExtended
			}
			return m.rebuild(), nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.output = m.t.String(m.input.Value())
	return m, cmd
}

// rebuild swaps in a Transliterator for the current options. Toggled
// options are always valid, so New cannot fail here.
func (m Model) rebuild() Model {
	t, err := transliteration.New(m.opts)
	if err != nil {
		panic(err)
	}
	m.t = t
	m.output = t.String(m.input.Value())
	return m
}

func (m *Model) resize() {
	paneWidth := max(m.width/2-paneStyle.GetHorizontalFrameSize(), 20)
	m.input.SetWidth(paneWidth)
}

// Output returns the current transliteration.
func (m Model) Output() string {
	return m.output
}

func (m Model) View() string {
	paneWidth := max(m.width/2-paneStyle.GetHorizontalFrameSize(), 20)

	left := paneStyle.Render(m.input.View())
	right := paneStyle.
		Width(paneWidth).
		Height(m.input.Height()).
		Render(outputStyle.Render(m.output))

	var b strings.Builder
	b.WriteString(titleStyle.Render("polonizacyja"))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) status() string {
	flag := func(name string, on bool) string {
		if on {
			return onStyle.Render(name)
		}
		return offStyle.Render(name)
	}
	return fmt.Sprintf("%s %s %s",
		flag("polish", m.opts.PolishExceptions),
		flag("serbian", m.opts.SerbianSoftConsonants),
		flag("suffixes:"+string(m.opts.SuffixRules), m.opts.SuffixRules == transliteration.SuffixRulesExtended),
	)
}

// Run blocks until the user quits and returns the final transliteration.
func Run(opts transliteration.Options) (string, error) {
	m, err := New(opts)
	if err != nil {
		return "", err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("running preview: %w", err)
	}
	return final.(Model).Output(), nil
}
