// Package envsetup provides a lightweight .env configuration wizard.
// It runs automatically on first bot startup when no .env file exists.
package envsetup

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultHealthPort = 8081

type step int

const (
	stepWelcome step = iota
	stepDiscord
	stepGuild
	stepHealthPort
	stepConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	path         string
	step         step
	discordToken string
	guildID      string
	healthPort   int
	input        textinput.Model
	saved        bool
	err          error
}

// New returns a wizard that writes its result to path.
func New(path string) model {
	input := textinput.New()
	input.Prompt = "> "
	input.Focus()
	return model{
		path:       path,
		step:       stepWelcome,
		healthPort: defaultHealthPort,
		input:      input,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// advance moves to next with an empty input, masking it for secrets.
func (m model) advance(next step, secret bool) model {
	m.step = next
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	if secret {
		m.input.EchoMode = textinput.EchoPassword
	}
	return m
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepWelcome:
		m = m.advance(stepDiscord, true)

	case stepDiscord:
		if value == "" {
			m.err = errors.New("Discord token is required")
			return m, nil
		}
		m.discordToken = value
		m = m.advance(stepGuild, false)

	case stepGuild:
		if value != "" {
			if _, err := strconv.ParseUint(value, 10, 64); err != nil {
				m.err = errors.New("guild ID must be numeric (or leave it empty)")
				return m, nil
			}
		}
		m.guildID = value
		m = m.advance(stepHealthPort, false)

	case stepHealthPort:
		if value != "" {
			port, err := strconv.Atoi(value)
			if err != nil || port < 1 || port > 65535 {
				m.err = errors.New("port must be a number between 1 and 65535")
				return m, nil
			}
			m.healthPort = port
		}
		m = m.advance(stepConfirm, false)

	case stepConfirm:
		switch strings.ToLower(value) {
		case "", "y", "yes":
			if err := m.writeEnvFile(); err != nil {
				m.err = err
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		case "n", "no":
			return New(m.path), nil
		default:
			m.err = errors.New("please answer y or n")
		}
	}

	return m, nil
}

func (m model) envContent() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DISCORD_TOKEN=%s\n", m.discordToken)
	if m.guildID != "" {
		fmt.Fprintf(&b, "GUILD_ID=%s\n", m.guildID)
	}
	fmt.Fprintf(&b, "HEALTH_PORT=%d\n", m.healthPort)
	b.WriteString("LOG_LEVEL=info\n")
	return b.String()
}

func (m model) writeEnvFile() error {
	if err := os.WriteFile(m.path, []byte(m.envContent()), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", m.path, err)
	}
	return nil
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepWelcome:
		s.WriteString(titleStyle.Render("Polonizacyja bot - Env Setup"))
		s.WriteString("\n\n")
		s.WriteString("This wizard will help you configure the Discord bot.\n")
		s.WriteString("You'll need a Discord bot token. Everything else is optional.\n")
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("Press Enter to continue, Ctrl+C to exit"))

	case stepDiscord:
		s.WriteString(titleStyle.Render("Step 1: Discord Bot Token"))
		s.WriteString("\n\n")
		s.WriteString("To get your Discord bot token:\n\n")
		s.WriteString("  1. Go to " + linkStyle.Render("https://discord.com/developers/applications") + "\n")
		s.WriteString("  2. Create a new application (or select existing)\n")
		s.WriteString("  3. Go to the Bot section\n")
		s.WriteString("  4. Click 'Reset Token' to get your bot token\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Paste your Discord token here:"))

	case stepGuild:
		s.WriteString(titleStyle.Render("Step 2: Test Guild (optional)"))
		s.WriteString("\n\n")
		s.WriteString("Commands registered to a single guild show up immediately;\n")
		s.WriteString("global registration can take up to an hour.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Guild ID, or Enter to register globally:"))

	case stepHealthPort:
		s.WriteString(titleStyle.Render("Step 3: Health Port"))
		s.WriteString("\n\n")
		s.WriteString("The bot serves /health and /metrics on this port.\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render(fmt.Sprintf("Port, or Enter for %d:", defaultHealthPort)))

	case stepConfirm:
		s.WriteString(titleStyle.Render("Configuration Complete"))
		s.WriteString("\n\n")
		s.WriteString("Your configuration:\n\n")
		s.WriteString("  Discord:      " + successStyle.Render(maskToken(m.discordToken)) + "\n")
		s.WriteString("  Guild:        " + successStyle.Render(orDefault(m.guildID, "(global)")) + "\n")
		s.WriteString("  Health port:  " + successStyle.Render(strconv.Itoa(m.healthPort)) + "\n")
		s.WriteString("  File:         " + successStyle.Render(m.path) + "\n")
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Save this configuration? [Y/n]:"))
	}

	if m.step != stepWelcome {
		s.WriteString("\n")
		s.WriteString(m.input.View())
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}

	s.WriteString("\n")
	return s.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// Run starts the setup wizard and reports whether a file was written.
func Run(path string) (bool, error) {
	p := tea.NewProgram(New(path))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	return finalModel.(model).saved, nil
}

// NeedsSetup reports whether path does not exist yet.
func NeedsSetup(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}
