package envsetup

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, m model, s string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(model)
}

func enter(t *testing.T, m model) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model), cmd
}

func TestWizardWritesEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := New(path)

	m, _ = enter(t, m)
	require.Equal(t, stepDiscord, m.step)

	m = typeText(t, m, "abcd1234efgh5678")
	m, _ = enter(t, m)
	require.Equal(t, stepGuild, m.step)
	assert.Empty(t, m.input.Value(), "input is cleared between steps")

	m = typeText(t, m, "123456789012345678")
	m, _ = enter(t, m)
	require.Equal(t, stepHealthPort, m.step)

	m = typeText(t, m, "9090")
	m, _ = enter(t, m)
	require.Equal(t, stepConfirm, m.step)
	assert.Contains(t, m.View(), "abcd********5678")

	m, cmd := enter(t, m)
	require.NoError(t, m.err)
	assert.True(t, m.saved)
	require.NotNil(t, cmd)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DISCORD_TOKEN=abcd1234efgh5678\nGUILD_ID=123456789012345678\nHEALTH_PORT=9090\nLOG_LEVEL=info\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWizardDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := New(path)

	m, _ = enter(t, m)
	m = typeText(t, m, "token")
	m, _ = enter(t, m)
	m, _ = enter(t, m)
	m, _ = enter(t, m)
	m, _ = enter(t, m)
	require.True(t, m.saved)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DISCORD_TOKEN=token\nHEALTH_PORT=8081\nLOG_LEVEL=info\n", string(content))
}

func TestWizardValidation(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), ".env"))
	m, _ = enter(t, m)

	m, _ = enter(t, m)
	assert.Equal(t, stepDiscord, m.step)
	assert.EqualError(t, m.err, "Discord token is required")

	m = typeText(t, m, "token")
	m, _ = enter(t, m)
	m = typeText(t, m, "not-a-guild")
	m, _ = enter(t, m)
	assert.Equal(t, stepGuild, m.step)
	assert.Error(t, m.err)

	m.input.Reset()
	m, _ = enter(t, m)
	m = typeText(t, m, "70000")
	m, _ = enter(t, m)
	assert.Equal(t, stepHealthPort, m.step)
	assert.Error(t, m.err)
}

func TestWizardDeclineRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	m := New(path)
	m, _ = enter(t, m)
	m = typeText(t, m, "token")
	m, _ = enter(t, m)
	m, _ = enter(t, m)
	m, _ = enter(t, m)

	m = typeText(t, m, "n")
	m, _ = enter(t, m)
	assert.Equal(t, stepWelcome, m.step)
	assert.Empty(t, m.discordToken)
	assert.True(t, NeedsSetup(path))
}

func TestWizardQuitDoesNotSave(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), ".env"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.False(t, next.(model).saved)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestNeedsSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	assert.True(t, NeedsSetup(path))
	require.NoError(t, os.WriteFile(path, []byte("X=1\n"), 0600))
	assert.False(t, NeedsSetup(path))
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "abcd**wxyz", maskToken("abcd12wxyz"))
}
