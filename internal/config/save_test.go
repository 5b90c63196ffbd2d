package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUI_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

	ui := Defaults().UI
	ui.ShowStacks = false
	require.NoError(t, SaveUI(configPath, ui))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ui:")
	assert.Contains(t, string(data), "show_stacks: false")
	assert.Contains(t, string(data), "markdown_style: dark")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.False(t, cfg.UI.ShowStacks)
}

func TestSaveUI_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	initial := `# wordstack configuration
editor:
  max_history: 10 # keep it short
ui:
  show_stacks: true # toggled with ctrl+s
  markdown_style: light
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	ui := UIConfig{ShowStacks: false, ShowWelcome: true, MarkdownStyle: "light", WatchConfig: true}
	require.NoError(t, SaveUI(configPath, ui))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# wordstack configuration")
	assert.Contains(t, content, "max_history: 10 # keep it short")
	assert.Contains(t, content, "show_stacks: false # toggled with ctrl+s")
	assert.Contains(t, content, "show_welcome: true")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Editor.MaxHistory)
	require.Equal(t, ui, cfg.UI)
}

func TestSaveUI_ReplacesNonMappingUI(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("ui: nope\n"), 0o600))

	require.NoError(t, SaveUI(configPath, Defaults().UI))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.Equal(t, Defaults().UI, cfg.UI)
}

func TestSaveUI_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("ui: [broken"), 0o600))

	err := SaveUI(configPath, Defaults().UI)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestSaveUI_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveUI(configPath, Defaults().UI))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
