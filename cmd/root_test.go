package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wordstack/internal/config"
	"github.com/zjrosen/wordstack/internal/tracing"
)

const quickFoxScript = `name: quick fox
steps:
  - insert: the quick
  - insert: brown fox
  - delete: 2
  - undo
  - redo
  - insert: lazy dog
`

// execute runs the root command with fresh flag state and an isolated HOME.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfgFile, debugFlag, replayJSON, replayExample, serveAddr = "", false, false, "", ""
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WORDSTACK_DEBUG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func defaultConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	return path
}

func TestReplay_Text(t *testing.T) {
	scriptPath := writeFile(t, "fox.yaml", quickFoxScript)

	out, err := execute(t, "", "replay", scriptPath, "--config", defaultConfigFile(t))
	require.NoError(t, err)

	require.Contains(t, out, "Script: quick fox")
	require.Contains(t, out, `Text: "the quick lazy dog"`)
	require.Contains(t, out, "Applied: 6  Rejected: 0")
}

func TestReplay_JSONFromStdin(t *testing.T) {
	out, err := execute(t, quickFoxScript, "replay", "-", "--json", "-c", defaultConfigFile(t))
	require.NoError(t, err)

	var report struct {
		Applied int `json:"applied"`
		Final   struct {
			Text string   `json:"text"`
			Undo []string `json:"undo"`
		} `json:"final"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 6, report.Applied)
	require.Equal(t, "the quick lazy dog", report.Final.Text)
	require.Equal(t, []string{"", "the quick", "the quick brown fox", "the quick"}, report.Final.Undo)
}

func TestReplay_Example(t *testing.T) {
	out, err := execute(t, "", "replay", "--example", "quick-fox", "-c", defaultConfigFile(t))
	require.NoError(t, err)
	require.Contains(t, out, "Script: quick fox")
	require.Contains(t, out, `Text: "the quick lazy dog"`)
}

func TestReplay_MaxHistoryFromConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "editor:\n  max_history: 1\n")
	input := "steps:\n  - insert: a\n  - insert: b\n  - insert: c\n"

	out, err := execute(t, input, "replay", "-", "--json", "--config", cfgPath)
	require.NoError(t, err)

	var report struct {
		Final struct {
			Undo []string `json:"undo"`
		} `json:"final"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, []string{"a b"}, report.Final.Undo)
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        func(t *testing.T) []string
		errContains string
	}{
		{
			name: "missing script",
			args: func(t *testing.T) []string {
				return []string{"replay", filepath.Join(t.TempDir(), "nope.yaml"), "-c", defaultConfigFile(t)}
			},
			errContains: "opening script",
		},
		{
			name: "malformed script",
			args: func(t *testing.T) []string {
				return []string{"replay", writeFile(t, "bad.yaml", "steps: ["), "-c", defaultConfigFile(t)}
			},
			errContains: "parsing script",
		},
		{
			name: "invalid config",
			args: func(t *testing.T) []string {
				cfgPath := writeFile(t, "config.yaml", "editor:\n  max_history: -1\n")
				return []string{"replay", "-", "-c", cfgPath}
			},
			errContains: "invalid config",
		},
		{
			name: "missing explicit config",
			args: func(t *testing.T) []string {
				return []string{"replay", "-", "-c", filepath.Join(t.TempDir(), "missing.yaml")}
			},
			errContains: "reading config",
		},
		{
			name: "no script argument",
			args: func(t *testing.T) []string {
				return []string{"replay", "-c", defaultConfigFile(t)}
			},
			errContains: "--example is required",
		},
		{
			name: "example and file",
			args: func(t *testing.T) []string {
				return []string{"replay", "-", "--example", "quick-fox", "-c", defaultConfigFile(t)}
			},
			errContains: "cannot be combined",
		},
		{
			name: "unknown example",
			args: func(t *testing.T) []string {
				return []string{"replay", "--example", "nope", "-c", defaultConfigFile(t)}
			},
			errContains: "unknown example",
		},
		{
			name: "too many arguments",
			args: func(t *testing.T) []string {
				return []string{"replay", "a.yaml", "b.yaml", "-c", defaultConfigFile(t)}
			},
			errContains: "accepts at most 1 arg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args(t)...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestInitConfig_WritesDefaultWhenMissing(t *testing.T) {
	_, err := execute(t, "", "replay", "-")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	path := filepath.Join(home, ".config", "wordstack", "config.yaml")

	data, err := os.ReadFile(path)
	require.NoError(t, err, "default config should be written")
	require.Equal(t, config.DefaultConfigTemplate(), string(data))
	require.Equal(t, path, cfgPath)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("WORDSTACK_SERVER_ADDR", "127.0.0.1:9999")

	_, err := execute(t, "", "replay", "-", "-c", defaultConfigFile(t))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	require.Contains(t, out, "wordstack version")
}

func TestSessionConfig(t *testing.T) {
	c := config.Defaults()
	c.Session.IdleTimeout = 5 * time.Minute
	c.Session.MaxSessions = 3
	c.Editor.MaxHistory = 20
	tracer := tracing.Disabled().Tracer()

	got := sessionConfig(c, tracer)
	require.Equal(t, 5*time.Minute, got.IdleTimeout)
	require.Equal(t, 3, got.MaxSessions)
	require.Equal(t, 20, got.MaxHistory)
	require.Equal(t, tracer, got.Tracer)
}
