// Package config provides configuration types, defaults and validation for wordstack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/tracing"
)

// Config holds all configuration options for wordstack.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`

	// Flags toggles optional features by name; see the flags package.
	Flags map[string]bool `mapstructure:"flags"`
}

// EditorConfig controls the word history of every session.
type EditorConfig struct {
	// MaxHistory bounds the undo stack. 0 keeps every snapshot.
	MaxHistory int `mapstructure:"max_history"`
}

// SessionConfig controls session lifetime in the HTTP service.
type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"` // 0 = sessions never expire
	MaxSessions int           `mapstructure:"max_sessions"` // 0 = unlimited
}

// ServerConfig holds settings for `wordstack serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// UIConfig holds terminal UI options.
type UIConfig struct {
	ShowStacks    bool   `mapstructure:"show_stacks"`    // Render the undo/redo stack panels
	ShowWelcome   bool   `mapstructure:"show_welcome"`   // Render the welcome blurb under the title
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	WatchConfig   bool   `mapstructure:"watch_config"`   // Reload UI options when the config file changes
}

// ThemeConfig overrides individual color tokens with hex values.
// Known tokens: accent, text, muted, error, success, border.
type ThemeConfig struct {
	Colors map[string]string `mapstructure:"colors"`
}

// LogConfig controls the debug log written when --debug is set.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // none, file, stdout, otlp
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// ToTracing converts to the tracing package's config, filling the default
// trace file when none is configured.
func (t TracingConfig) ToTracing() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultTracesFilePath()
	}
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// ThemeTokens lists the color tokens ThemeConfig accepts.
var ThemeTokens = []string{"accent", "text", "muted", "error", "success", "border"}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// DefaultTracesFilePath returns ~/.config/wordstack/traces/traces.jsonl, or
// empty if the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wordstack", "traces", "traces.jsonl")
}

// Defaults returns a Config with the default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			MaxHistory: 0,
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
			MaxSessions: 1000,
		},
		Server: ServerConfig{
			Addr: "localhost:7777",
		},
		UI: UIConfig{
			ShowStacks:    true,
			ShowWelcome:   true,
			MarkdownStyle: "dark",
			WatchConfig:   true,
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Flags: map[string]bool{
			"word-diff": true,
		},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if cfg.Editor.MaxHistory < 0 {
		return fmt.Errorf("editor.max_history must be >= 0, got %d", cfg.Editor.MaxHistory)
	}
	if cfg.Session.IdleTimeout < 0 {
		return fmt.Errorf("session.idle_timeout must be >= 0, got %s", cfg.Session.IdleTimeout)
	}
	if cfg.Session.MaxSessions < 0 {
		return fmt.Errorf("session.max_sessions must be >= 0, got %d", cfg.Session.MaxSessions)
	}
	switch cfg.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", cfg.UI.MarkdownStyle)
	}
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTheme checks that every override names a known token and a hex color.
func ValidateTheme(theme ThemeConfig) error {
	for token, value := range theme.Colors {
		known := false
		for _, t := range ThemeTokens {
			if t == token {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("theme.colors: unknown token %q", token)
		}
		if !hexColor.MatchString(value) {
			return fmt.Errorf("theme.colors.%s: %q is not a hex color", token, value)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() string {
	return `# wordstack configuration

editor:
  # Maximum number of undo snapshots kept per session (0 = unlimited)
  max_history: 0

# Session settings for 'wordstack serve'
session:
  idle_timeout: 30m   # Drop sessions idle this long (0 = never)
  max_sessions: 1000  # Refuse new sessions beyond this (0 = unlimited)

server:
  addr: localhost:7777

ui:
  show_stacks: true     # Show undo/redo stack panels (toggle with ctrl+s)
  show_welcome: true    # Show the welcome blurb under the title
  markdown_style: dark  # "dark" or "light"
  watch_config: true    # Reload ui/theme settings when this file changes

# Color overrides, tokens: accent, text, muted, error, success, border
# theme:
#   colors:
#     accent: "#54A0FF"
#     error: "#FF8787"

# Debug log (written only with --debug or WORDSTACK_DEBUG=1)
log:
  path: debug.log
  level: debug   # debug, info, warn, error

# Optional features
flags:
  word-diff: true   # Word diff of the selected snapshot against the current text

# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/wordstack/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath with the default
// template, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
