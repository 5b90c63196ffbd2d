package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. WORDSTACK_SERVER_ADDR.
const EnvPrefix = "WORDSTACK"

// LocalConfigPath is checked before the user config directory.
const LocalConfigPath = ".wordstack/config.yaml"

// UserConfigDir returns ~/.config/wordstack, or empty if the home directory is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wordstack")
}

// SetDefaults registers every default value on v so that environment
// variables and partial config files merge over them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor.max_history", d.Editor.MaxHistory)
	v.SetDefault("session.idle_timeout", d.Session.IdleTimeout)
	v.SetDefault("session.max_sessions", d.Session.MaxSessions)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("ui.show_stacks", d.UI.ShowStacks)
	v.SetDefault("ui.show_welcome", d.UI.ShowWelcome)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.watch_config", d.UI.WatchConfig)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	for name, enabled := range d.Flags {
		v.SetDefault("flags."+name, enabled)
	}
}

// Configure points v at a config file and environment overrides.
// An explicit path wins; otherwise .wordstack/config.yaml, then
// ~/.config/wordstack/config.yaml.
func Configure(v *viper.Viper, path string) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		return
	}
	if _, err := os.Stat(LocalConfigPath); err == nil {
		v.SetConfigFile(LocalConfigPath)
		return
	}
	if dir := UserConfigDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// Load reads the config at path into a fresh viper instance and validates it.
// A missing file is not an error; defaults are returned instead.
func Load(path string) (Config, error) {
	v := viper.New()
	Configure(v, path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
