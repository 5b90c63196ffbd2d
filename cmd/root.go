package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/wordstack/internal/app"
	"github.com/zjrosen/wordstack/internal/config"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool

	// Set by initConfig before any command runs.
	cfg     config.Config
	cfgPath string
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "wordstack",
	Short: "A word editor with undo and redo",
	Long: `A terminal word editor: insert words, delete words from the end, and
step backwards and forwards through every change with undo and redo.

The same editor is available as an HTTP service (wordstack serve) and as a
script runner (wordstack replay).`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/wordstack/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log and enable the log overlay (ctrl+x)")
}

func initConfig() {
	viper.Reset()
	config.Configure(viper.GetViper(), cfgFile)
	cfg, cfgPath, cfgErr = config.Defaults(), "", nil

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFile == "":
			// No config file found anywhere - create the default in the user config dir
			if path := defaultConfigPath(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					viper.SetConfigFile(path)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		default:
			cfgErr = fmt.Errorf("reading config: %w", err)
			return
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		cfgErr = fmt.Errorf("decoding config: %w", err)
		return
	}
	if err := config.Validate(cfg); err != nil {
		cfgErr = fmt.Errorf("invalid config: %w", err)
		return
	}
	cfgPath = viper.ConfigFileUsed()
}

func defaultConfigPath() string {
	dir := config.UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func debugEnabled() bool {
	return debugFlag || os.Getenv("WORDSTACK_DEBUG") != ""
}

// initDebugLog starts file logging when debug mode is on. The returned
// cleanup is always safe to call.
func initDebugLog(prefix string) (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}

	cleanup, err := log.InitWithTeaLog(cfg.Log.Path, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	level, _ := log.ParseLevel(cfg.Log.Level)
	log.SetMinLevel(level)

	log.Info(log.CatConfig, "Debug logging enabled", "path", cfg.Log.Path, "config", cfgPath, "version", version)
	return cleanup, nil
}

// startTracing builds the tracing provider and returns a function that
// flushes it.
func startTracing() (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing.ToTracing())
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	if provider.Enabled() {
		log.Info(log.CatTrace, "Tracing enabled", "exporter", cfg.Tracing.Exporter)
	}

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	}
	return provider, shutdown, nil
}

func runApp(_ *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	cleanup, err := initDebugLog("wordstack")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, shutdown, err := startTracing()
	if err != nil {
		return err
	}
	defer shutdown()

	zone.NewGlobal()

	model := app.NewWithConfig(cfg, cfgPath, provider.Tracer(), debugEnabled())
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher and log listener
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
