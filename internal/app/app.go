// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"maps"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wordstack/internal/config"
	"github.com/zjrosen/wordstack/internal/flags"
	"github.com/zjrosen/wordstack/internal/keys"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/ui/editor"
	"github.com/zjrosen/wordstack/internal/ui/logoverlay"
	"github.com/zjrosen/wordstack/internal/ui/styles"
	"github.com/zjrosen/wordstack/internal/ui/toaster"
	"github.com/zjrosen/wordstack/internal/watcher"
)

// ConfigChangedMsg is sent when the watched config file changes on disk.
type ConfigChangedMsg struct{}

// Model is the root application state.
type Model struct {
	editor editor.Model
	keys   keys.KeyMap

	cfg        config.Config
	configPath string

	width  int
	height int

	// Centralized toaster - owned by app, not the editor
	toaster toaster.Model

	debugMode    bool
	logOverlay   logoverlay.Model
	logListenCmd tea.Cmd

	// Config file watcher for live ui/theme reloads
	watcherHandle *watcher.Watcher
	watcherCtx    context.Context
	watcherCancel context.CancelFunc
	configChanges <-chan struct{}
}

// NewWithConfig creates the application model.
// configPath is the file watched for changes and updated when the stack
// panels are toggled; empty disables both.
// debugMode enables the log overlay (Ctrl+X toggle).
func NewWithConfig(cfg config.Config, configPath string, tracer trace.Tracer, debugMode bool) Model {
	features := flags.New(cfg.Flags)

	m := Model{
		editor: editor.New(editor.Config{
			MaxHistory:    cfg.Editor.MaxHistory,
			ShowStacks:    cfg.UI.ShowStacks,
			ShowWelcome:   cfg.UI.ShowWelcome,
			MarkdownStyle: cfg.UI.MarkdownStyle,
			WordDiff:      features.Enabled(flags.FlagWordDiff),
			Tracer:        tracer,
		}),
		keys:       keys.DefaultKeyMap(),
		cfg:        cfg,
		configPath: configPath,
		toaster:    toaster.New(),
		debugMode:  debugMode,
		logOverlay: logoverlay.New(),
	}

	if err := styles.ApplyTheme(cfg.Theme.Colors); err != nil {
		log.Warn(log.CatConfig, "Ignoring invalid theme", "error", err)
	}

	if cfg.UI.WatchConfig && configPath != "" {
		m.startWatcher()
	}

	// Create log overlay and start listening if debug mode is enabled
	if debugMode {
		m.logListenCmd = m.logOverlay.StartListening()
	}
	return m
}

// startWatcher begins watching the config file. Failures are logged and
// leave live reload off; the app works fine without it.
func (m *Model) startWatcher() {
	if _, err := os.Stat(m.configPath); err != nil {
		log.Debug(log.CatWatcher, "Config file not found, live reload disabled", "path", m.configPath)
		return
	}

	w, err := watcher.New(watcher.DefaultConfig(m.configPath))
	if err != nil {
		log.Warn(log.CatWatcher, "Failed to create config watcher", "error", err)
		return
	}
	changes, err := w.Start()
	if err != nil {
		log.Warn(log.CatWatcher, "Failed to start config watcher", "error", err)
		_ = w.Stop()
		return
	}

	m.watcherHandle = w
	m.configChanges = changes
	m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
}

// waitForConfigChange returns a command that blocks until the config file
// changes, or nil when no watcher is running.
func (m Model) waitForConfigChange() tea.Cmd {
	if m.configChanges == nil {
		return nil
	}
	ctx, changes := m.watcherCtx, m.configChanges
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			return ConfigChangedMsg{}
		}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.editor.Init(), m.waitForConfigChange(), m.logListenCmd)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor = m.editor.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		// The log overlay covers the editor, so clicks go nowhere.
		if m.logOverlay.Visible() {
			return m, nil
		}

	case log.LogEvent:
		// Route to log overlay (handles accumulation and listening)
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		if m.debugMode && key.Matches(msg, m.keys.ToggleLogs) {
			m.logOverlay.Toggle()
			return m, nil
		}

		// If the debug log overlay is visible it takes precedence for updates
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}

	case ConfigChangedMsg:
		var cmd tea.Cmd
		m, cmd = m.reloadConfig()
		return m, tea.Batch(cmd, m.waitForConfigChange())

	case editor.StacksToggledMsg:
		m.cfg.UI.ShowStacks = msg.Show
		if m.configPath != "" {
			if err := config.SaveUI(m.configPath, m.cfg.UI); err != nil {
				log.Warn(log.CatConfig, "Failed to save stack visibility", "error", err)
			}
		}
		return m, nil

	case editor.ToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// reloadConfig re-reads the config file and applies the ui and theme
// sections. Other sections only take effect on restart. An unreadable or
// invalid file keeps the current settings.
func (m Model) reloadConfig() (Model, tea.Cmd) {
	cfg, err := config.Load(m.configPath)
	if err != nil {
		log.Warn(log.CatConfig, "Config reload failed", "path", m.configPath, "error", err)
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(fmt.Sprintf("Config not reloaded: %v", err), toaster.StyleError)
		return m, cmd
	}

	if cfg.UI == m.cfg.UI && maps.Equal(cfg.Theme.Colors, m.cfg.Theme.Colors) {
		// Our own SaveUI write, or an edit to a section we don't reload.
		return m, nil
	}

	if err := styles.ApplyTheme(cfg.Theme.Colors); err != nil {
		log.Warn(log.CatConfig, "Ignoring invalid theme", "error", err)
	}
	m.editor = m.editor.
		SetMarkdownStyle(cfg.UI.MarkdownStyle).
		SetShowWelcome(cfg.UI.ShowWelcome).
		SetShowStacks(cfg.UI.ShowStacks)

	m.cfg.UI = cfg.UI
	m.cfg.Theme = cfg.Theme
	log.Info(log.CatConfig, "Config reloaded", "path", m.configPath)

	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show("Config reloaded", toaster.StyleInfo)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.editor.View()

	// Overlay toaster on top of the editor
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	// Overlay log viewer on top (only in debug mode when visible)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.logOverlay.StopListening()

	// Cancel watcher subscription context (stops pending waits)
	if m.watcherCancel != nil {
		m.watcherCancel()
	}

	// Close watcher if we own it
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
		m.watcherHandle = nil
	}
	return nil
}
