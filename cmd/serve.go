package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wordstack/internal/api"
	"github.com/zjrosen/wordstack/internal/config"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the editor as an HTTP service. Every client creates its own session
with its own word history; sessions idle longer than session.idle_timeout
are dropped.

Example:
  wordstack serve                      # Listen on server.addr (default localhost:7777)
  wordstack serve --addr :8080         # Listen on port 8080`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides server.addr)")
}

// sessionConfig maps the loaded config onto the session manager.
func sessionConfig(c config.Config, tracer trace.Tracer) session.Config {
	return session.Config{
		IdleTimeout: c.Session.IdleTimeout,
		MaxSessions: c.Session.MaxSessions,
		MaxHistory:  c.Editor.MaxHistory,
		Tracer:      tracer,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	// The service always logs; --debug switches from stderr to the log file.
	if debugEnabled() {
		cleanup, err := initDebugLog("wordstack-serve")
		if err != nil {
			return err
		}
		defer cleanup()
	} else {
		defer log.InitWriter(os.Stderr)()
		log.SetMinLevel(log.LevelInfo)
	}

	provider, shutdownTracing, err := startTracing()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	manager := session.NewManager(sessionConfig(cfg, provider.Tracer()))
	defer manager.Close()

	// Priority: --addr flag > server.addr config
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	server, err := api.NewServer(api.ServerConfig{
		Addr:     addr,
		Sessions: manager,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "wordstack API listening on http://%s\n", server.Addr())
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		_, _ = fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.ErrorErr(log.CatAPI, "Error stopping API server", err)
	}

	_, _ = fmt.Fprintln(out, "Server stopped")
	return nil
}
