package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wordstack/internal/script"
	"github.com/zjrosen/wordstack/internal/session"
	"github.com/zjrosen/wordstack/internal/templates"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file|-]",
	Short: "Replay an editing script",
	Long: `Replay a YAML editing script against a fresh document and print the text
after every step. Use - to read the script from stdin.

Steps that fail validation are reported and skipped; they do not stop the
run. Built-in examples run with --example NAME.

Example script:
  name: quick fox
  steps:
    - insert: the quick
    - insert: brown fox
    - delete: 2
    - undo
    - redo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replayJSON    bool
	replayExample string
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the report as JSON")
	replayCmd.Flags().StringVar(&replayExample, "example", "",
		"run a built-in example script instead of a file")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	cleanup, err := initDebugLog("wordstack-replay")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, shutdownTracing, err := startTracing()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	source, s, err := resolveScript(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	manager := session.NewManager(session.Config{
		MaxHistory: cfg.Editor.MaxHistory,
		Tracer:     provider.Tracer(),
	})
	defer manager.Close()

	report, err := script.Run(cmd.Context(), manager, s)
	if err != nil {
		return fmt.Errorf("replaying %s: %w", source, err)
	}

	if replayJSON {
		return report.WriteJSON(cmd.OutOrStdout())
	}
	return report.WriteText(cmd.OutOrStdout())
}

var errNoScript = errors.New("a script file, - or --example is required")

// resolveScript picks the script source: a built-in example, stdin or a file.
func resolveScript(stdin io.Reader, args []string) (string, *script.Script, error) {
	switch {
	case replayExample != "" && len(args) > 0:
		return "", nil, errors.New("--example cannot be combined with a script file")
	case replayExample != "":
		data, err := templates.Script(replayExample)
		if err != nil {
			return "", nil, err
		}
		s, err := script.Load(bytes.NewReader(data))
		return "example " + replayExample, s, err
	case len(args) == 0:
		return "", nil, errNoScript
	}

	s, err := loadScript(stdin, args[0])
	return args[0], s, err
}

func loadScript(stdin io.Reader, path string) (*script.Script, error) {
	if path == "-" {
		return script.Load(stdin)
	}

	f, err := os.Open(path) //nolint:gosec // G304: user-chosen script path
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer func() { _ = f.Close() }()

	return script.Load(f)
}
