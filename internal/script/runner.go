package script

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/wordstack/internal/command"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/session"
	"github.com/zjrosen/wordstack/internal/tracing"
)

const tracerName = "github.com/zjrosen/wordstack/internal/script"

// Sessions is the subset of session.Manager the runner needs.
type Sessions interface {
	Create(ctx context.Context) (*session.Session, error)
	Apply(ctx context.Context, id string, cmd command.Command) (session.Result, error)
	State(ctx context.Context, id string) (session.State, error)
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index   int    `json:"index"`
	Line    int    `json:"line,omitempty"`
	Command string `json:"command"`
	Applied bool   `json:"applied"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
	Text    string `json:"text"`
}

// Report summarizes a script run.
type Report struct {
	Name      string        `json:"name,omitempty"`
	SessionID string        `json:"session_id"`
	Steps     []StepResult  `json:"steps"`
	Applied   int           `json:"applied"`
	Rejected  int           `json:"rejected"`
	Final     session.State `json:"final"`
}

// Run replays s against a new session.
func Run(ctx context.Context, sessions Sessions, s *Script) (Report, error) {
	sess, err := sessions.Create(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("creating session: %w", err)
	}
	return RunSession(ctx, sessions, sess.ID, s)
}

// RunSession replays s against an existing session. Steps that fail
// validation are recorded in the report and skipped, leaving the document
// unchanged. Any other failure stops the run.
func RunSession(ctx context.Context, sessions Sessions, id string, s *Script) (Report, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, tracing.SpanScriptRun)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrSessionID, id),
		attribute.Int("script.steps", len(s.Steps)),
	)

	report := Report{Name: s.Name, SessionID: id, Steps: make([]StepResult, 0, len(s.Steps))}
	log.Info(log.CatScript, "Running script", "name", s.Name, "session", id, "steps", len(s.Steps))

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			tracing.RecordError(span, err)
			return report, err
		}

		result := StepResult{Index: i + 1, Line: step.Line}

		cmd, err := step.Command()
		if err == nil {
			result.Command = cmd.String()
			err = cmd.Validate()
		}
		if err != nil {
			result.Error = err.Error()
			report.Rejected++
			log.Warn(log.CatScript, "Skipping step", "index", result.Index, "line", step.Line, "error", err)

			state, stateErr := sessions.State(ctx, id)
			if stateErr != nil {
				tracing.RecordError(span, stateErr)
				return report, stateErr
			}
			result.Text = state.Text
			report.Steps = append(report.Steps, result)
			continue
		}

		res, err := sessions.Apply(ctx, id, cmd)
		if err != nil {
			tracing.RecordError(span, err)
			return report, fmt.Errorf("step %d: %w", result.Index, err)
		}

		result.Applied = true
		result.Changed = res.Changed
		result.Text = res.State.Text
		report.Applied++
		report.Steps = append(report.Steps, result)
	}

	final, err := sessions.State(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return report, err
	}
	report.Final = final

	span.SetAttributes(
		attribute.Int("script.applied", report.Applied),
		attribute.Int("script.rejected", report.Rejected),
		attribute.Int(tracing.AttrWordCount, final.WordCount),
	)
	log.Info(log.CatScript, "Script finished", "session", id, "applied", report.Applied, "rejected", report.Rejected)

	return report, nil
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human readable summary of the report.
func (r Report) WriteText(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	if r.Name != "" {
		printf("Script: %s\n", r.Name)
	}
	for _, s := range r.Steps {
		label := s.Command
		if label == "" {
			label = "(invalid step)"
		}
		switch {
		case s.Error != "":
			printf("%3d  ✗ %-24s %s\n", s.Index, label, s.Error)
		case !s.Changed:
			printf("%3d  · %-24s %q (no change)\n", s.Index, label, s.Text)
		default:
			printf("%3d  ✓ %-24s %q\n", s.Index, label, s.Text)
		}
	}
	printf("\nText: %q\n", r.Final.Text)
	printf("Words: %d  Undo: %d  Redo: %d\n", r.Final.WordCount, len(r.Final.Undo), len(r.Final.Redo))
	printf("Applied: %d  Rejected: %d\n", r.Applied, r.Rejected)
	return err
}
