package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrCommandKind  = "command.kind"
	AttrCommandCount = "command.count"
	AttrChanged      = "command.changed"
	AttrWordCount    = "words.count"
	AttrUndoDepth    = "history.undo_depth"
	AttrRedoDepth    = "history.redo_depth"
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanSessionCommand = "session.command"
	SpanSessionCreate  = "session.create"
	SpanSessionDelete  = "session.delete"
	SpanScriptRun      = "script.run"
)

// StartCommandSpan opens a span for one command against one session.
func StartCommandSpan(ctx context.Context, tracer trace.Tracer, sessionID, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanSessionCommand,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrSessionID, sessionID),
			attribute.String(AttrCommandKind, kind),
		),
	)
}

// RecordOutcome annotates span with the post-command history shape.
func RecordOutcome(span trace.Span, changed bool, words, undoDepth, redoDepth int) {
	span.SetAttributes(
		attribute.Bool(AttrChanged, changed),
		attribute.Int(AttrWordCount, words),
		attribute.Int(AttrUndoDepth, undoDepth),
		attribute.Int(AttrRedoDepth, redoDepth),
	)
	span.SetStatus(codes.Ok, "")
}

// RecordError marks span as failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	span.SetStatus(codes.Error, err.Error())
}
