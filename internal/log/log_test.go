package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	got := format(ts, LevelInfo, CatSession, "created", "id", "abc", "words", 0)
	require.Equal(t, "2026-01-02T15:04:05 [INFO] [session] created id=abc words=0\n", got)

	got = format(ts, LevelWarn, CatAPI, "odd", "orphan")
	require.Equal(t, "2026-01-02T15:04:05 [WARN] [api] odd orphan=<missing>\n", got)
}

func TestInitWriter_RespectsLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetMinLevel(LevelWarn)
	Info(CatEditor, "hidden")
	Warn(CatEditor, "shown", "n", 1)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [editor] shown n=1")

	SetEnabled(false)
	Error(CatEditor, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestErrorErr(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	ErrorErr(CatConfig, "save failed", errors.New("disk full"), "path", "/tmp/x")
	require.Contains(t, buf.String(), "save failed path=/tmp/x error=disk full")
}

func TestNoLoggerIsSilent(t *testing.T) {
	require.NotPanics(t, func() {
		Info(CatUI, "nobody listening")
	})
	require.Nil(t, NewListener(context.Background()))
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatScript, "step applied", "index", 2)

	event, ok := listener.Listen()().(LogEvent)
	require.True(t, ok)
	require.Contains(t, event.Payload, "step applied index=2")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"":      LevelDebug,
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}
