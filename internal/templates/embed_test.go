package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wordstack/internal/script"
	"github.com/zjrosen/wordstack/internal/session"
)

func TestScriptNames(t *testing.T) {
	require.Equal(t, []string{"branching", "overdelete", "quick-fox"}, ScriptNames())
}

func TestScript_Unknown(t *testing.T) {
	_, err := Script("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "quick-fox")
}

// Every example must parse and run without rejected steps, except the
// ones that demonstrate validation.
func TestScripts_Run(t *testing.T) {
	tests := []struct {
		name     string
		final    string
		rejected int
	}{
		{"quick-fox", "the quick lazy dog", 0},
		{"overdelete", "", 1},
		{"branching", "alpha beta delta", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Script(tt.name)
			require.NoError(t, err)

			s, err := script.Load(bytes.NewReader(data))
			require.NoError(t, err)
			require.NotEmpty(t, s.Name)

			m := session.NewManager(session.Config{})
			t.Cleanup(m.Close)

			report, err := script.Run(context.Background(), m, s)
			require.NoError(t, err)
			require.Equal(t, tt.final, report.Final.Text)
			require.Equal(t, tt.rejected, report.Rejected)
		})
	}
}
