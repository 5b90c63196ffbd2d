package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wordstack/internal/wordhistory"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{name: "insert words", cmd: Insert("hello world")},
		{name: "insert blank", cmd: Insert("   \t"), wantErr: ErrEmptyInsert},
		{name: "insert empty", cmd: Insert(""), wantErr: ErrEmptyInsert},
		{name: "delete positive", cmd: Delete(3)},
		{name: "delete zero", cmd: Delete(0), wantErr: ErrNonPositiveCount},
		{name: "delete negative", cmd: Delete(-1), wantErr: ErrNonPositiveCount},
		{name: "undo", cmd: Undo()},
		{name: "redo", cmd: Redo()},
		{name: "unknown", cmd: Command{Kind: "paste"}, wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Insert ")
	require.NoError(t, err)
	require.Equal(t, KindInsert, k)

	_, err = ParseKind("yank")
	require.ErrorIs(t, err, ErrUnknownKind)
	require.Contains(t, err.Error(), "yank")
}

func TestApply_ReportsChange(t *testing.T) {
	h := wordhistory.New()

	require.True(t, Insert("a b c").Apply(h))
	require.True(t, Delete(1).Apply(h))
	require.Equal(t, "a b", h.Text())

	require.True(t, Undo().Apply(h))
	require.Equal(t, "a b c", h.Text())
	require.True(t, Redo().Apply(h))
	require.False(t, Redo().Apply(h), "nothing left to redo")

	require.False(t, Delete(0).Apply(h), "zero delete removes nothing")
	require.Equal(t, 3, h.UndoDepth(), "zero delete still records history")
}

func TestIsEdit(t *testing.T) {
	require.True(t, Insert("x").IsEdit())
	require.True(t, Delete(1).IsEdit())
	require.False(t, Undo().IsEdit())
	require.False(t, Redo().IsEdit())
}

func TestString(t *testing.T) {
	require.Equal(t, `insert "the fox"`, Insert("the fox").String())
	require.Equal(t, "delete 2", Delete(2).String())
	require.Equal(t, "undo", Undo().String())
}
