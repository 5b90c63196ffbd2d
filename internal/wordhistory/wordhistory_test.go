package wordhistory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew_Empty(t *testing.T) {
	h := New()

	require.Equal(t, "", h.Text())
	require.Equal(t, 0, h.WordCount())
	require.False(t, h.CanUndo())
	require.False(t, h.CanRedo())
	require.Empty(t, h.Snapshots().Undo)
	require.Empty(t, h.Snapshots().Redo)
}

func TestInsert_SplitsOnWhitespace(t *testing.T) {
	h := New()

	n := h.Insert("  the\tquick \n fox  ")

	require.Equal(t, 3, n)
	require.Equal(t, "the quick fox", h.Text())
	require.Equal(t, []string{"the", "quick", "fox"}, h.Words())
}

func TestInsert_Appends(t *testing.T) {
	h := New()
	h.Insert("the quick")
	h.Insert("brown fox")

	require.Equal(t, "the quick brown fox", h.Text())
	require.Equal(t, 4, h.WordCount())
	require.Equal(t, []string{"", "the quick"}, h.Snapshots().Undo)
}

func TestInsert_BlankStillRecordsHistory(t *testing.T) {
	h := New()
	h.Insert("alpha")
	h.Undo()
	require.True(t, h.CanRedo())

	n := h.Insert("   ")

	require.Equal(t, 0, n)
	require.Equal(t, "", h.Text())
	require.Equal(t, 1, h.UndoDepth(), "blank insert should push one snapshot")
	require.False(t, h.CanRedo(), "blank insert should clear redo")
}

func TestDelete_RemovesFromEnd(t *testing.T) {
	h := New()
	h.Insert("one two three four")

	removed := h.Delete(2)

	require.Equal(t, 2, removed)
	require.Equal(t, "one two", h.Text())
}

func TestDelete_ClampsOverflow(t *testing.T) {
	h := New()
	h.Insert("one two three")

	removed := h.Delete(10)

	require.Equal(t, 3, removed)
	require.Equal(t, 0, h.WordCount())
	require.Equal(t, "", h.Text())
}

func TestDelete_ZeroRecordsHistoryAndKeepsWords(t *testing.T) {
	h := New()
	h.Insert("one two")

	removed := h.Delete(0)

	require.Equal(t, 0, removed)
	require.Equal(t, "one two", h.Text(), "zero delete must not remove anything")
	require.Equal(t, 2, h.UndoDepth())
	require.Equal(t, []string{"", "one two"}, h.Snapshots().Undo)
}

func TestDelete_NegativeTreatedAsZero(t *testing.T) {
	h := New()
	h.Insert("one two")

	removed := h.Delete(-3)

	require.Equal(t, 0, removed)
	require.Equal(t, "one two", h.Text())
	require.Equal(t, 2, h.UndoDepth())
}

func TestDelete_OnEmpty(t *testing.T) {
	h := New()

	require.Equal(t, 0, h.Delete(5))
	require.Equal(t, 1, h.UndoDepth())
	require.Equal(t, []string{""}, h.Snapshots().Undo)
}

func TestUndo_FreshInstanceIsNoop(t *testing.T) {
	h := New()

	require.False(t, h.Undo())
	require.Equal(t, "", h.Text())
	require.Equal(t, 0, h.UndoDepth())
	require.Equal(t, 0, h.RedoDepth())
}

func TestRedo_EmptyIsNoop(t *testing.T) {
	h := New()
	h.Insert("alpha beta")

	require.False(t, h.Redo())
	require.Equal(t, "alpha beta", h.Text())
	require.Equal(t, 1, h.UndoDepth())
}

func TestUndoRedo_MovesBetweenStacks(t *testing.T) {
	h := New()
	h.Insert("a")
	h.Insert("b")

	require.True(t, h.Undo())
	require.Equal(t, "a", h.Text())
	require.Equal(t, []string{""}, h.Snapshots().Undo)
	require.Equal(t, []string{"a b"}, h.Snapshots().Redo)

	require.True(t, h.Undo())
	require.Equal(t, "", h.Text())
	require.Equal(t, []string{"a b", "a"}, h.Snapshots().Redo)

	require.True(t, h.Redo())
	require.Equal(t, "a", h.Text())
	require.Equal(t, []string{""}, h.Snapshots().Undo)
	require.Equal(t, []string{"a b"}, h.Snapshots().Redo)
}

func TestQuickFoxScenario(t *testing.T) {
	h := New()

	h.Insert("the quick fox")
	require.Equal(t, "the quick fox", h.Text())
	require.Equal(t, 3, h.WordCount())

	h.Delete(1)
	require.Equal(t, "the quick", h.Text())

	h.Undo()
	require.Equal(t, "the quick fox", h.Text())

	h.Redo()
	require.Equal(t, "the quick", h.Text())

	h.Insert("jumps")
	require.Empty(t, h.Snapshots().Redo)
	require.False(t, h.CanRedo())
	require.Equal(t, "the quick jumps", h.Text())
}

func TestSnapshots_DoNotAliasLiveState(t *testing.T) {
	h := New()
	h.Insert("one two three")
	h.Delete(1)
	h.Insert("four")

	words := h.Words()
	words[0] = "mutated"

	require.Equal(t, "one two four", h.Text())
	require.Equal(t, []string{"", "one two three", "one two"}, h.Snapshots().Undo)

	// Truncate-then-append reuses the live backing array; stored snapshots
	// must be unaffected.
	h.Undo()
	require.Equal(t, "one two", h.Text())
	h.Undo()
	require.Equal(t, "one two three", h.Text())
}

func TestWithMaxDepth_DropsOldest(t *testing.T) {
	h := New(WithMaxDepth(2))
	h.Insert("a")
	h.Insert("b")
	h.Insert("c")

	require.Equal(t, []string{"a", "a b"}, h.Snapshots().Undo)

	require.True(t, h.Undo())
	require.True(t, h.Undo())
	require.False(t, h.Undo(), "oldest snapshot should have been dropped")
	require.Equal(t, "a", h.Text())

	require.True(t, h.Redo())
	require.True(t, h.Redo())
	require.Equal(t, "a b c", h.Text())
	require.Equal(t, 2, h.UndoDepth())
}

func TestWithMaxDepth_NonPositiveIsUnbounded(t *testing.T) {
	h := New(WithMaxDepth(0))
	for i := 0; i < 50; i++ {
		h.Insert("w")
	}
	require.Equal(t, 50, h.UndoDepth())
}

func TestReset(t *testing.T) {
	h := New()
	h.Insert("a b")
	h.Undo()

	h.Reset()

	require.Equal(t, "", h.Text())
	require.False(t, h.CanUndo())
	require.False(t, h.CanRedo())
}

// ============================================================================
// Property tests
// ============================================================================

var wordGen = rapid.StringMatching(`[a-z]{1,6}`)

func textGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(wordGen, 0, 5).Draw(t, "words")
		sep := rapid.SampledFrom([]string{" ", "  ", "\t", " \n "}).Draw(t, "sep")
		return strings.Join(words, sep)
	})
}

// applyRandomOps drives h through a random mix of edits, undos and redos.
func applyRandomOps(t *rapid.T, h *WordHistory) {
	n := rapid.IntRange(0, 15).Draw(t, "numOps")
	for i := 0; i < n; i++ {
		switch rapid.IntRange(0, 3).Draw(t, "op") {
		case 0:
			h.Insert(textGen().Draw(t, "text"))
		case 1:
			h.Delete(rapid.IntRange(0, 8).Draw(t, "count"))
		case 2:
			h.Undo()
		case 3:
			h.Redo()
		}
	}
}

func TestProperty_InsertsConcatenate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		var want []string

		texts := rapid.SliceOfN(textGen(), 1, 10).Draw(t, "texts")
		for _, text := range texts {
			h.Insert(text)
			want = append(want, strings.Fields(text)...)
			if h.Text() != strings.Join(want, " ") {
				t.Fatalf("got %q, want %q", h.Text(), strings.Join(want, " "))
			}
		}
	})
}

func TestProperty_DeleteThenUndoRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		applyRandomOps(t, h)

		before := h.Text()
		h.Delete(rapid.IntRange(0, 20).Draw(t, "count"))
		if !h.Undo() {
			t.Fatal("undo after delete must succeed")
		}
		if h.Text() != before {
			t.Fatalf("got %q, want %q", h.Text(), before)
		}
	})
}

func TestProperty_InsertThenUndoRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		applyRandomOps(t, h)

		before := h.Text()
		h.Insert(textGen().Draw(t, "text"))
		h.Undo()
		if h.Text() != before {
			t.Fatalf("got %q, want %q", h.Text(), before)
		}
	})
}

func TestProperty_UndoRedoIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		applyRandomOps(t, h)
		if !h.CanUndo() {
			return
		}

		text, count := h.Text(), h.WordCount()
		undoDepth, redoDepth := h.UndoDepth(), h.RedoDepth()

		h.Undo()
		h.Redo()

		if h.Text() != text || h.WordCount() != count {
			t.Fatalf("state changed: %q/%d -> %q/%d", text, count, h.Text(), h.WordCount())
		}
		if h.UndoDepth() != undoDepth || h.RedoDepth() != redoDepth {
			t.Fatalf("depths changed: %d/%d -> %d/%d", undoDepth, redoDepth, h.UndoDepth(), h.RedoDepth())
		}
	})
}

func TestProperty_EditAfterUndoClearsRedo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		applyRandomOps(t, h)
		h.Insert("seed")

		undos := rapid.IntRange(1, 5).Draw(t, "undos")
		for i := 0; i < undos; i++ {
			h.Undo()
		}

		if rapid.Bool().Draw(t, "insert") {
			h.Insert(textGen().Draw(t, "text"))
		} else {
			h.Delete(rapid.IntRange(0, 5).Draw(t, "count"))
		}

		text := h.Text()
		if h.Redo() {
			t.Fatal("redo must be a no-op after a fresh edit")
		}
		if h.Text() != text {
			t.Fatalf("redo changed text: %q -> %q", text, h.Text())
		}
	})
}

func TestProperty_OverDeleteClears(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		applyRandomOps(t, h)

		extra := rapid.IntRange(1, 10).Draw(t, "extra")
		h.Delete(h.WordCount() + extra)
		if h.WordCount() != 0 {
			t.Fatalf("expected empty sequence, got %d words", h.WordCount())
		}
	})
}

func TestProperty_StackBookkeeping(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		n := rapid.IntRange(1, 20).Draw(t, "numOps")
		for i := 0; i < n; i++ {
			undo, redo := h.UndoDepth(), h.RedoDepth()
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				h.Insert(textGen().Draw(t, "text"))
				if h.UndoDepth() != undo+1 || h.RedoDepth() != 0 {
					t.Fatalf("insert: %d/%d -> %d/%d", undo, redo, h.UndoDepth(), h.RedoDepth())
				}
			case 1:
				h.Delete(rapid.IntRange(0, 5).Draw(t, "count"))
				if h.UndoDepth() != undo+1 || h.RedoDepth() != 0 {
					t.Fatalf("delete: %d/%d -> %d/%d", undo, redo, h.UndoDepth(), h.RedoDepth())
				}
			case 2:
				if h.Undo() && (h.UndoDepth() != undo-1 || h.RedoDepth() != redo+1) {
					t.Fatalf("undo: %d/%d -> %d/%d", undo, redo, h.UndoDepth(), h.RedoDepth())
				}
			case 3:
				if h.Redo() && (h.UndoDepth() != undo+1 || h.RedoDepth() != redo-1) {
					t.Fatalf("redo: %d/%d -> %d/%d", undo, redo, h.UndoDepth(), h.RedoDepth())
				}
			}
		}
	})
}
