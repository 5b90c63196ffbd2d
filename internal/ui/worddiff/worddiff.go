// Package worddiff compares two word sequences and renders the result with
// inserted and deleted words highlighted.
package worddiff

import (
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/wordstack/internal/ui/styles"
)

// Bounds that keep a diff cheap enough to run on every render.
const (
	// MaxWords skips the word diff when either side is longer; the whole
	// sequence is then reported as replaced.
	MaxWords = 5000
	// Timeout caps the time diffmatchpatch may spend on one comparison.
	Timeout = 50 * time.Millisecond
)

// Op is the status of a Segment.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Segment is a run of consecutive words with the same status.
type Segment struct {
	Op    Op
	Words []string
}

// Compute returns the segments that turn from into to. Equal segments are
// shared; Delete segments exist only in from and Insert segments only in to.
func Compute(from, to []string) []Segment {
	switch {
	case len(from) == 0 && len(to) == 0:
		return nil
	case len(from) == 0:
		return []Segment{{Op: Insert, Words: clone(to)}}
	case len(to) == 0:
		return []Segment{{Op: Delete, Words: clone(from)}}
	case len(from) > MaxWords || len(to) > MaxWords:
		return []Segment{{Op: Delete, Words: clone(from)}, {Op: Insert, Words: clone(to)}}
	}

	// Each distinct word becomes one rune so the diff runs per word
	// instead of per character.
	var dict wordDict
	fromRunes := dict.encode(from)
	toRunes := dict.encode(to)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = Timeout
	diffs := dmp.DiffMainRunes(fromRunes, toRunes, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		words := dict.decode(d.Text)
		if len(words) == 0 {
			continue
		}
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		default:
			op = Equal
		}
		if n := len(segments); n > 0 && segments[n-1].Op == op {
			segments[n-1].Words = append(segments[n-1].Words, words...)
			continue
		}
		segments = append(segments, Segment{Op: op, Words: words})
	}
	return segments
}

// Stats counts the words each status covers.
func Stats(segments []Segment) (equal, inserted, deleted int) {
	for _, s := range segments {
		switch s.Op {
		case Insert:
			inserted += len(s.Words)
		case Delete:
			deleted += len(s.Words)
		default:
			equal += len(s.Words)
		}
	}
	return equal, inserted, deleted
}

// Render joins segments into one styled line of text.
func Render(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		text := strings.Join(s.Words, " ")
		switch s.Op {
		case Insert:
			parts = append(parts, styles.DiffAddedStyle.Render(text))
		case Delete:
			parts = append(parts, styles.DiffDeletedStyle.Render(text))
		default:
			parts = append(parts, styles.DiffUnchangedStyle.Render(text))
		}
	}
	return strings.Join(parts, " ")
}

// wordDict assigns every distinct word a rune, skipping the surrogate
// range so the runes survive a round trip through a Go string.
type wordDict struct {
	index map[string]rune
	words []string
}

const (
	firstRune     = 0x100
	surrogateLow  = 0xD800
	surrogateHigh = 0xDFFF
)

func (d *wordDict) encode(words []string) []rune {
	if d.index == nil {
		d.index = make(map[string]rune)
	}
	out := make([]rune, len(words))
	for i, w := range words {
		r, ok := d.index[w]
		if !ok {
			r = rune(firstRune + len(d.words))
			if r >= surrogateLow {
				r += surrogateHigh - surrogateLow + 1
			}
			d.index[w] = r
			d.words = append(d.words, w)
		}
		out[i] = r
	}
	return out
}

func (d *wordDict) decode(s string) []string {
	var out []string
	for _, r := range s {
		i := int(r) - firstRune
		if int(r) > surrogateHigh {
			i -= surrogateHigh - surrogateLow + 1
		}
		if i >= 0 && i < len(d.words) {
			out = append(out, d.words[i])
		}
	}
	return out
}

func clone(words []string) []string {
	return append([]string(nil), words...)
}
