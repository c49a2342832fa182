// Package textdiff computes a bounded, annotated line diff between two
// normalized text snapshots. The output is tuned for chat notifications:
// only changed lines, short noise filtered out, hard cap on rendered lines.
package textdiff

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultMaxLines is the rendered-line budget when callers pass 0.
const DefaultMaxLines = 20

// minLineRunes is the noise filter: changed lines whose trimmed text is this
// many runes or fewer are dropped. Deliberate precision/recall tradeoff —
// terse notifications beat complete ones.
const minLineRunes = 2

const (
	addedMark   = "➕"
	removedMark = "➖"
)

// Sentinel notes substituted when no annotated lines survive.
const (
	NoteMinor  = "Minor changes detected (whitespace or formatting only)."
	NoteNoDiff = "Changes detected, but no clear diff available."
)

// Summary is an ordered, bounded sequence of annotated change lines.
// When Lines is empty, Note carries a sentinel explaining why.
type Summary struct {
	Lines   []string // annotated, e.g. "➕ Week 3  Parsing"
	Omitted int      // survivors beyond the budget, 0 if none
	Note    string   // sentinel message when Lines is empty
}

// Summarize diffs old against new and produces a Summary holding at most
// maxLines annotated lines (DefaultMaxLines when maxLines <= 0).
//
// The diff is a unified diff with zero context: only changed lines appear,
// interleaved in the order the diff emits them, never regrouped.
func Summarize(old, new []string, maxLines int) *Summary {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:       terminated(old),
		B:       terminated(new),
		Context: 0,
	})
	if err != nil || text == "" {
		// Equal sequences produce an empty diff. Fingerprints can differ
		// while the visible text does not (markup-only edits).
		return &Summary{Note: NoteNoDiff}
	}

	var survivors []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" ||
			strings.HasPrefix(line, "---") ||
			strings.HasPrefix(line, "+++") ||
			strings.HasPrefix(line, "@@") {
			continue
		}
		switch line[0] {
		case '+':
			if t := strings.TrimSpace(line[1:]); utf8.RuneCountInString(t) > minLineRunes {
				survivors = append(survivors, addedMark+" "+t)
			}
		case '-':
			if t := strings.TrimSpace(line[1:]); utf8.RuneCountInString(t) > minLineRunes {
				survivors = append(survivors, removedMark+" "+t)
			}
		}
	}

	if len(survivors) == 0 {
		return &Summary{Note: NoteMinor}
	}
	s := &Summary{Lines: survivors}
	if len(survivors) > maxLines {
		s.Lines = survivors[:maxLines]
		s.Omitted = len(survivors) - maxLines
	}
	return s
}

// Render formats the summary as notification-ready plain text.
func (s *Summary) Render() string {
	if s.Note != "" {
		return s.Note
	}
	var b strings.Builder
	for i, line := range s.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if s.Omitted > 0 {
		fmt.Fprintf(&b, "\n...and %d more changes", s.Omitted)
	}
	return b.String()
}

// terminated returns lines with trailing newlines, the form the diff
// writer expects.
func terminated(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
