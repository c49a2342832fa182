// Package normalize converts raw markup into a stable, comparison-friendly
// line sequence: visible text only, document order, whitespace collapsed.
//
// The pipeline: parse → walk (skipping non-visible subtrees) → split into
// lines → split again on runs of two or more spaces → trim → drop empties.
// The double-space split catches headline fragments that pages lay out with
// padding instead of real line breaks ("Week 1  Intro to course").
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// layoutGapRe matches runs of two or more spaces inside a single line.
// Such runs are treated as a line-break signal from layout markup.
var layoutGapRe = regexp.MustCompile(`  +`)

// Lines converts raw markup into an ordered sequence of non-empty trimmed
// lines. It is a pure function and idempotent on its own output.
//
// Malformed markup never fails: the parser recovers whatever visible text it
// can. Failing here would block every future notification, so this path
// fails open.
func Lines(raw string) []string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		// html.Parse tolerates arbitrary input; an error can only come
		// from the reader. Fall back to treating the input as plain text.
		return splitLines(raw)
	}
	var parts []string
	collectVisible(doc, &parts)
	return splitLines(strings.Join(parts, "\n"))
}

// collectVisible walks the tree in document order, appending the data of
// every text node outside non-visible subtrees.
func collectVisible(n *html.Node, out *[]string) {
	if n.Type == html.ElementNode && skipSubtree(n.DataAtom) {
		return
	}
	if n.Type == html.TextNode {
		*out = append(*out, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectVisible(c, out)
	}
}

// skipSubtree reports whether an element's entire subtree is non-visible
// content. The head is excluded too: title and meta text never render.
func skipSubtree(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
		return true
	}
	return false
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, frag := range layoutGapRe.Split(line, -1) {
			frag = strings.TrimSpace(frag)
			if frag != "" {
				out = append(out, frag)
			}
		}
	}
	return out
}
