// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package worddiff compares two lines word by word.
//
// A line is split into tokens by [Tokenize]. Two token sequences are aligned by an [Aligner] and
// the resulting edits are coalesced into [Span]s of unchanged and changed text by [Spans]:
//
//	x, y := worddiff.Tokenize("foo bar baz"), worddiff.Tokenize("foo qux baz")
//	edits, _ := worddiff.Myers{}.Align(x, y)
//	old, new := worddiff.Spans(edits)
//	// old: "foo " "bar"* " baz", new: "foo " "qux"* " baz" (* = changed)
package worddiff

import (
	"regexp"

	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/di/internal/myers"
	"znkr.io/di/internal/rvecs"
)

// Op describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op
type Op int

const (
	Match  Op = iota // Two tokens match
	Delete           // A deletion of a token from the old line
	Insert           // An insertion of a token from the new line
)

// Edit describes a single edit of a word diff.
//
//   - For Match, both X and Y contain the matching token.
//   - For Delete, X contains the deleted token and Y is empty.
//   - For Insert, Y contains the inserted token and X is empty.
type Edit struct {
	Op   Op
	X, Y string
}

// Span is a piece of a line that's either unchanged or changed.
type Span struct {
	Text    string
	Changed bool
}

// tokenRE matches identifiers, optionally with a sigil, and single characters otherwise.
var tokenRE = regexp.MustCompile(`[@$%]*[\p{L}\p{N}_]+|(?s:.)`)

// Tokenize splits a line into words. A word is a run of letters, digits and underscores,
// optionally preceded by any of the sigils @, $ and %. Every other character is a word of its own.
//
// The concatenation of all words is the line.
func Tokenize(line string) []string {
	return tokenRE.FindAllString(line, -1)
}

// Spans coalesces the edits into maximal runs of unchanged and changed text for the old (x) and
// the new (y) line. Empty spans are omitted.
func Spans(edits []Edit) (x, y []Span) {
	for _, e := range edits {
		switch e.Op {
		case Match:
			x = appendSpan(x, e.X, false)
			y = appendSpan(y, e.Y, false)
		case Delete:
			x = appendSpan(x, e.X, true)
		case Insert:
			y = appendSpan(y, e.Y, true)
		}
	}
	return x, y
}

func appendSpan(spans []Span, text string, changed bool) []Span {
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Changed == changed {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, Span{Text: text, Changed: changed})
}

// An Aligner aligns two token sequences.
//
// Align returns the edits to transform x into y in order. If the aligner declines to align the
// inputs, it returns false and the caller falls back to treating both lines as changed entirely.
type Aligner interface {
	Align(x, y []string) ([]Edit, bool)
}

// Myers aligns tokens using a minimal diff computed with Myers' algorithm.
type Myers struct{}

// Align implements [Aligner].
func (Myers) Align(x, y []string) ([]Edit, bool) {
	rx, ry := myers.Diff(x, y)
	out := make([]Edit, 0, max(len(x), len(y)))
	for r := range rvecs.Runs(rx, ry) {
		switch r.Kind {
		case rvecs.Match:
			for s, t := r.S0, r.T0; s < r.S1; s, t = s+1, t+1 {
				out = append(out, Edit{Op: Match, X: x[s], Y: y[t]})
			}
		case rvecs.Delete:
			for s := r.S0; s < r.S1; s++ {
				out = append(out, Edit{Op: Delete, X: x[s]})
			}
		case rvecs.Insert:
			for t := r.T0; t < r.T1; t++ {
				out = append(out, Edit{Op: Insert, Y: y[t]})
			}
		}
	}
	return out, true
}

// DiffMatchPatch aligns tokens using the bisect algorithm of
// github.com/sergi/go-diff/diffmatchpatch.
type DiffMatchPatch struct{}

// Align implements [Aligner].
func (DiffMatchPatch) Align(x, y []string) ([]Edit, bool) {
	// Map every distinct token to a rune, the same way diffmatchpatch maps lines to runes in
	// DiffLinesToRunes. Surrogates are skipped so that the runes survive conversions to string.
	ids := make(map[string]rune)
	var tokens []string
	encode := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			r, ok := ids[w]
			if !ok {
				r = toRune(len(tokens))
				ids[w] = r
				tokens = append(tokens, w)
			}
			out[i] = r
		}
		return out
	}
	rx, ry := encode(x), encode(y)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // never trade minimality for speed
	diffs := dmp.DiffMainRunes(rx, ry, false)

	out := make([]Edit, 0, max(len(x), len(y)))
	for _, d := range diffs {
		for _, r := range d.Text {
			w := tokens[fromRune(r)]
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Edit{Op: Match, X: w, Y: w})
			case diffmatchpatch.DiffDelete:
				out = append(out, Edit{Op: Delete, X: w})
			case diffmatchpatch.DiffInsert:
				out = append(out, Edit{Op: Insert, Y: w})
			}
		}
	}
	return out, true
}

const surrogates = 0xe000 - 0xd800

func toRune(id int) rune {
	if id >= 0xd800 {
		return rune(id + surrogates)
	}
	return rune(id)
}

func fromRune(r rune) int {
	if r >= 0xe000 {
		return int(r) - surrogates
	}
	return int(r)
}

// None never aligns, lines are always colored as a whole.
type None struct{}

// Align implements [Aligner].
func (None) Align(x, y []string) ([]Edit, bool) { return nil, false }
