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

package colordiff

import (
	"regexp"
	"strconv"
	"strings"

	"znkr.io/di/worddiff"
)

var unifiedHunkHeader = regexp.MustCompile(`^@@ -[0-9]+(?:,([0-9]+))? \+[0-9]+(?:,([0-9]+))?`)

// unifiedDiff is the state machine for the unified format.
type unifiedDiff struct {
	p         *painter
	render    hunkRenderer
	inHunk    bool
	remaining int // units left in the current hunk, 1 per inserted or deleted line, 2 per match
	hunk      []string
}

// hunkRenderer writes a complete hunk.
type hunkRenderer interface {
	render(p *painter, hunk []string)
}

func newUnifiedDiff(p *painter, aligner worddiff.Aligner) *unifiedDiff {
	var r hunkRenderer = normalRenderer{}
	if aligner != nil {
		r = inlineRenderer{aligner: aligner}
	}
	return &unifiedDiff{p: p, render: r}
}

func (u *unifiedDiff) line(line string) {
	cc := &u.p.cc
	line = replaceInvalidBytes(line, cc.OpenInv, cc.CloseInv)

	if u.inHunk {
		u.hunk = append(u.hunk, line)
		switch {
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			u.remaining--
		case strings.HasPrefix(line, " "):
			u.remaining -= 2
		}
		if u.remaining <= 0 {
			u.flush()
		}
		return
	}

	switch {
	case strings.HasPrefix(line, "+++ "):
		u.p.emit(cc.File1, line)
	case strings.HasPrefix(line, "--- "):
		u.p.emit(cc.File2, line)
	default:
		m := unifiedHunkHeader.FindStringSubmatch(line)
		if m == nil {
			u.p.emit(cc.Comment, line)
			return
		}
		// A header declaring no lines still takes the next line into the hunk.
		u.remaining = count(m[1]) + count(m[2])
		u.inHunk = true
		split := -1
		if i := strings.Index(line[3:], " @@ "); i >= 0 {
			split = 3 + i + len(" @@ ")
		}
		u.p.header(line, split)
	}
}

// count returns the value of an optional line count in a hunk header. A missing count means 1.
func count(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (u *unifiedDiff) flush() {
	if len(u.hunk) > 0 {
		u.render.render(u.p, u.hunk)
	}
	u.hunk = u.hunk[:0]
	u.inHunk = false
	u.remaining = 0
}

// unifiedLine writes a single line of a unified hunk.
func (p *painter) unifiedLine(line string) {
	switch {
	case strings.HasPrefix(line, "+"):
		p.content(p.cc.New, line, 0)
	case strings.HasPrefix(line, "-"):
		p.content(p.cc.Old, line, 0)
	case strings.HasPrefix(line, " "):
		p.emit(p.cc.Unchanged, line)
	default:
		p.emit(p.cc.Comment, line)
	}
}

// normalRenderer colors every line of a hunk on its own.
type normalRenderer struct{}

func (normalRenderer) render(p *painter, hunk []string) {
	for _, line := range hunk {
		p.unifiedLine(line)
	}
}

// inlineRenderer renders a single deleted line that's replaced by a single inserted line as a word
// diff. All other lines are colored on their own.
type inlineRenderer struct {
	aligner worddiff.Aligner
}

// window is a lookahead buffer over a hunk. The line under consideration is w[1], w[0] is the line
// before it and w[2], w[3] are the lines after it. Positions outside of the hunk are empty.
type window [4]string

func (w *window) push(line string) {
	copy(w[:], w[1:])
	w[3] = line
}

// isChange reports whether line is an inserted or deleted line.
func isChange(line string) bool {
	return strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")
}

// replacement reports whether w[1] is a single deleted line replaced by the single inserted line
// w[2].
func (w *window) replacement() bool {
	return !isChange(w[0]) &&
		strings.HasPrefix(w[1], "-") &&
		strings.HasPrefix(w[2], "+") &&
		!isChange(w[3])
}

func (r inlineRenderer) render(p *painter, hunk []string) {
	var w window
	skip := false
	for i := range len(hunk) + 2 {
		var line string
		if i < len(hunk) {
			line = hunk[i]
		}
		w.push(line)
		if i < 2 {
			continue
		}
		if skip {
			skip = false
			continue
		}
		if w.replacement() && p.inline(r.aligner, w[1], w[2]) {
			skip = true
			continue
		}
		p.unifiedLine(w[1])
	}
}

// inline writes the word diff of a deleted and an inserted line. It returns false without writing
// anything if the aligner declines.
func (p *painter) inline(aligner worddiff.Aligner, del, ins string) bool {
	x := worddiff.Tokenize(del[1:])
	y := worddiff.Tokenize(ins[1:])
	edits, ok := aligner.Align(x, y)
	if !ok {
		return false
	}
	xs, ys := worddiff.Spans(edits)
	p.spans(p.cc.Old, p.cc.OldWord, del[:1], xs)
	p.spans(p.cc.New, p.cc.NewWord, ins[:1], ys)
	return true
}
