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
	"bufio"
	"fmt"
	"strings"
	"unicode/utf8"

	"znkr.io/di/internal/config"
	"znkr.io/di/worddiff"
)

// painter writes colored lines.
type painter struct {
	out            *bufio.Writer
	cc             config.ColorConfig
	highlightSpace bool
	toFunction     string
	toSpace        string
}

func newPainter(out *bufio.Writer, cfg config.Config) *painter {
	return &painter{
		out:            out,
		cc:             cfg.Colors,
		highlightSpace: cfg.HighlightWhitespace,
		toFunction:     cfg.Colors.Off + cfg.Colors.Function,
		toSpace:        cfg.Colors.Off + cfg.Colors.Space,
	}
}

// emit writes a single line in the given color.
func (p *painter) emit(color, line string) {
	p.out.WriteString(color)
	p.out.WriteString(line)
	p.out.WriteString(p.cc.Off)
	p.out.WriteByte('\n')
}

// header writes a hunk header. Everything after the first split bytes is function context.
func (p *painter) header(line string, split int) {
	if split <= 0 || split > len(line) {
		p.emit(p.cc.Header, line)
		return
	}
	p.out.WriteString(p.cc.Header)
	p.out.WriteString(line[:split])
	p.out.WriteString(p.toFunction)
	p.out.WriteString(line[split:])
	p.out.WriteString(p.cc.Off)
	p.out.WriteByte('\n')
}

// content writes an inserted, deleted, or changed line. The first skip bytes are the line marker.
func (p *painter) content(color, line string, skip int) {
	if p.highlightSpace {
		line = p.highlightWhitespace(line, skip, color)
	}
	p.emit(color, line)
}

// spans writes one side of an inline word diff.
func (p *painter) spans(color, wordColor, marker string, spans []worddiff.Span) {
	p.out.WriteString(color)
	p.out.WriteString(marker)
	for _, s := range spans {
		if !s.Changed {
			p.out.WriteString(s.Text)
			continue
		}
		p.out.WriteString(p.cc.Off)
		p.out.WriteString(wordColor)
		p.out.WriteString(s.Text)
		p.out.WriteString(p.cc.Off)
		p.out.WriteString(color)
	}
	p.out.WriteString(p.cc.Off)
	p.out.WriteByte('\n')
}

// highlightWhitespace marks trailing blanks and spaces in front of a tab in line[start:]. After
// every marked run, the color is switched back to base.
func (p *painter) highlightWhitespace(line string, start int, base string) string {
	start = min(start, len(line))
	end := len(line)
	for end > start && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}

	var sb strings.Builder
	sb.WriteString(line[:start])
	mid := line[start:end]
	for {
		i := strings.Index(mid, " \t")
		if i < 0 {
			break
		}
		j := i
		for j > 0 && mid[j-1] == ' ' {
			j--
		}
		sb.WriteString(mid[:j])
		p.mark(&sb, mid[j:i+1], base)
		mid = mid[i+1:]
	}
	sb.WriteString(mid)
	if end < len(line) {
		p.mark(&sb, line[end:], base)
	}
	return sb.String()
}

func (p *painter) mark(sb *strings.Builder, s, base string) {
	sb.WriteString(p.toSpace)
	sb.WriteString(s)
	sb.WriteString(p.cc.Off)
	sb.WriteString(base)
}

// replaceInvalidBytes replaces every byte that's not part of a valid UTF-8 sequence with its hex
// value in angle brackets. The result is always valid UTF-8.
func replaceInvalidBytes(line, openInv, closeInv string) string {
	if utf8.ValidString(line) {
		return line
	}
	var sb strings.Builder
	sb.Grow(len(line) + 8)
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, "%s<%02X>%s", openInv, line[i], closeInv)
		} else {
			sb.WriteString(line[i : i+size])
		}
		i += size
	}
	return sb.String()
}
