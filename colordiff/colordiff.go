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

// Package colordiff colorizes the output of diff(1) with ANSI escape sequences.
//
// The input is read line by line and every line is classified by a small state machine for the
// unified or the context format. Lines are colored by category: file labels, hunk headers,
// function context, inserted, deleted, changed, and matching lines. Anything that can't be
// classified is colored as a comment, malformed input never stops the colorizer.
//
// In unified diffs, a single deleted line that's immediately followed by a single inserted line
// is rendered as an inline word diff that highlights the changed words only. To do that, the lines
// of a hunk are held back until the hunk is complete.
//
// Bytes that are not valid UTF-8 are replaced by their hex value, e.g. <FF>, in inverse video.
//
// Stripping all escape sequences from the output of a valid UTF-8 input reproduces the input.
package colordiff

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"znkr.io/di/internal/config"
)

// Writer is an [io.WriteCloser] that colorizes everything written to it and writes the result to
// an underlying writer.
//
// Output is written at the end of every Write call, except for the lines of an incomplete line or
// an incomplete unified hunk. Close must be called to flush those.
type Writer struct {
	out     *bufio.Writer
	handler lineHandler
	partial []byte // incomplete last line
	err     error
}

// lineHandler is the state machine for one diff format.
type lineHandler interface {
	// line processes a single line without the trailing newline.
	line(line string)

	// flush writes all lines that are held back.
	flush()
}

// NewWriter returns a Writer that writes the colorized input to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	cfg := config.FromOptions(opts)
	out := bufio.NewWriter(w)
	p := newPainter(out, cfg)
	var h lineHandler
	switch cfg.Format {
	case config.FormatContext:
		h = &contextDiff{p: p}
	default:
		h = newUnifiedDiff(p, cfg.Aligner)
	}
	return &Writer{out: out, handler: h}
}

// Write colorizes all complete lines in b.
func (w *Writer) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n := len(b)
	for len(b) > 0 {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			w.partial = append(w.partial, b...)
			break
		}
		if len(w.partial) > 0 {
			w.partial = append(w.partial, b[:i]...)
			w.handler.line(string(w.partial))
			w.partial = w.partial[:0]
		} else {
			w.handler.line(string(b[:i]))
		}
		b = b[i+1:]
	}
	if err := w.out.Flush(); err != nil {
		w.err = err
		return n, err
	}
	return n, nil
}

// Close colorizes the last line, even if it's not terminated by a newline, and writes all lines
// that have been held back. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if len(w.partial) > 0 {
		w.handler.line(string(w.partial))
		w.partial = nil
	}
	w.handler.flush()
	if err := w.out.Flush(); err != nil {
		w.err = err
	}
	return w.err
}

// Copy colorizes everything from r and writes it to w until r returns io.EOF.
func Copy(w io.Writer, r io.Reader, opts ...Option) error {
	cw := NewWriter(w, opts...)
	if _, err := io.Copy(cw, r); err != nil {
		return err
	}
	return cw.Close()
}

// String colorizes a complete diff.
func String(diff string, opts ...Option) string {
	var sb strings.Builder
	// Writing to a strings.Builder never fails.
	_ = Copy(&sb, strings.NewReader(diff), opts...)
	return sb.String()
}
