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

import "strings"

// contextState is the position in a context diff.
type contextState int

const (
	contextComment    contextState = iota // outside of a hunk
	contextHunkHeader                     // after the "***************" separator
	contextHunkOld                        // after the "*** a,b ****" range
	contextHunkNew                        // after the "--- c,d ----" range
)

const hunkSeparator = "***************"

// contextDiff is the state machine for the context format.
type contextDiff struct {
	p     *painter
	state contextState
}

func (c *contextDiff) line(line string) {
	cc := &c.p.cc
	line = replaceInvalidBytes(line, cc.OpenInv, cc.CloseInv)

	for {
		switch c.state {
		case contextComment:
			switch {
			case strings.HasPrefix(line, "*** "):
				c.p.emit(cc.File1, line)
			case strings.HasPrefix(line, "--- "):
				c.p.emit(cc.File2, line)
			case strings.HasPrefix(line, hunkSeparator):
				c.state = contextHunkHeader
				split := -1
				if strings.HasPrefix(line, hunkSeparator+" ") {
					split = len(hunkSeparator) + 1
				}
				c.p.header(line, split)
			default:
				c.p.emit(cc.Comment, line)
			}
			return

		case contextHunkHeader:
			if strings.HasPrefix(line, "*** ") {
				c.state = contextHunkOld
				c.p.emit(cc.Header, line)
			} else {
				c.p.emit(cc.Comment, line)
			}
			return

		case contextHunkOld, contextHunkNew:
			switch {
			case strings.HasPrefix(line, "--- "):
				if c.state == contextHunkOld {
					c.state = contextHunkNew
					c.p.emit(cc.Header, line)
				} else {
					c.p.emit(cc.Comment, line)
				}
			case strings.HasPrefix(line, "*** "), strings.HasPrefix(line, hunkSeparator):
				// Start of the next file or hunk, process the line again outside of the hunk.
				c.state = contextComment
				continue
			case strings.HasPrefix(line, "+ "):
				c.p.content(cc.New, line, 2)
			case strings.HasPrefix(line, "- "):
				c.p.content(cc.Old, line, 2)
			case strings.HasPrefix(line, "! "):
				c.p.content(cc.Changed, line, 2)
			case strings.HasPrefix(line, "  "):
				c.p.emit(cc.Unchanged, line)
			default:
				c.p.emit(cc.Comment, line)
			}
			return
		}
	}
}

func (c *contextDiff) flush() {}
