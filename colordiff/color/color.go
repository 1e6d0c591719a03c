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

// Package color provides configuration for coloring diffs using ANSI escape sequences.
//
// Specifying colors uses [Select Graphic Rendition parameters]. For example the code below,
// presents hunk headers in bold yellow:
//
//	HunkHeaders(1, 33)
//
// This is equivalent to the following raw ANSI sequence: \033[1;33m. Calling an option without
// parameters leaves the category uncolored.
//
// It's the responsibility of the caller to ensure that the parameters are correct and supported
// by the underlying terminal.
//
// [Select Graphic Rendition parameters]: https://en.wikipedia.org/wiki/ANSI_escape_code#SGR
package color

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"znkr.io/di/internal/config"
)

// A Option makes it possible to configure custom colors in colordiff.Colors.
type Option func(*config.ColorConfig)

// Comments colors everything outside of hunks that isn't a file label, e.g. the diff command line
// that's printed for every file pair in a recursive diff.
func Comments(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Comment = code
	}
}

// File1 colors the first file label, "+++ " in unified diffs and "*** " in context diffs.
func File1(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.File1 = code
	}
}

// File2 colors the second file label, "--- " in both formats.
func File2(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.File2 = code
	}
}

// HunkHeaders colors hunk headers, the "@@ ... @@" part of the unified diff or the
// "***************" and range lines of a context diff.
func HunkHeaders(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Header = code
	}
}

// Functions colors the function context that follows a hunk header.
func Functions(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Function = code
	}
}

// Matches colors matching lines.
func Matches(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Unchanged = code
	}
}

// Deletes colors deleted lines.
func Deletes(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Old = code
	}
}

// Inserts colors inserted lines.
func Inserts(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.New = code
	}
}

// DeletedWords colors the deleted words of an inline word diff.
func DeletedWords(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.OldWord = code
	}
}

// InsertedWords colors the inserted words of an inline word diff.
func InsertedWords(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.NewWord = code
	}
}

// Changes colors changed lines of a context diff.
func Changes(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Changed = code
	}
}

// Whitespace colors trailing whitespace and spaces before tabs.
func Whitespace(params ...int) Option {
	code := format(params)
	return func(cc *config.ColorConfig) {
		cc.Space = code
	}
}

// InvalidBytes sets the sequences around the hex escape of a byte that's not valid UTF-8. The
// default is inverse video (7) that's switched off again with 27.
func InvalidBytes(open, close []int) Option {
	openCode, closeCode := format(open), format(close)
	return func(cc *config.ColorConfig) {
		cc.OpenInv = openCode
		cc.CloseInv = closeCode
	}
}

// Reset sets the sequence that ends every colored span. Without parameters it's the plain reset
// \033[m, which is also the default.
func Reset(params ...int) Option {
	code := "\033[m"
	if len(params) > 0 {
		code = format(params)
	}
	return func(cc *config.ColorConfig) {
		cc.Off = code
	}
}

// Named returns the option for a category by the name used in configuration files: comment,
// file1, file2, header, function, new, old, new-word, old-word, changed, unchanged, whitespace,
// reset.
func Named(name string, params ...int) (Option, error) {
	switch name {
	case "comment":
		return Comments(params...), nil
	case "file1":
		return File1(params...), nil
	case "file2":
		return File2(params...), nil
	case "header":
		return HunkHeaders(params...), nil
	case "function":
		return Functions(params...), nil
	case "new":
		return Inserts(params...), nil
	case "old":
		return Deletes(params...), nil
	case "new-word":
		return InsertedWords(params...), nil
	case "old-word":
		return DeletedWords(params...), nil
	case "changed":
		return Changes(params...), nil
	case "unchanged":
		return Matches(params...), nil
	case "whitespace":
		return Whitespace(params...), nil
	case "reset":
		return Reset(params...), nil
	default:
		return nil, fmt.Errorf("unknown color category %q", name)
	}
}

// Names returns the names accepted by [Named] in sorted order.
func Names() []string {
	names := []string{
		"comment", "file1", "file2", "header", "function", "new", "old", "new-word", "old-word",
		"changed", "unchanged", "whitespace", "reset",
	}
	slices.Sort(names)
	return names
}

// ParseParams parses SGR parameters in their escape sequence notation, e.g. "1;33". The empty
// string results in no parameters.
func ParseParams(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var params []int
	for f := range strings.SplitSeq(s, ";") {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid SGR parameter %q in %q", f, s)
		}
		params = append(params, v)
	}
	return params, nil
}

func format(params []int) string {
	if len(params) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\033[")
	for i, v := range params {
		if i > 0 {
			sb.WriteRune(';')
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteRune('m')
	return sb.String()
}
