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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// colordiff.Option and color.Option.
package config

import "znkr.io/di/worddiff"

// Format describes the diff format of the colorized stream.
type Format int

const (
	// Unified diff format: "@@ -a,b +c,d @@" hunk headers and "+", "-", " " line prefixes.
	FormatUnified Format = iota

	// Context diff format: "***************" hunk separators, "*** " and "--- " ranges and "+ ",
	// "- ", "! ", "  " line prefixes.
	FormatContext
)

// Config collects all configurable parameters of the colorizer.
type Config struct {
	// Format of the input.
	Format Format

	// If set, suspicious whitespace in changed lines is highlighted.
	HighlightWhitespace bool

	// Aligner used for inline word diffs of unified hunks. If nil, every line is colored as a
	// whole.
	Aligner worddiff.Aligner

	// Colors to use.
	Colors ColorConfig
}

// ColorConfig holds the escape sequence for every category of text the colorizer emits. An empty
// string leaves the category uncolored.
type ColorConfig struct {
	Comment   string // Anything outside of hunks, e.g. the diff command line.
	File1     string // "+++ " in unified and "*** " in context format.
	File2     string // "--- " in both formats.
	Header    string // Hunk headers.
	Function  string // Function context after a hunk header.
	New       string // Inserted lines.
	Old       string // Deleted lines.
	NewWord   string // Inserted words in an inline word diff.
	OldWord   string // Deleted words in an inline word diff.
	Changed   string // Changed lines ("! " in context format).
	Unchanged string // Matching lines.
	Space     string // Suspicious whitespace.
	OpenInv   string // Start of an invalid byte.
	CloseInv  string // End of an invalid byte.
	Off       string // Reset.
}

// DefaultColors is the default color table.
var DefaultColors = ColorConfig{
	Comment:   "\033[1m",
	File1:     "\033[1m",
	File2:     "\033[1m",
	Header:    "\033[36m",
	Function:  "\033[m",
	New:       "\033[32m",
	Old:       "\033[31m",
	NewWord:   "\033[7;32m",
	OldWord:   "\033[7;31m",
	Changed:   "\033[33m",
	Unchanged: "",
	Space:     "\033[41m",
	OpenInv:   "\033[7m",
	CloseInv:  "\033[27m",
	Off:       "\033[m",
}

// Default is the default configuration.
var Default = Config{
	Format:              FormatUnified,
	HighlightWhitespace: false,
	Aligner:             worddiff.Myers{},
	Colors:              DefaultColors,
}

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config)

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option) Config {
	cfg := Default
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
