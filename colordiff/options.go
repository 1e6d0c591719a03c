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
	"znkr.io/di/colordiff/color"
	"znkr.io/di/internal/config"
	"znkr.io/di/worddiff"
)

// Option configures the behavior of the colorizer.
type Option = config.Option

// Unified selects the unified diff format. This is the default.
func Unified() Option {
	return func(cfg *config.Config) {
		cfg.Format = config.FormatUnified
	}
}

// Context selects the context diff format.
func Context() Option {
	return func(cfg *config.Config) {
		cfg.Format = config.FormatContext
	}
}

// HighlightWhitespace highlights trailing whitespace and spaces in front of tabs in inserted,
// deleted, and changed lines.
func HighlightWhitespace() Option {
	return func(cfg *config.Config) {
		cfg.HighlightWhitespace = true
	}
}

// Inline sets the aligner used to render a deleted line that's immediately replaced by an
// inserted line as an inline word diff. The default is [worddiff.Myers]. With a nil aligner, every
// line is colored as a whole.
//
// Inline word diffs are only rendered for the unified format.
func Inline(a worddiff.Aligner) Option {
	return func(cfg *config.Config) {
		cfg.Aligner = a
	}
}

// Colors changes the colors used by the colorizer. Colors that are not mentioned keep their
// defaults.
func Colors(opts ...color.Option) Option {
	return func(cfg *config.Config) {
		for _, opt := range opts {
			opt(&cfg.Colors)
		}
	}
}
