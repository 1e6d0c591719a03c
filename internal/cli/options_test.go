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

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"znkr.io/di/internal/dirdiff"
)

func TestNormalize(t *testing.T) {
	fs := (&options{}).flagSet("di")
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no-prefix", []string{"--no-pager"}, []string{"--pager=false"}},
		{"dash-value", []string{"--pager=-"}, []string{"--pager=false"}},
		{"dash-value-no-toggle", []string{"--label=-"}, []string{"--label=-"}},
		{"no-prefix-value-flag", []string{"--no-unified"}, []string{"--no-unified"}},
		{"unknown", []string{"--no-such-flag"}, []string{"--no-such-flag"}},
		{"short-off", []string{"-r-"}, []string{"-r=false"}},
		{"cluster", []string{"-rN-"}, []string{"-r", "-N=false"}},
		{"optional-value", []string{"-u5"}, []string{"-u=5"}},
		{"optional-no-value", []string{"-u", "5"}, []string{"-u", "5"}},
		{"required-value", []string{"-U5"}, []string{"-U", "5"}},
		{"required-value-separate", []string{"-U", "5"}, []string{"-U", "5"}},
		{"cluster-with-value", []string{"-wIre"}, []string{"-w", "-I", "re"}},
		{"value-looks-like-flag", []string{"-x", "-r-", "a"}, []string{"-x", "-r-", "a"}},
		{"long-value-looks-like-flag", []string{"--exclude", "--no-pager"}, []string{"--exclude", "--no-pager"}},
		{"end-of-options", []string{"--", "--no-pager", "-r-"}, []string{"--", "--no-pager", "-r-"}},
		{"stdin", []string{"-", "b"}, []string{"-", "b"}},
		{"unknown-short", []string{"-rz-"}, []string{"-r", "-z-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalize(fs, tt.args))
		})
	}
}

func parseAll(t *testing.T, args ...string) (*options, []string, error) {
	t.Helper()
	o := &options{stdin: strings.NewReader("one\n\ntwo\n")}
	fs := o.flagSet("di")
	_, err := parse(fs, defaultArgs)
	require.NoError(t, err)
	operands, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	o.finish()
	return o, operands, nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantDiffArgs []string
		wantOperands []string
		check        func(t *testing.T, o *options)
	}{
		{
			name:         "defaults",
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-U", "3", "-I", cvsLines},
			check: func(t *testing.T, o *options) {
				require.Equal(t, formatUnified, o.format)
				require.True(t, o.pager)
				require.True(t, o.color)
				require.True(t, o.highlightWhitespace)
				require.True(t, o.inline)
				require.True(t, o.rsyncExclude)
				require.True(t, o.fignoreExclude)
				require.True(t, o.recursive)
				require.Equal(t, dirdiff.Bidirectional, o.newFile)
			},
		},
		{
			name:         "switches",
			args:         []string{"-u5", "-r-", "-w", "a", "b"},
			wantDiffArgs: []string{"-N", "-p", "-d", "-w", "-U", "5", "-I", cvsLines},
			wantOperands: []string{"a", "b"},
			check: func(t *testing.T, o *options) {
				require.False(t, o.recursive)
			},
		},
		{
			name:         "context",
			args:         []string{"--no-ignore-cvs-lines", "-c"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-C", "3"},
			check: func(t *testing.T, o *options) {
				require.Equal(t, formatContext, o.format)
			},
		},
		{
			name:         "context-lines",
			args:         []string{"--no-ignore-cvs-lines", "-C", "07"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-C", "7"},
		},
		{
			name:         "last-format-wins",
			args:         []string{"--no-ignore-cvs-lines", "-c", "--unified=1"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-U", "1"},
			check: func(t *testing.T, o *options) {
				require.Equal(t, formatUnified, o.format)
			},
		},
		{
			name:         "side-by-side",
			args:         []string{"-y", "--no-new-file"},
			wantDiffArgs: []string{"-r", "-p", "-d", "-y", "-I", cvsLines},
			check: func(t *testing.T, o *options) {
				require.Equal(t, formatSideBySide, o.format)
				require.Equal(t, dirdiff.NoNewFile, o.newFile)
			},
		},
		{
			name:         "custom-format",
			args:         []string{"--no-ignore-cvs-lines", "--old-line-format=-%l", "--new-line-format", "+%l"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "--old-line-format", "-%l", "--new-line-format", "+%l"},
			check: func(t *testing.T, o *options) {
				require.Equal(t, formatCustom, o.format)
			},
		},
		{
			name:         "ignore-matching-lines",
			args:         []string{"--no-ignore-cvs-lines", "-I", "foo", "--ignore-matching-lines=bar", "-Ibaz"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-I", "foo", "-I", "bar", "-I", "baz", "-U", "3"},
		},
		{
			name:         "unidirectional",
			args:         []string{"--no-ignore-cvs-lines", "--unidirectional-new-file"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "--unidirectional-new-file", "-U", "3"},
			check: func(t *testing.T, o *options) {
				require.Equal(t, dirdiff.Unidirectional, o.newFile)
			},
		},
		{
			name:         "wrapper-options",
			args:         []string{"--no-pager", "--color=-", "--no-inline", "--aligner=dmp", "-R", "--cvs-exclude=false", "--filter"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-U", "3", "-I", cvsLines},
			check: func(t *testing.T, o *options) {
				require.False(t, o.pager)
				require.False(t, o.color)
				require.False(t, o.inline)
				require.False(t, o.rsyncExclude)
				require.True(t, o.relative)
				require.Equal(t, "dmp", o.aligner)
				require.Equal(t, "unified", o.filter)
			},
		},
		{
			name:         "filter-context",
			args:         []string{"--filter=context"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-U", "3", "-I", cvsLines},
			check: func(t *testing.T, o *options) {
				require.Equal(t, "context", o.filter)
			},
		},
		{
			name:         "directories",
			args:         []string{"-x", "*.o", "--exclude=tmp", "-X", "-", "--include", "keep", "-S", "m", "--from-file=x", "--to-file", "y"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-U", "3", "-I", cvsLines},
			check: func(t *testing.T, o *options) {
				require.Equal(t, []string{"*.o", "tmp", "one", "two"}, o.exclude)
				require.Equal(t, []string{"keep"}, o.include)
				require.Equal(t, "m", o.startingFile)
				require.Equal(t, "x", o.fromFile)
				require.Equal(t, "y", o.toFile)
			},
		},
		{
			name:         "operands-after-end-of-options",
			args:         []string{"-w", "--", "-a", "--no-pager"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-w", "-U", "3", "-I", cvsLines},
			wantOperands: []string{"-a", "--no-pager"},
		},
		{
			name:         "version",
			args:         []string{"-v"},
			wantDiffArgs: []string{"-N", "-r", "-p", "-d", "-U", "3", "-I", cvsLines},
			check: func(t *testing.T, o *options) {
				require.True(t, o.version)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, operands, err := parseAll(t, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.wantDiffArgs, o.diffArgs())
			if tt.wantOperands == nil {
				require.Empty(t, operands)
			} else {
				require.Equal(t, tt.wantOperands, operands)
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--bogus"},
		{"-z"},
		{"-U"},
		{"-Ux"},
		{"--context=x"},
		{"--width", "wide"},
		{"--aligner=lcs"},
		{"--filter=normal"},
		{"--pager=maybe"},
		{"-X", "/nonexistent/patterns"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := parseAll(t, args...)
			require.Error(t, err)
		})
	}
}

func TestEnvName(t *testing.T) {
	require.Equal(t, "DI_OPTIONS", envName("di"))
	require.Equal(t, "MY_DI2_OPTIONS", envName("my-di2"))
}
