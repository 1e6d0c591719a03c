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
	"fmt"
	"io"
	"strings"
)

// Version of di.
const Version = "0.1.0"

const copyright = "Copyright 2025 Florian Zenker"

var helpOptions = []struct {
	syntax string
	text   string
}{
	{"--[no-]pager", "Pipe output into pager if stdout is a terminal. [+][*]"},
	{"--[no-]color", "Colorize output if stdout is a terminal and the format is unified or context. [+][*]"},
	{"--[no-]highlight-whitespace", "Highlight suspicious whitespace differences in colorized output. [+][*]"},
	{"--[no-]inline", "Highlight changed words of a single changed line in colorized output. [+][*]"},
	{"--aligner=NAME", "Align words with myers (default), dmp or none. [*]"},
	{"--[no-]rsync-exclude, --[no-]cvs-exclude", "Exclude some kinds of files and directories a la rsync(1). [+][*]"},
	{"--[no-]ignore-cvs-lines", "Ignore CVS/RCS keyword lines. [+][*]"},
	{"--[no-]fignore-exclude", "Ignore files having suffixes specified in FIGNORE. [+][*]"},
	{"--filter[=FORMAT]", "Colorize a unified (default) or context diff read from stdin. [*]"},
	{"-R, --relative[=-]", "Use relative path names. [*]"},
	{"-i, --ignore-case[=-]", "Ignore case differences in file contents."},
	{"-E, --ignore-tab-expansion[=-]", "Ignore changes due to tab expansion."},
	{"-b, --ignore-space-change[=-]", "Ignore changes in the amount of white space."},
	{"-w, --ignore-all-space[=-]", "Ignore all white space."},
	{"-B, --ignore-blank-lines[=-]", "Ignore changes whose lines are all blank."},
	{"-I, --ignore-matching-lines=RE", "Ignore changes whose lines all match RE."},
	{"--[no-]strip-trailing-cr", "Strip trailing carriage return on input."},
	{"-a, --text[=-]", "Treat all files as text."},
	{"-c[NUM], --context[=NUM]", "Output NUM (default 3) lines of copied context."},
	{"-C NUM", "Output NUM lines of copied context."},
	{"-u[NUM], --unified[=NUM]", "Output NUM (default 3) lines of unified context. [+]"},
	{"-U NUM", "Output NUM lines of unified context."},
	{"-L, --label=LABEL", "Use LABEL instead of file name."},
	{"-p, --show-c-function[=-]", "Show which C function each change is in. [+]"},
	{"-F, --show-function-line=RE", "Show the most recent line matching RE."},
	{"-q, --brief[=-]", "Output only whether files differ."},
	{"-e, --ed[=-]", "Output an ed script."},
	{"--normal[=-]", "Output a normal diff."},
	{"-n, --rcs[=-]", "Output an RCS format diff."},
	{"-y, --side-by-side[=-]", "Output in two columns."},
	{"-W, --width=NUM", "Output at most NUM (default 130) print columns."},
	{"--left-column[=-]", "Output only the left column of common lines."},
	{"--suppress-common-lines[=-]", "Do not output common lines."},
	{"-D, --ifdef=NAME", "Output merged file to show `#ifdef NAME' diffs."},
	{"--GTYPE-group-format=GFMT", "Format GTYPE (old, new, changed, unchanged) input groups with GFMT."},
	{"--line-format=LFMT", "Format all input lines with LFMT."},
	{"--LTYPE-line-format=LFMT", "Format LTYPE (old, new, unchanged) input lines with LFMT."},
	{"-l, --paginate[=-]", "Pass the output through `pr' to paginate it."},
	{"-t, --expand-tabs[=-]", "Expand tabs to spaces in output."},
	{"-T, --initial-tab[=-]", "Make tabs line up by prepending a tab."},
	{"--tabsize=NUM", "Tab stops are every NUM (default 8) print columns."},
	{"--suppress-blank-empty[=-]", "Suppress space or tab before empty output lines."},
	{"-r, --recursive[=-]", "Recursively compare any subdirectories found. [+]"},
	{"-N, --[no-]new-file[=-]", "Treat absent files as empty. [+]"},
	{"--unidirectional-new-file[=-]", "Treat absent first files as empty."},
	{"-s, --report-identical-files[=-]", "Report when two files are the same."},
	{"-x, --exclude=PAT", "Exclude files that match PAT."},
	{"-X, --exclude-from=FILE", "Exclude files that match any pattern in FILE."},
	{"--include=PAT", "Do not exclude files that match PAT."},
	{"-S, --starting-file=FILE", "Start with FILE when comparing directories."},
	{"--from-file=FILE1", "Compare FILE1 to all operands.  FILE1 can be a directory."},
	{"--to-file=FILE2", "Compare all operands to FILE2.  FILE2 can be a directory."},
	{"--horizon-lines=NUM", "Keep NUM lines of the common prefix and suffix."},
	{"-d, --minimal[=-]", "Try hard to find a smaller set of changes. [+]"},
	{"--speed-large-files[=-]", "Assume large files and many scattered small changes."},
	{"-v, --version", "Output version info."},
	{"--help", "Output this help."},
}

const helpWidth = 32

func writeHelp(w io.Writer, name, envName string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - a wrapper around GNU diff(1)\n  version %s\n\nusage: %s [flags] [files]\n", name, Version, name)
	for _, opt := range helpOptions {
		if len(opt.syntax) > helpWidth {
			fmt.Fprintf(&sb, "    %s\n    %-*s %s\n", opt.syntax, helpWidth, "", opt.text)
		} else {
			fmt.Fprintf(&sb, "    %-*s %s\n", helpWidth, opt.syntax, opt.text)
		}
	}
	sb.WriteString(`Options marked with [*] are this wrapper's original features.
Options marked with [+] are turned on by default.  To turn them off,
specify -?- for short options and --no-??? for long options, respectively.

Environment variables:
`)
	for _, env := range [][2]string{
		{"DIFF", "Path to diff(1)"},
		{envName, "User's preferred default options"},
		{"PAGER", "Path to pager (more(1) is used if not defined)"},
		{"FIGNORE", "Colon separated file name suffixes to exclude"},
	} {
		fmt.Fprintf(&sb, "    %-14s  %s\n", env[0], env[1])
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeVersion(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "%s version %s\n%s\n\n----\n", name, Version, copyright)
	return err
}
