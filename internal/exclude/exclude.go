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

// Package exclude decides which directory entries are skipped when comparing directories.
package exclude

import (
	"path"
	"regexp"
	"strings"
)

// Files that rsync(1) and cvs(1) ignore by default.
var (
	rsyncFileGlobs = []string{
		"tags", "TAGS", "GTAGS", "GRTAGS", "GSYMS", "GPATH",
		".make.state", ".nse_depinfo",
		"*~", `\#*`, `.\#*`, ",*", "_$*", "*$",
		"*.old", "*.bak", "*.BAK",
		"*.orig", "*.rej", "*.del-*",
		"*.a", "*.olb", "*.o", "*.obj",
		"*.bundle", "*.dylib",
		"*.exe", "*.Z", "*.elc", "*.py[co]", "*.ln",
	}
	rsyncFileRegexps = []*regexp.Regexp{
		regexp.MustCompile(`^[^.].*[^.]\.so(?:\.[0-9]+)*$`),
		regexp.MustCompile(`^core(?:\.[0-9]+)*$`),
	}
	rsyncDirGlobs = []string{
		"RCS", "SCCS", "CVS", "CVS.adm",
		".svn", ".git", ".bzr", ".hg",
	}
)

// Matcher matches directory entries by their base name. The zero value excludes nothing but "."
// and "..".
type Matcher struct {
	// Include patterns take precedence over all other rules.
	Include []string

	// Exclude patterns, e.g. from -x and -X.
	Exclude []string

	// FIgnore lists file name suffixes to exclude, see [FIgnore].
	FIgnore []string

	// Rsync enables the default exclusion list of rsync(1).
	Rsync bool
}

// FIgnore parses the value of the FIGNORE environment variable, a colon separated list of
// suffixes. Empty suffixes are dropped.
func FIgnore(env string) []string {
	var suffixes []string
	for s := range strings.SplitSeq(env, ":") {
		if s != "" {
			suffixes = append(suffixes, s)
		}
	}
	return suffixes
}

// Excluded reports whether the directory entry name should be skipped. Leading dots are matched
// by wildcards.
func (m *Matcher) Excluded(name string, isDir bool) bool {
	if name == "." || name == ".." {
		return true
	}
	if matchAny(m.Include, name) {
		return false
	}
	if matchAny(m.Exclude, name) {
		return true
	}
	for _, suffix := range m.FIgnore {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	if !m.Rsync {
		return false
	}
	if isDir {
		return matchAny(rsyncDirGlobs, name)
	}
	if matchAny(rsyncFileGlobs, name) {
		return true
	}
	for _, re := range rsyncFileRegexps {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if match(pat, name) {
			return true
		}
	}
	return false
}

// match matches a shell pattern against a base name. Malformed patterns only match themselves.
func match(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	if err != nil {
		return pattern == name
	}
	return ok
}
