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

// Package dirdiff compares directory trees by running diff on the files they have in common.
//
// Files present on both sides of a directory are compared in a single diff invocation. Entries
// missing on one side are either reported or compared against the null device, depending on the
// new file mode.
package dirdiff

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"znkr.io/di/internal/exclude"
)

// NewFile determines how entries that exist on one side only are handled.
type NewFile int

const (
	// Report missing entries with "Only in ...".
	NoNewFile NewFile = iota

	// Treat all missing entries as empty.
	Bidirectional

	// Treat entries missing in the first directory as empty, report entries missing in the second.
	Unidirectional
)

// DiffFunc runs diff with the given operands. It returns the exit status of diff.
type DiffFunc func(ctx context.Context, operands ...string) (int, error)

// Walker compares files and directories. Its zero value is not usable, Diff and Stdout must be set.
type Walker struct {
	Diff   DiffFunc
	Stdout io.Writer

	// Warn is called for directories that can't be read. If nil, warnings are dropped.
	Warn func(format string, args ...any)

	Exclude   *exclude.Matcher
	Recursive bool
	NewFile   NewFile

	// StartingFile skips all top level entries that sort before it.
	StartingFile string

	// Reversed swaps the sides of every diff invocation. This is used when the directory operand
	// was given before the file operands.
	Reversed bool

	status int
}

// Status returns the maximum exit status of all diff invocations and reports so far.
func (w *Walker) Status() int { return w.status }

func (w *Walker) update(status int) {
	w.status = max(w.status, status)
}

func (w *Walker) run(ctx context.Context, operands ...string) error {
	status, err := w.Diff(ctx, operands...)
	if err != nil {
		return err
	}
	w.update(status)
	return nil
}

// Files compares two files.
func (w *Walker) Files(ctx context.Context, file1, file2 string) error {
	if w.Reversed {
		file1, file2 = file2, file1
	}
	return w.run(ctx, "--", file1, file2)
}

// many compares multiple files with a single file in one invocation. If first is set, files
// are the first operands.
func (w *Walker) many(ctx context.Context, files []string, other string, first bool) error {
	if len(files) == 0 {
		return nil
	}
	if w.Reversed {
		first = !first
	}
	flag := "--from-file"
	if first {
		flag = "--to-file"
	}
	return w.run(ctx, append([]string{flag, other, "--"}, files...)...)
}

type entry struct {
	name  string
	isDir bool
}

// entries lists the non-excluded entries of dir in sorted order. An empty dir has no entries.
func (w *Walker) entries(dir string, top bool) []entry {
	if dir == "" {
		return nil
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		if w.Warn != nil {
			w.Warn("%s: %v", dir, err)
		}
		return nil
	}
	var out []entry
	for _, de := range des {
		name := de.Name()
		if top && w.StartingFile != "" && name < w.StartingFile {
			continue
		}
		e := entry{name: name, isDir: isDir(filepath.Join(dir, name))}
		if w.Exclude != nil && w.Exclude.Excluded(name, e.isDir) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isDir(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}

// Dirs compares two directories. Set top for the directories given on the command line. Either
// directory may be empty, meaning that it doesn't exist.
func (w *Walker) Dirs(ctx context.Context, dir1, dir2 string, top bool) error {
	entries1 := w.entries(dir1, top)
	entries2 := w.entries(dir2, top)

	in2 := make(map[string]entry, len(entries2))
	for _, e := range entries2 {
		in2[e.name] = e
	}
	in1 := make(map[string]bool, len(entries1))
	for _, e := range entries1 {
		in1[e.name] = true
	}

	var files, missing1, missing2 []string
	for _, e1 := range entries1 {
		e2, ok := in2[e1.name]
		if !ok {
			missing2 = append(missing2, e1.name)
			continue
		}
		switch {
		case e1.isDir && e2.isDir:
			if w.Recursive {
				if err := w.Dirs(ctx, filepath.Join(dir1, e1.name), filepath.Join(dir2, e2.name), false); err != nil {
					return err
				}
			}
		case !e1.isDir && !e2.isDir:
			files = append(files, filepath.Join(dir1, e1.name))
		default:
			missing1 = append(missing1, e1.name)
			missing2 = append(missing2, e1.name)
		}
	}
	for _, e2 := range entries2 {
		if !in1[e2.name] {
			missing1 = append(missing1, e2.name)
		}
	}
	slices.Sort(missing1)
	slices.Sort(missing2)

	if err := w.many(ctx, files, dir2, true); err != nil {
		return err
	}

	type side struct {
		dir     string
		missing []string
		forward bool // entries exist in this directory but are missing in the first one
		first   bool // dir is the first directory
	}
	sides := []side{
		{dir: dir2, missing: missing1, forward: true, first: false},
		{dir: dir1, missing: missing2, forward: false, first: true},
	}
	if w.Reversed {
		sides = []side{
			{dir: dir1, missing: missing2, forward: true, first: true},
			{dir: dir2, missing: missing1, forward: false, first: false},
		}
	}
	for _, s := range sides {
		if err := w.missing(ctx, s.dir, s.missing, s.first, w.newFile(s.forward)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) newFile(forward bool) bool {
	switch w.NewFile {
	case Bidirectional:
		return true
	case Unidirectional:
		return forward
	default:
		return false
	}
}

// missing handles the entries of dir that have no counterpart on the other side.
func (w *Walker) missing(ctx context.Context, dir string, names []string, first, newFile bool) error {
	var newFiles []string
	for _, name := range names {
		file := filepath.Join(dir, name)
		dirp := isDir(file)
		switch {
		case newFile && dirp:
			var err error
			if first {
				err = w.Dirs(ctx, file, "", false)
			} else {
				err = w.Dirs(ctx, "", file, false)
			}
			if err != nil {
				return err
			}
		case newFile:
			newFiles = append(newFiles, file)
		default:
			kind := "file"
			if dirp {
				kind = "directory"
			}
			if _, err := fmt.Fprintf(w.Stdout, "Only in %s: %s (%s)\n", dir, name, kind); err != nil {
				return err
			}
			w.update(1)
		}
	}
	return w.many(ctx, newFiles, os.DevNull, first)
}
