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

package dirdiff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"znkr.io/di/internal/exclude"
)

// setup creates the following trees:
//
//	a/common.txt        b/common.txt
//	a/mixed             b/mixed/m.txt
//	a/only-a-dir/x.txt
//	a/only-a.txt        b/only-b.txt
//	a/same-dir/in.txt   b/same-dir/in.txt
//	a/skip.o
func setup(t *testing.T) (a, b string) {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{
		"a/common.txt",
		"a/mixed",
		"a/only-a-dir/x.txt",
		"a/only-a.txt",
		"a/same-dir/in.txt",
		"a/skip.o",
		"b/common.txt",
		"b/mixed/m.txt",
		"b/only-b.txt",
		"b/same-dir/in.txt",
	} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name+"\n"), 0o644))
	}
	return filepath.Join(root, "a"), filepath.Join(root, "b")
}

type recorder struct {
	calls  [][]string
	status int
	err    error
}

func (r *recorder) diff(_ context.Context, operands ...string) (int, error) {
	r.calls = append(r.calls, operands)
	return r.status, r.err
}

func TestDirs(t *testing.T) {
	a, b := setup(t)
	join := filepath.Join

	tests := []struct {
		name      string
		walker    Walker
		status    int
		wantCalls [][]string
		wantOut   string
		want      int
	}{
		{
			name:   "report-missing",
			walker: Walker{Recursive: true},
			wantCalls: [][]string{
				{"--to-file", join(b, "same-dir"), "--", join(a, "same-dir", "in.txt")},
				{"--to-file", b, "--", join(a, "common.txt")},
			},
			wantOut: fmt.Sprintf("Only in %s: mixed (directory)\n", b) +
				fmt.Sprintf("Only in %s: only-b.txt (file)\n", b) +
				fmt.Sprintf("Only in %s: mixed (file)\n", a) +
				fmt.Sprintf("Only in %s: only-a-dir (directory)\n", a) +
				fmt.Sprintf("Only in %s: only-a.txt (file)\n", a),
			want: 1,
		},
		{
			name:   "not-recursive",
			walker: Walker{},
			status: 1,
			wantCalls: [][]string{
				{"--to-file", b, "--", join(a, "common.txt")},
			},
			wantOut: fmt.Sprintf("Only in %s: mixed (directory)\n", b) +
				fmt.Sprintf("Only in %s: only-b.txt (file)\n", b) +
				fmt.Sprintf("Only in %s: mixed (file)\n", a) +
				fmt.Sprintf("Only in %s: only-a-dir (directory)\n", a) +
				fmt.Sprintf("Only in %s: only-a.txt (file)\n", a),
			want: 1,
		},
		{
			name:   "new-file",
			walker: Walker{Recursive: true, NewFile: Bidirectional},
			wantCalls: [][]string{
				{"--to-file", join(b, "same-dir"), "--", join(a, "same-dir", "in.txt")},
				{"--to-file", b, "--", join(a, "common.txt")},
				{"--from-file", os.DevNull, "--", join(b, "mixed", "m.txt")},
				{"--from-file", os.DevNull, "--", join(b, "only-b.txt")},
				{"--to-file", os.DevNull, "--", join(a, "only-a-dir", "x.txt")},
				{"--to-file", os.DevNull, "--", join(a, "mixed"), join(a, "only-a.txt")},
			},
			want: 0,
		},
		{
			name:   "unidirectional-new-file",
			walker: Walker{NewFile: Unidirectional},
			status: 2,
			wantCalls: [][]string{
				{"--to-file", b, "--", join(a, "common.txt")},
				{"--from-file", os.DevNull, "--", join(b, "mixed", "m.txt")},
				{"--from-file", os.DevNull, "--", join(b, "only-b.txt")},
			},
			wantOut: fmt.Sprintf("Only in %s: mixed (file)\n", a) +
				fmt.Sprintf("Only in %s: only-a-dir (directory)\n", a) +
				fmt.Sprintf("Only in %s: only-a.txt (file)\n", a),
			want: 2,
		},
		{
			name:   "reversed",
			walker: Walker{Reversed: true, NewFile: Unidirectional},
			wantCalls: [][]string{
				{"--from-file", b, "--", join(a, "common.txt")},
				{"--from-file", os.DevNull, "--", join(a, "only-a-dir", "x.txt")},
				{"--from-file", os.DevNull, "--", join(a, "mixed"), join(a, "only-a.txt")},
			},
			wantOut: fmt.Sprintf("Only in %s: mixed (directory)\n", b) +
				fmt.Sprintf("Only in %s: only-b.txt (file)\n", b),
			want: 1,
		},
		{
			name:   "starting-file",
			walker: Walker{Recursive: true, StartingFile: "only-b.txt"},
			wantCalls: [][]string{
				{"--to-file", join(b, "same-dir"), "--", join(a, "same-dir", "in.txt")},
			},
			wantOut: fmt.Sprintf("Only in %s: only-b.txt (file)\n", b),
			want:    1,
		},
		{
			name:    "exclude",
			walker:  Walker{Exclude: &exclude.Matcher{Exclude: []string{"only-*", "mixed", "*.o"}}},
			wantOut: "",
			wantCalls: [][]string{
				{"--to-file", b, "--", join(a, "common.txt")},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{status: tt.status}
			var out bytes.Buffer
			w := tt.walker
			w.Diff = rec.diff
			w.Stdout = &out
			if w.Exclude == nil {
				w.Exclude = &exclude.Matcher{Rsync: true}
			}
			require.NoError(t, w.Dirs(t.Context(), a, b, true))
			require.Equal(t, tt.wantCalls, rec.calls)
			require.Equal(t, tt.wantOut, out.String())
			require.Equal(t, tt.want, w.Status())
		})
	}
}

func TestFiles(t *testing.T) {
	rec := &recorder{status: 1}
	w := Walker{Diff: rec.diff, Reversed: true}
	require.NoError(t, w.Files(t.Context(), "x", "y"))
	require.Equal(t, [][]string{{"--", "y", "x"}}, rec.calls)
	require.Equal(t, 1, w.Status())
}

func TestUnreadableDir(t *testing.T) {
	_, b := setup(t)
	missing := filepath.Join(t.TempDir(), "missing")

	var warnings []string
	var out bytes.Buffer
	rec := &recorder{}
	w := Walker{
		Diff:    rec.diff,
		Stdout:  &out,
		Warn:    func(format string, args ...any) { warnings = append(warnings, fmt.Sprintf(format, args...)) },
		Exclude: &exclude.Matcher{Exclude: []string{"mixed", "same-dir"}},
	}
	require.NoError(t, w.Dirs(t.Context(), missing, b, true))
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], missing)
	require.Empty(t, rec.calls)
	want := fmt.Sprintf("Only in %s: common.txt (file)\nOnly in %s: only-b.txt (file)\n", b, b)
	require.Equal(t, want, out.String())
	require.Equal(t, 1, w.Status())
}

func TestDiffError(t *testing.T) {
	a, b := setup(t)
	errStart := errors.New("no diff")
	rec := &recorder{err: errStart}
	w := Walker{Diff: rec.diff, Stdout: &bytes.Buffer{}}
	require.ErrorIs(t, w.Dirs(t.Context(), a, b, true), errStart)
}
