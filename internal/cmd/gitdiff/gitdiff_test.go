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

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	oldHex = "6f01a2b3c4d5e6f708192a3b4c5d6e7f80910111"
	newHex = "0123456789abcdef0123456789abcdef01234567"
)

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("diff"); err != nil {
		t.Skip("diff not found in PATH")
	}
	dir := t.TempDir()
	oldFile, newFile := filepath.Join(dir, "old"), filepath.Join(dir, "new")
	require.NoError(t, os.WriteFile(oldFile, []byte("a\nb\n"), 0o644))
	require.NoError(t, os.WriteFile(newFile, []byte("a\nc\n"), 0o644))
	args := []string{"gitdiff", "file.txt", oldFile, oldHex, "100644", newFile, newHex, "100644"}

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "plain",
			want: "diff --git a/file.txt b/file.txt\n" +
				"index 6f01a2b3c4..0123456789 100644\n" +
				"--- a/file.txt\n" +
				"+++ b/file.txt\n" +
				"@@ -1,2 +1,2 @@\n" +
				" a\n" +
				"-b\n" +
				"+c\n",
		},
		{
			name: "pager",
			env:  map[string]string{"GIT_PAGER_IN_USE": "true"},
			want: "\033[1mdiff --git a/file.txt b/file.txt\033[m\n" +
				"\033[1mindex 6f01a2b3c4..0123456789 100644\033[m\n" +
				"\033[1m--- a/file.txt\033[m\n" +
				"\033[1m+++ b/file.txt\033[m\n" +
				"\033[36m@@ -1,2 +1,2 @@\033[m\n" +
				" a\033[m\n" +
				"\033[31m-\033[m\033[7;31mb\033[m\033[31m\033[m\n" +
				"\033[32m+\033[m\033[7;32mc\033[m\033[32m\033[m\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), args, &stdout, &stderr, func(name string) string { return tt.env[name] })
			require.NoError(t, err)
			require.Empty(t, stderr.String())
			require.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestRunArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"gitdiff", "file.txt"}, &stdout, &stderr, func(string) string { return "" })
	require.Error(t, err)
}

func TestShort(t *testing.T) {
	require.Equal(t, "6f01a2b3c4", short(oldHex))
	require.Equal(t, "0000", short("0000"))
}
