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

// gitdiff is a tool that can be used with git using GIT_EXTERNAL_DIFF.
//
// It runs diff(1) on the two versions of a file and colorizes the result like di does:
//
//	GIT_EXTERNAL_DIFF=gitdiff git diff
//
// The output is colorized if stdout is a terminal or if git is running a pager. The diff binary
// is taken from DIFF, falling back to diff in PATH.
package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"

	"znkr.io/di/colordiff"
	"znkr.io/di/internal/gnudiff"
	"znkr.io/di/internal/pager"
	"znkr.io/di/worddiff"
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) < 8 {
		return fmt.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}
	path, oldFile, oldHex, _, newFile, newHex, newMode := args[1], args[2], args[3], args[4], args[5], args[6], args[7]

	out := stdout
	var cw *colordiff.Writer
	if pager.IsTerminal(stdout) || getenv("GIT_PAGER_IN_USE") != "" {
		cw = colordiff.NewWriter(stdout, colordiff.HighlightWhitespace(), colordiff.Inline(worddiff.Myers{}))
		out = cw
	}

	if _, err := fmt.Fprintf(out, "diff --git a/%s b/%s\nindex %s..%s %s\n", path, path, short(oldHex), short(newHex), newMode); err != nil {
		return err
	}
	diff := &gnudiff.Command{
		Path:   cmp.Or(getenv("DIFF"), "diff"),
		Flags:  []string{"-U", "3", "-p", "-L", "a/" + path, "-L", "b/" + path},
		Stdout: out,
		Stderr: stderr,
	}
	status, err := diff.Run(ctx, "--", oldFile, newFile)
	if cw != nil {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	// git stops at the first non-zero exit, a difference is not an error here.
	if status > 1 {
		return fmt.Errorf("diff exited with status %d", status)
	}
	return nil
}

// short abbreviates an object name.
func short(hex string) string {
	if len(hex) > 10 {
		return hex[:10]
	}
	return hex
}
