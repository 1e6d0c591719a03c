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

// Package gnudiff runs diff(1) and optionally colorizes its output.
package gnudiff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"

	"znkr.io/di/colordiff"
)

// Command describes how to run diff.
type Command struct {
	// Path to the diff binary, looked up in PATH if it contains no slash.
	Path string

	// Flags are passed to diff before the operands.
	Flags []string

	Stdout io.Writer
	Stderr io.Writer

	// Colorize enables coloring the output with the given options.
	Colorize bool
	Options  []colordiff.Option
}

// Run runs diff with the operands and returns its exit status: 0 if the inputs are the same, 1 if
// they are different, 2 if there was trouble. An error is returned if diff couldn't be run at
// all or if the output couldn't be written.
func (c *Command) Run(ctx context.Context, operands ...string) (int, error) {
	args := append(slices.Clone(c.Flags), operands...)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stderr = c.Stderr

	var cw *colordiff.Writer
	if c.Colorize {
		cw = colordiff.NewWriter(c.Stdout, c.Options...)
		cmd.Stdout = cw
	} else {
		cmd.Stdout = c.Stdout
	}

	err := cmd.Run()
	if cw != nil {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr) && exitErr.Exited():
		return exitErr.ExitCode(), nil
	case errors.As(err, &exitErr):
		return 2, fmt.Errorf("%s: %v", c.Path, err)
	default:
		return 2, fmt.Errorf("failed to run diff command: %s %s: %v", c.Path, strings.Join(args, " "), err)
	}
}

// Version writes the version information of diff to the output.
func (c *Command) Version(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.Path, "--version")
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run diff command: %s --version: %v", c.Path, err)
	}
	return nil
}
