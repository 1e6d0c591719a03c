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

// Package cli implements the di command, a wrapper around GNU diff(1) that colorizes its output,
// pages it, and walks directories with extra exclusion rules.
package cli

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"znkr.io/di/colordiff"
	"znkr.io/di/colordiff/color"
	"znkr.io/di/internal/dirdiff"
	"znkr.io/di/internal/exclude"
	"znkr.io/di/internal/gnudiff"
	"znkr.io/di/internal/pager"
	"znkr.io/di/worddiff"
)

// Exit statuses.
const (
	StatusSame      = 0
	StatusDifferent = 1
	StatusTrouble   = 2
	StatusUsage     = 64
)

// Env is the environment of a di invocation.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// OSEnv returns the environment of the current process.
func OSEnv() Env {
	return Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

type command struct {
	env    Env
	name   string
	stdout io.Writer
	stderr io.Writer
}

// Run runs di with the command line args, including the program name, and returns the exit
// status.
func Run(ctx context.Context, env Env, args []string) int {
	name := "di"
	if len(args) > 0 {
		name = filepath.Base(args[0])
		args = args[1:]
	}
	c := &command{env: env, name: name, stdout: env.Stdout, stderr: env.Stderr}
	return c.run(ctx, args)
}

// warn prints a diagnostic prefixed with the program name.
func (c *command) warn(format string, args ...any) {
	fmt.Fprintf(c.stderr, "%s: %s\n", c.name, fmt.Sprintf(format, args...))
}

func (c *command) usage(err error) int {
	c.warn("%v", err)
	c.warn("Try `%s --help' for more information.", c.name)
	return StatusUsage
}

// envName returns the name of the environment variable with default options, e.g. DI_OPTIONS.
func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '-':
			return '_'
		case 'a' <= r && r <= 'z':
			return r - 'a' + 'A'
		default:
			return r
		}
	}, name) + "_OPTIONS"
}

func (c *command) run(ctx context.Context, args []string) int {
	getenv := c.env.Getenv
	o := &options{stdin: c.env.Stdin}
	fs := o.flagSet(c.name)

	if _, err := parse(fs, defaultArgs); err != nil {
		panic(fmt.Sprintf("invalid default options: %v", err)) // never reached
	}

	cfg, err := loadConfig(configPath(c.name, getenv))
	if err != nil {
		c.warn("%v", err)
		return StatusTrouble
	}
	colors, err := cfg.colorOptions()
	if err != nil {
		c.warn("%v", err)
		return StatusTrouble
	}
	if _, err := parse(fs, cfg.Options); err != nil {
		return c.usage(fmt.Errorf("config file: %v", err))
	}
	if value := getenv(envName(c.name)); value != "" {
		envArgs, err := splitOptions(value)
		if err != nil {
			return c.usage(err)
		}
		if _, err := parse(fs, envArgs); err != nil {
			return c.usage(fmt.Errorf("%s: %v", envName(c.name), err))
		}
	}
	operands, err := parse(fs, args)
	if errors.Is(err, pflag.ErrHelp) {
		o.help = true
	} else if err != nil {
		return c.usage(err)
	}
	o.finish()

	// Pager and color are only used for terminals.
	tty := pager.IsTerminal(c.env.Stdout)
	if o.pager && tty {
		p := &pagedOutput{
			pager:  pager.New(getenv("PAGER"), c.env.Stdout, c.env.Stderr),
			direct: c.env.Stdout,
			warn:   c.warn,
		}
		c.stdout = p
		if pager.IsTerminal(c.env.Stderr) {
			c.stderr = p
		}
		defer func() {
			if err := p.Close(); err != nil {
				fmt.Fprintf(c.env.Stderr, "%s: %v\n", c.name, err)
			}
		}()
	}

	diff := &gnudiff.Command{
		Path:   cmp.Or(getenv("DIFF"), "diff"),
		Flags:  o.diffArgs(),
		Stdout: c.stdout,
		Stderr: c.stderr,
	}

	switch {
	case o.help:
		if err := writeHelp(c.stdout, c.name, envName(c.name)); err != nil {
			c.warn("%v", err)
			return StatusTrouble
		}
		return StatusSame
	case o.version:
		if err := writeVersion(c.stdout, c.name); err != nil {
			c.warn("%v", err)
			return StatusTrouble
		}
		if err := diff.Version(ctx); err != nil {
			c.warn("%v", err)
			return StatusTrouble
		}
		return StatusSame
	}

	colorOpts := c.colorizerOptions(o, colors)

	if o.filter != "" {
		opts := colorOpts
		if o.filter == "context" {
			opts = append(opts, colordiff.Context())
		} else {
			opts = append(opts, colordiff.Unified())
		}
		if err := colordiff.Copy(c.stdout, c.env.Stdin, opts...); err != nil {
			c.warn("%v", err)
			return StatusTrouble
		}
		return StatusSame
	}

	from, to, reversed, err := resolve(o, operands)
	if err != nil {
		return c.usage(err)
	}

	if o.color && tty {
		switch o.format {
		case formatUnified:
			diff.Colorize = true
			diff.Options = append(colorOpts, colordiff.Unified())
		case formatContext:
			diff.Colorize = true
			diff.Options = append(colorOpts, colordiff.Context())
		}
	}

	w := &dirdiff.Walker{
		Diff:   diff.Run,
		Stdout: c.stdout,
		Warn:   c.warn,
		Exclude: &exclude.Matcher{
			Include: o.include,
			Exclude: o.exclude,
			Rsync:   o.rsyncExclude,
		},
		Recursive:    o.recursive,
		NewFile:      o.newFile,
		StartingFile: o.startingFile,
		Reversed:     reversed,
	}
	if o.fignoreExclude {
		w.Exclude.FIgnore = exclude.FIgnore(getenv("FIGNORE"))
	}

	if err := compare(ctx, w, from, to, o.relative); err != nil {
		c.warn("%v", err)
		return StatusTrouble
	}
	return w.Status()
}

func (c *command) colorizerOptions(o *options, colors []color.Option) []colordiff.Option {
	opts := []colordiff.Option{colordiff.Colors(colors...)}
	if o.highlightWhitespace {
		opts = append(opts, colordiff.HighlightWhitespace())
	}
	switch {
	case !o.inline:
		opts = append(opts, colordiff.Inline(nil))
	case o.aligner == "dmp":
		opts = append(opts, colordiff.Inline(worddiff.DiffMatchPatch{}))
	case o.aligner == "none":
		opts = append(opts, colordiff.Inline(worddiff.None{}))
	default:
		opts = append(opts, colordiff.Inline(worddiff.Myers{}))
	}
	return opts
}

// resolve determines the files to compare from the operands. Exactly one side has more than one
// file. If the first operand is a directory, it's compared to all other operands and the result
// is reversed.
func resolve(o *options, operands []string) (from, to []string, reversed bool, err error) {
	switch {
	case o.fromFile != "":
		from = []string{o.fromFile}
		to = operands
		if o.toFile != "" {
			to = []string{o.toFile}
		}
		if len(to) == 0 {
			return nil, nil, false, errors.New("missing operand")
		}
	case o.toFile != "":
		from = operands
		to = []string{o.toFile}
		if len(from) == 0 {
			return nil, nil, false, errors.New("missing operand")
		}
	default:
		if len(operands) < 2 {
			return nil, nil, false, errors.New("missing operand")
		}
		if isDir(operands[0]) {
			from, to, reversed = operands[1:], operands[:1], true
		} else {
			from, to = operands[:len(operands)-1], operands[len(operands)-1:]
		}
	}
	if len(from) != 1 && len(to) != 1 {
		return nil, nil, false, errors.New("wrong number of files given")
	}
	return from, to, reversed, nil
}

func isDir(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}

// within returns name inside of dir. Absolute names stay unchanged.
func within(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// compare compares every file in from with every file in to.
func compare(ctx context.Context, w *dirdiff.Walker, from, to []string, relative bool) error {
	for _, f := range from {
		for _, t := range to {
			var err error
			switch fromDir, toDir := isDir(f), isDir(t); {
			case fromDir && toDir:
				if relative {
					t = within(t, f)
				}
				err = w.Dirs(ctx, f, t, true)
			case fromDir:
				if relative {
					err = w.Files(ctx, within(f, t), t)
				} else {
					err = w.Files(ctx, filepath.Join(f, filepath.Base(t)), t)
				}
			case toDir:
				if relative {
					err = w.Files(ctx, f, within(t, f))
				} else {
					err = w.Files(ctx, f, filepath.Join(t, filepath.Base(f)))
				}
			default:
				err = w.Files(ctx, f, t)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// pagedOutput writes to a pager. If the pager can't be started, it warns once and writes to the
// terminal directly. It's used for stdout and stderr of diff at the same time.
type pagedOutput struct {
	pager  *pager.Pager
	direct io.Writer
	warn   func(format string, args ...any)

	mu     sync.Mutex
	failed bool
}

func (p *pagedOutput) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.failed {
		n, err := p.pager.Write(b)
		if !errors.Is(err, pager.ErrStart) {
			return n, err
		}
		p.failed = true
		p.warn("%v", err)
	}
	return p.direct.Write(b)
}

func (p *pagedOutput) Close() error {
	return p.pager.Close()
}
