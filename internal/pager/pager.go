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

// Package pager pipes output into a pager program.
package pager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/term"
)

// Default is used if PAGER is not set.
const Default = "more"

// ErrStart is returned by Write if the pager can't be started.
var ErrStart = errors.New("failed to start pager")

var errClosed = errors.New("pager is closed")

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Pager is an [io.WriteCloser] that feeds a pager. The pager is started on the first write, it's
// never started if there's no output.
//
// A Pager is safe for concurrent use, e.g. as both stdout and stderr of an [exec.Cmd]. At most one
// pager process is started.
type Pager struct {
	command string
	stdout  io.Writer
	stderr  io.Writer

	mu  sync.Mutex
	cmd *exec.Cmd
	in  io.WriteCloser
	err error
}

// New returns a pager that runs command with sh -c. The pager writes to stdout and stderr.
func New(command string, stdout, stderr io.Writer) *Pager {
	if command == "" {
		command = Default
	}
	return &Pager{command: command, stdout: stdout, stderr: stderr}
}

func (p *Pager) start() error {
	cmd := exec.Command("sh", "-c", p.command)
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStart, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStart, p.command, err)
	}
	p.cmd = cmd
	p.in = in
	return nil
}

// Write writes b to the pager, starting it if necessary.
func (p *Pager) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	if p.cmd == nil {
		if err := p.start(); err != nil {
			p.err = err
			return 0, err
		}
	}
	n, err := p.in.Write(b)
	if err != nil {
		p.err = err
	}
	return n, err
}

// Close closes the input of the pager and waits for it to exit. Writes after Close fail.
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = errClosed
	}
	if p.cmd == nil {
		return nil
	}
	p.in.Close()
	err := p.cmd.Wait()
	p.cmd = nil
	if err != nil {
		return fmt.Errorf("pager: %v", err)
	}
	return nil
}
