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

package pager

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

func lookSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

func TestPager(t *testing.T) {
	lookSh(t)
	var out bytes.Buffer
	p := New("tr a-z A-Z", &out, &out)
	_, err := p.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = p.Write([]byte("pager\n"))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.Equal(t, "HELLO PAGER\n", out.String())
}

func TestPagerConcurrentWrites(t *testing.T) {
	lookSh(t)
	const writers = 8
	for i := range 20 {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			starts := filepath.Join(t.TempDir(), "starts")
			var out bytes.Buffer
			p := New(fmt.Sprintf("echo started >> %s; cat", starts), &out, &out)

			var wg sync.WaitGroup
			for w := range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := fmt.Fprintf(p, "line %d\n", w); err != nil {
						t.Errorf("Write failed: %v", err)
					}
				}()
			}
			wg.Wait()
			require.NoError(t, p.Close())

			log, err := os.ReadFile(starts)
			require.NoError(t, err)
			require.Equal(t, "started\n", string(log))
			require.Equal(t, writers, strings.Count(out.String(), "\n"))
		})
	}
}

func TestPagerWriteAfterClose(t *testing.T) {
	lookSh(t)
	var out bytes.Buffer
	p := New("cat", &out, &out)
	_, err := p.Write([]byte("text\n"))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	_, err = p.Write([]byte("more\n"))
	require.Error(t, err)
	require.Equal(t, "text\n", out.String())
}

func TestPagerNoOutput(t *testing.T) {
	var out bytes.Buffer
	p := New("echo started", &out, &out)
	require.NoError(t, p.Close())
	require.Empty(t, out.String())
}

func TestPagerFails(t *testing.T) {
	lookSh(t)
	var out bytes.Buffer
	p := New("exit 3", &out, &out)
	// The write may or may not fail depending on when the pager exits.
	_, _ = p.Write([]byte("text\n"))
	require.Error(t, p.Close())
}

func TestIsTerminal(t *testing.T) {
	require.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	require.False(t, IsTerminal(f))

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	require.True(t, IsTerminal(tty))
}
