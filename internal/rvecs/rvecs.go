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

// Package rvecs contains functions to work with the result vectors, the internal representation
// that's used by the myers algorithm and is then translated to a user facing API.
//
// For inputs x and y, the result vectors are rx and ry with len(rx) == len(x)+1 and
// len(ry) == len(y)+1. rx[s] is true if x[s] is deleted and ry[t] is true if y[t] is inserted. The
// last element of both vectors is a border that's always false, it simplifies iterating over the
// results.
package rvecs

import "iter"

// Make allocates the result vectors for x and y with a single allocation.
func Make[T any](x, y []T) (rx, ry []bool) {
	r := make([]bool, (len(x) + len(y) + 2))
	rx = r[: len(x)+1 : len(x)+1]
	ry = r[len(x)+1:]
	return
}

// Kind describes the kind of a [Run].
type Kind int

const (
	Match  Kind = iota // x[S0:S1] matches y[T0:T1]
	Delete             // x[S0:S1] is deleted, T0 == T1
	Insert             // y[T0:T1] is inserted, S0 == S1
)

// Run describes a maximal sequence of consecutive edits of the same kind.
type Run struct {
	Kind   Kind
	S0, S1 int // Start and end of the run in x.
	T0, T1 int // Start and end of the run in y.
}

// Runs returns an iterator over all runs in rx and ry. Within a block of changes, the deletions
// are reported before the insertions.
func Runs(rx, ry []bool) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		n, m := len(rx)-1, len(ry)-1
		for s, t := 0, 0; s < n || t < m; {
			if rx[s] {
				s0 := s
				for s < n && rx[s] {
					s++
				}
				if !yield(Run{Delete, s0, s, t, t}) {
					return
				}
			}
			if ry[t] {
				t0 := t
				for t < m && ry[t] {
					t++
				}
				if !yield(Run{Insert, s, s, t0, t}) {
					return
				}
			}
			if s < n && t < m && !rx[s] && !ry[t] {
				s0, t0 := s, t
				for s < n && t < m && !rx[s] && !ry[t] {
					s++
					t++
				}
				if !yield(Run{Match, s0, s, t0, t}) {
					return
				}
			}
		}
	}
}
