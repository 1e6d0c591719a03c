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

// Package myers implements Myers' O(ND) difference algorithm with the linear space refinement
// described in Eugene W. Myers, "An O(ND) Difference Algorithm and Its Variations", Algorithmica
// 1 (1986).
//
// The inputs compared by this module are the words of a single line, so the implementation always
// searches for a minimal diff and skips the cost limiting heuristics needed for large files.
package myers

import (
	"math"

	"znkr.io/di/internal/rvecs"
)

// Diff compares the contents of x and y and returns the result vectors rx and ry. If rx[s] is
// true, x[s] is deleted and if ry[t] is true, y[t] is inserted. All other elements match in order.
//
// Both result vectors have one extra element at the end that's always false, see [rvecs.Make].
func Diff[T comparable](x, y []T) (rx, ry []bool) {
	rx, ry = rvecs.Make(x, y)

	// Every diagonal k = s - t of the edit grid is in [-len(y), len(x)]. The v-arrays get one
	// additional element on both sides for the borders.
	diagonals := len(x) + len(y)
	vlen := 2*diagonals + 3
	buf := make([]int, 2*vlen) // allocate space for vf and vb with a single allocation

	m := myers[T]{
		x:  x,
		y:  y,
		vf: buf[:vlen],
		vb: buf[vlen:],
		v0: diagonals + 1,
		rx: rx,
		ry: ry,
	}
	m.compare(0, len(x), 0, len(y))
	return rx, ry
}

type myers[T comparable] struct {
	// Inputs to compare.
	x, y []T

	// v-arrays for forwards and backwards iteration respectively. A v-array stores the furthest
	// reaching endpoint of a d-path in diagonal k in v[v0+k]. The endpoints only store the
	// s-coordinate since t = s - k.
	vf, vb []int
	v0     int

	// Result vectors.
	rx, ry []bool
}

// compare finds a minimal edit script from (smin, tmin) to (smax, tmax).
func (m *myers[T]) compare(smin, smax, tmin, tmax int) {
	x, y := m.x, m.y

	// Strip common prefix.
	for smin < smax && tmin < tmax && x[smin] == y[tmin] {
		smin++
		tmin++
	}

	// Strip common suffix.
	for smax > smin && tmax > tmin && x[smax-1] == y[tmax-1] {
		smax--
		tmax--
	}

	switch {
	case smin == smax:
		// s is empty, therefore everything in tmin to tmax is an insertion.
		for t := tmin; t < tmax; t++ {
			m.ry[t] = true
		}
	case tmin == tmax:
		// t is empty, therefore everything in smin to smax is a deletion.
		for s := smin; s < smax; s++ {
			m.rx[s] = true
		}
	default:
		// Use split to divide the input into three pieces:
		//
		//   (1) A, possibly empty, rect (smin, tmin) to (s0, t0)
		//   (2) A, possibly empty, sequence of diagonals (matches) (s0, t0) to (s1, t1)
		//   (3) A, possibly empty, rect (s1, t1) to (smax, tmax)
		s0, s1, t0, t1 := m.split(smin, smax, tmin, tmax)
		m.compare(smin, s0, tmin, t0)
		m.compare(s1, smax, t1, tmax)
	}
}

// split finds the endpoints of a, potentially empty, sequence of diagonals in the middle of a
// minimal path from (smin, tmin) to (smax, tmax).
//
// Important: x[smin:smax] and y[tmin:tmax] must not have a common prefix or a common suffix and
// neither of them may be empty.
func (m *myers[T]) split(smin, smax, tmin, tmax int) (s0, s1, t0, t1 int) {
	x, y := m.x, m.y
	vf, vb := m.vf, m.vb
	v0 := m.v0

	// Bounds for k. Since t = s - k, we an determine the min and max for k using: k = s - t.
	kmin, kmax := smin-tmax, smax-tmin

	// All diagonals are numbered consistently by centering the forwards and backwards searches
	// around different midpoints. This way, no conversion is needed when checking for overlap.
	fmid, bmid := smin-tmin, smax-tmax
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid

	// The length of a minimal diff is odd or even as (N-M) is odd or even (Corollary 1). This
	// decides if overlaps are checked in the forwards or backwards iteration.
	odd := ((smax-smin)-(tmax-tmin))%2 != 0

	// There's no 0-path since the inputs have no common prefix or suffix. Start at d=1 with the
	// trivial result of d=0.
	vf[v0+fmid] = smin
	vb[v0+bmid] = smax

	// Each iteration extends the search by one edit. There is always a d-path with
	// d = ⌈(N + M)/2⌉ (Lemma 3), so the loop terminates.
	for {
		// Forwards iteration.
		//
		// Keep k inside of the edit grid. The diagonals next to the searched range get a sentinel
		// so that the borders are handled by the same logic as every other diagonal.
		if fmin > kmin {
			fmin--
			vf[v0+fmin-1] = math.MinInt
		} else {
			fmin++
		}
		if fmax < kmax {
			fmax++
			vf[v0+fmax+1] = math.MinInt
		} else {
			fmax--
		}
		for k := fmin; k <= fmax; k += 2 {
			k0 := k + v0 // k as an index into vf

			// A furthest reaching d-path on diagonal k is either a furthest reaching (d-1)-path on
			// diagonal k+1 followed by a vertical edge, or one on diagonal k-1 followed by a
			// horizontal edge (Lemma 2). Ties prefer the horizontal edge, i.e. deletions.
			var s int
			if vf[k0-1] < vf[k0+1] {
				s = vf[k0+1]
			} else {
				s = vf[k0-1] + 1
			}
			t := s - k

			// Follow the diagonal as long as possible.
			s0, t0 := s, t
			for s < smax && t < tmax && x[s] == y[t] {
				s++
				t++
			}
			vf[k0] = s

			if odd && bmin <= k && k <= bmax && s >= vb[k0] {
				return s0, s, t0, t
			}
		}

		// Backwards iteration, analogous to the forwards iteration.
		if bmin > kmin {
			bmin--
			vb[v0+bmin-1] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < kmax {
			bmax++
			vb[v0+bmax+1] = math.MaxInt
		} else {
			bmax--
		}
		for k := bmin; k <= bmax; k += 2 {
			k0 := k + v0
			var s int
			if vb[k0-1] < vb[k0+1] {
				s = vb[k0-1]
			} else {
				s = vb[k0+1] - 1
			}
			t := s - k

			s1, t1 := s, t
			for s > smin && t > tmin && x[s-1] == y[t-1] {
				s--
				t--
			}
			vb[k0] = s

			if !odd && fmin <= k && k <= fmax && s <= vf[k0] {
				return s, s1, t, t1
			}
		}
	}
}
