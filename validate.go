// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"errors"
	"fmt"
	"slices"

	"github.com/2dChan/s2icogrid/s2delaunay"
	"github.com/2dChan/s2icogrid/topology"
)

var (
	ErrCellCount     = errors.New("s2icogrid: cell count mismatch")
	ErrDegree        = errors.New("s2icogrid: invalid cell degree")
	ErrAsymmetric    = errors.New("s2icogrid: neighbor relation is not symmetric")
	ErrPentagonCount = errors.New("s2icogrid: expected 12 pentagons")
)

// Validate checks the structural invariants of the grid: the cell count,
// the degree of every cell, the number of pentagons and the symmetry of the
// neighbor relation. The returned error wraps one of the Err* sentinels.
func (g *Grid) Validate() error {
	if want := topology.Count(g.n); len(g.centers) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrCellCount, len(g.centers), want)
	}

	pentagons := 0
	for i := range len(g.centers) {
		c := Cell{idx: i, g: g}
		deg := c.NumNeighbors()
		switch deg {
		case 5:
			pentagons++
		case 6:
		default:
			return fmt.Errorf("%w: cell %d has %d neighbors", ErrDegree, i, deg)
		}
		for _, nb := range c.NeighborIndices() {
			if nb < 0 || nb >= len(g.centers) || nb == i {
				return fmt.Errorf("%w: cell %d has neighbor %d", ErrDegree, i, nb)
			}
			back := Cell{idx: nb, g: g}
			if !slices.Contains(back.NeighborIndices(), i) {
				return fmt.Errorf("%w: %d lists %d but not the reverse", ErrAsymmetric, i, nb)
			}
		}
	}
	if pentagons != 12 {
		return fmt.Errorf("%w: got %d", ErrPentagonCount, pentagons)
	}
	return nil
}

// DelaunayMismatches triangulates the cell centers independently and
// returns the number of cells whose neighbor ring differs from it, up to
// rotation.
func (g *Grid) DelaunayMismatches() (int, error) {
	dt, err := s2delaunay.NewTriangulation(g.centers)
	if err != nil {
		return 0, err
	}
	mismatches := 0
	for i := range len(g.centers) {
		c := Cell{idx: i, g: g}
		if !cyclicEqual(c.NeighborIndices(), dt.VertexNeighbors(i)) {
			mismatches++
		}
	}
	return mismatches, nil
}

func cyclicEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	n := len(a)
	if n == 0 {
		return true
	}
	for i := range n {
		if b[0] != a[i] {
			continue
		}

		equal := true
		for j := range n {
			if a[(i+j)%n] != b[j] {
				equal = false
				break
			}
		}
		if equal {
			return true
		}
	}

	return false
}
