// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package topology addresses the cells of an icosahedral grid of resolution
// N and computes their neighbors as a pure function of the address.
//
// Quad q in [0, 10) owns the lattice points (x, y) with 1 <= x <= N and
// 0 <= y < N of its (N+1)x(N+1) lattice; cell (q, X, Y) is lattice point
// (X+1, Y). The lattice axes run from corner A towards C (x) and towards B
// (y). Lattice points on the A-B and B-D edges belong to neighboring quads.
package topology

import (
	"fmt"

	"github.com/2dChan/s2icogrid/icosahedron"
)

const (
	ringSize = icosahedron.QuadsPerRing
	numQuads = icosahedron.NumQuads
)

// Pole tags a Coord as one of the two pole cells.
type Pole int8

const (
	NoPole Pole = iota
	North
	South
)

// Coord addresses a cell: either the quad cell (Quad, X, Y) or a pole.
type Coord struct {
	Quad int
	X, Y int
	Pole Pole
}

var (
	NorthPole = Coord{Pole: North}
	SouthPole = Coord{Pole: South}
)

// QuadCoord returns the address of cell (x, y) of quad q.
func QuadCoord(q, x, y int) Coord {
	return Coord{Quad: q, X: x, Y: y}
}

func (c Coord) IsPole() bool {
	return c.Pole != NoPole
}

func (c Coord) String() string {
	switch c.Pole {
	case North:
		return "N"
	case South:
		return "S"
	}
	return fmt.Sprintf("q%d(%d,%d)", c.Quad, c.X, c.Y)
}

// Kind is the structural position of a cell, which decides how its
// neighbors are found.
type Kind int

const (
	// Interior cells have all six neighbors in their own quad.
	Interior Kind = iota
	// Edge cells touch a quad boundary and have six neighbors, some of them
	// in adjacent quads.
	Edge
	// Corner cells sit in a corner of the quad next to an icosahedron
	// vertex that another quad or a pole owns. They have six neighbors.
	Corner
	// Pentagon cells are the icosahedron vertices at cell (N-1, 0) of every
	// quad. They have five neighbors.
	Pentagon
	// PoleCell is one of the two poles, with five neighbors.
	PoleCell
)

func (k Kind) String() string {
	switch k {
	case Interior:
		return "interior"
	case Edge:
		return "edge"
	case Corner:
		return "corner"
	case Pentagon:
		return "pentagon"
	case PoleCell:
		return "pole"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Count returns the number of cells of a grid of resolution n.
func Count(n int) int {
	return numQuads*n*n + 2
}

// Validate reports whether c addresses a cell of a grid of resolution n.
func Validate(c Coord, n int) error {
	if n < 1 {
		return fmt.Errorf("topology: resolution %d must be positive", n)
	}
	switch c.Pole {
	case North, South:
		return nil
	case NoPole:
	default:
		return fmt.Errorf("topology: invalid pole tag %d", c.Pole)
	}
	if c.Quad < 0 || c.Quad >= numQuads {
		return fmt.Errorf("topology: quad %d out of range [0 %d)", c.Quad, numQuads)
	}
	if c.X < 0 || c.X >= n || c.Y < 0 || c.Y >= n {
		return fmt.Errorf("topology: cell (%d, %d) out of range [0 %d)", c.X, c.Y, n)
	}
	return nil
}

// Index returns the position of c in canonical order: the north pole,
// quads 0..9 row-major by (X, Y), the south pole. c must be valid.
func Index(c Coord, n int) int {
	switch c.Pole {
	case North:
		return 0
	case South:
		return Count(n) - 1
	}
	return 1 + c.Quad*n*n + c.X*n + c.Y
}

// CoordAt is the inverse of Index.
func CoordAt(i, n int) (Coord, error) {
	if n < 1 {
		return Coord{}, fmt.Errorf("topology: resolution %d must be positive", n)
	}
	cnt := Count(n)
	switch {
	case i < 0 || i >= cnt:
		return Coord{}, fmt.Errorf("CoordAt: index %d out of range [0 %d)", i, cnt)
	case i == 0:
		return NorthPole, nil
	case i == cnt-1:
		return SouthPole, nil
	}
	i--
	q, r := i/(n*n), i%(n*n)
	return QuadCoord(q, r/n, r%n), nil
}

// Classify returns the structural position of c. c must be valid.
func Classify(c Coord, n int) Kind {
	if c.IsPole() {
		return PoleCell
	}
	last := n - 1
	switch {
	case c.X == last && c.Y == 0:
		return Pentagon
	case (c.X == 0 || c.X == last) && (c.Y == 0 || c.Y == last):
		return Corner
	case c.X == 0 || c.Y == 0 || c.X == last || c.Y == last:
		return Edge
	}
	return Interior
}

// IsPentagon reports whether c has five neighbors.
func IsPentagon(c Coord, n int) bool {
	k := Classify(c, n)
	return k == Pentagon || k == PoleCell
}

// IsAlongIcosahedronEdge reports whether c lies on a quad boundary: the
// rows X == 0, Y == 0, X == N-1 or the diagonal X+Y == N-1 between the up
// and down faces. Poles sit on icosahedron vertices and always do.
func IsAlongIcosahedronEdge(c Coord, n int) bool {
	if c.IsPole() {
		return true
	}
	return c.X == 0 || c.Y == 0 || c.X == n-1 || c.X+c.Y == n-1
}
