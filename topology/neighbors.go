// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package topology

// directions lists the six lattice steps in CCW order when looking out of
// the sphere. The x axis points from A to C and the y axis from A to B, so
// (1, -1) runs parallel to the B-C diagonal.
var directions = [6][2]int{
	{1, -1},
	{0, -1},
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 0},
}

// Neighbors returns the neighbors of c in CCW order when looking out of the
// sphere. Pentagons and poles have five neighbors, every other cell six.
// c must be valid.
func Neighbors(c Coord, n int) []Coord {
	switch Classify(c, n) {
	case PoleCell:
		return poleNeighbors(c, n)
	case Interior:
		out := make([]Coord, 0, len(directions))
		for _, d := range directions {
			out = append(out, QuadCoord(c.Quad, c.X+d[0], c.Y+d[1]))
		}
		return out
	case Pentagon:
		// The step across the vertex, between the two quads that do not
		// meet here, does not exist.
		return latticeNeighbors(c, n, directions[1:])
	}
	return latticeNeighbors(c, n, directions[:])
}

func poleNeighbors(c Coord, n int) []Coord {
	out := make([]Coord, 0, ringSize)
	if c.Pole == North {
		for q := range ringSize {
			out = append(out, QuadCoord(q, 0, 0))
		}
		return out
	}
	for q := ringSize - 1; q >= 0; q-- {
		out = append(out, QuadCoord(ringSize+q, n-1, n-1))
	}
	return out
}

func latticeNeighbors(c Coord, n int, dirs [][2]int) []Coord {
	out := make([]Coord, 0, len(dirs))
	x, y := c.X+1, c.Y
	for _, d := range dirs {
		out = append(out, resolve(c.Quad, x+d[0], y+d[1], n))
	}
	return out
}

// resolve maps lattice point (x, y) of quad q, at most one step outside the
// quad's owned points, to the cell that owns it.
//
// Upper quads (0..4) fan around the north pole at corner A: quad i's A-B
// edge is quad i-1's A-C edge. Lower quads (5..9) fan around the south pole
// at corner D: quad j's B-D edge is quad j-1's C-D edge. Upper quad i's C-D
// edge is lower quad i's A-B edge and upper quad i's B-D edge is lower quad
// i-1's A-C edge; across those two seams the lattices are translations of
// each other.
func resolve(q, x, y, n int) Coord {
	for range 4 {
		i := q % ringSize
		if q < ringSize {
			switch {
			case y < 0:
				q, x, y = next(i), -y, x+y
			case x > n:
				q, x = ringSize+i, x-n
			case x == 0 && y == 0:
				return NorthPole
			case x == 0:
				q, x, y = prev(i), y, 0
			case y == n:
				q, y = ringSize+prev(i), 0
			default:
				return QuadCoord(q, x-1, y)
			}
			continue
		}

		switch {
		case y < 0:
			q, y = next(i), y+n
		case x > n:
			q, x, y = ringSize+next(i), x+y-n, 2*n-x
		case x == n && y == n:
			return SouthPole
		case x == 0:
			q, x = i, n
		case y == n:
			q, x, y = ringSize+prev(i), n, x
		default:
			return QuadCoord(q, x-1, y)
		}
	}
	panic("resolve: lattice point not reachable from quad")
}

func next(i int) int {
	return (i + 1) % ringSize
}

func prev(i int) int {
	return (i + ringSize - 1) % ringSize
}
