// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"github.com/2dChan/s2icogrid/icosahedron"
	"github.com/2dChan/s2icogrid/isea"
	"github.com/golang/geo/r2"
)

// referenceQuad is the planar (n+1)x(n+1) lattice of one quad. Every face
// projects to the same planar triangle, so the lattice is built once and
// unprojected through each quad's own frames.
//
// Lattice point (x, y) with x+y <= n lies in the up face at
// A + x(C-A)/n + y(B-A)/n. The down face reuses the same subdivision rotated
// by 180 degrees about the rhombus center: point (x, y) with x+y > n holds
// the up point (n-x, n-y), which the down frame maps into the down face.
type referenceQuad struct {
	n      int
	points []r2.Point
}

func newReferenceQuad(ico *icosahedron.Icosahedron, n int, tol float64) (*referenceQuad, Diagnostics) {
	var diag Diagnostics
	quad := ico.Quads[0]
	proj := isea.New(quad.Up)

	corner := func(c icosahedron.Corner, x, y int) r2.Point {
		p, rep := proj.Project(ico.Vertices[quad.Corner(c)])
		diag.record(OpProject, quad.ID, x, y, rep, tol)
		return p
	}
	a := corner(icosahedron.CornerA, 0, 0)
	b := corner(icosahedron.CornerB, 0, n)
	c := corner(icosahedron.CornerC, n, 0)

	rq := &referenceQuad{
		n:      n,
		points: make([]r2.Point, (n+1)*(n+1)),
	}
	ex := c.Sub(a).Mul(1 / float64(n))
	ey := b.Sub(a).Mul(1 / float64(n))
	for x := 0; x <= n; x++ {
		for y := 0; x+y <= n; y++ {
			p := a.Add(ex.Mul(float64(x))).Add(ey.Mul(float64(y)))
			rq.points[rq.offset(x, y)] = p
			if x+y < n {
				rq.points[rq.offset(n-x, n-y)] = p
			}
		}
	}

	return rq, diag
}

func (rq *referenceQuad) offset(x, y int) int {
	return x*(rq.n+1) + y
}

// At returns the planar point stored at lattice (x, y).
func (rq *referenceQuad) At(x, y int) r2.Point {
	if x < 0 || x > rq.n || y < 0 || y > rq.n {
		panic("At: lattice point out of range")
	}
	return rq.points[rq.offset(x, y)]
}

// IsUp reports whether lattice (x, y) belongs to the up face. The B-C
// diagonal is taken from the up face.
func (rq *referenceQuad) IsUp(x, y int) bool {
	return x+y <= rq.n
}
