// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// buildGeometry fills the boundary vertices, fan triangles and areas of
// cells [lo, hi). It only reads centers and neighbors, and only writes the
// slots of its own cells. It returns the number of degenerate
// circumcenters.
func (g *Grid) buildGeometry(lo, hi int) int {
	degenerate := 0
	for i := lo; i < hi; i++ {
		start, end := g.cellOffsets[i], g.cellOffsets[i+1]
		k := end - start
		center := g.centers[i]
		for j := range k {
			a := g.centers[g.cellNeighbors[start+j]]
			b := g.centers[g.cellNeighbors[start+(j+1)%k]]
			v, ok := triangleCircumcenter(center, a, b)
			if !ok {
				degenerate++
			}
			g.vertices[start+j] = v
		}

		area := 0.0
		t := start - 2*i
		for j := 1; j < k-1; j++ {
			g.triangles[t] = [3]int{start, start + j, start + j + 1}
			area += s2.PointArea(g.vertices[start], g.vertices[start+j], g.vertices[start+j+1])
			t++
		}
		g.areas[i] = area
	}
	return degenerate
}

// triangleCircumcenter returns the point of the sphere above the
// circumcenter of the planar triangle (a, b, c). For a degenerate triangle
// it falls back to the centroid and reports false.
func triangleCircumcenter(a, b, c s2.Point) (s2.Point, bool) {
	ba := b.Sub(a.Vector)
	ca := c.Sub(a.Vector)
	u := ba.Cross(ca)
	u2 := u.Norm2()
	if u2 == 0 {
		return s2.Point{Vector: centroid(a, b, c)}, false
	}

	offset := ca.Cross(u).Mul(ba.Norm2()).Add(u.Cross(ba).Mul(ca.Norm2())).Mul(1 / (2 * u2))
	return s2.Point{Vector: a.Add(offset).Normalize()}, true
}

func centroid(a, b, c s2.Point) r3.Vector {
	v := a.Add(b.Vector).Add(c.Vector)
	if v.Norm2() == 0 {
		return a.Vector
	}
	return v.Normalize()
}
