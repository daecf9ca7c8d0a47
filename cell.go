// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"fmt"
	"slices"

	"github.com/2dChan/s2icogrid/topology"
	"github.com/golang/geo/s2"
)

// Cell is a view structure for accessing a cell of a Grid.
type Cell struct {
	idx int
	g   *Grid
}

// Index returns the canonical index of the cell.
func (c Cell) Index() int {
	return c.idx
}

// Coord returns the topological address of the cell.
func (c Cell) Coord() topology.Coord {
	coord, _ := topology.CoordAt(c.idx, c.g.n)
	return coord
}

// Center returns the generator point of the cell. It is not the centroid of
// the boundary polygon.
func (c Cell) Center() s2.Point {
	return c.g.centers[c.idx]
}

// LatLng returns the latitude and longitude of the center with y as the
// polar axis: lat = asin(y), lng = atan2(x, z). It is not the s2 (z up)
// convention, so s2.PointFromLatLng does not invert it.
func (c Cell) LatLng() s2.LatLng {
	return c.g.latLngs[c.idx]
}

func (c Cell) IsPole() bool {
	return c.Coord().IsPole()
}

// IsPentagon reports whether the cell has five neighbors. This holds for
// the two poles and the ten quad corners on icosahedron vertices.
func (c Cell) IsPentagon() bool {
	return c.NumNeighbors() == 5
}

// IsAlongIcosahedronEdge reports whether the cell lies on a quad boundary.
func (c Cell) IsAlongIcosahedronEdge() bool {
	return topology.IsAlongIcosahedronEdge(c.Coord(), c.g.n)
}

// NumNeighbors returns the number of neighboring cells.
// This equals the number of vertices.
func (c Cell) NumNeighbors() int {
	return c.g.cellOffsets[c.idx+1] - c.g.cellOffsets[c.idx]
}

// NeighborIndices returns the canonical indices of the neighboring cells,
// sorted in counter-clockwise order when looking out of the sphere.
// The returned slice must not be modified.
func (c Cell) NeighborIndices() []int {
	return c.g.cellNeighbors[c.g.cellOffsets[c.idx]:c.g.cellOffsets[c.idx+1]]
}

// Neighbor returns the neighboring cell at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Neighbor(i int) (Cell, error) {
	start := c.g.cellOffsets[c.idx]
	end := c.g.cellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return Cell{}, fmt.Errorf("Neighbor: index %d out of range [0 %d)", i, end-start)
	}
	return Cell{idx: c.g.cellNeighbors[start+i], g: c.g}, nil
}

// NumVertices returns the number of boundary vertices.
// This equals the number of neighbors.
func (c Cell) NumVertices() int {
	return c.NumNeighbors()
}

// Vertices returns the boundary of the cell as a loop of unit vectors in
// counter-clockwise order when looking out of the sphere. Vertex i is the
// circumcenter of the cell center and neighbors i and i+1.
// The returned slice must not be modified.
func (c Cell) Vertices() s2.PointVector {
	return c.g.vertices[c.g.cellOffsets[c.idx]:c.g.cellOffsets[c.idx+1]]
}

// Vertex returns the vertex at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Vertex(i int) (s2.Point, error) {
	start := c.g.cellOffsets[c.idx]
	end := c.g.cellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return s2.Point{}, fmt.Errorf("Vertex: index %d out of range [0 %d)", i, end-start)
	}
	return c.g.vertices[start+i], nil
}

// NumTriangles returns the number of triangles in the fan triangulation of
// the boundary.
func (c Cell) NumTriangles() int {
	return c.NumVertices() - 2
}

// Triangle returns triangle i of the fan triangulation of the boundary
// rooted at vertex 0.
// It returns an error if the index is out of range.
func (c Cell) Triangle(i int) ([3]s2.Point, error) {
	if i < 0 || i >= c.NumTriangles() {
		return [3]s2.Point{}, fmt.Errorf("Triangle: index %d out of range [0 %d)", i, c.NumTriangles())
	}
	t := c.g.triangles[c.g.cellOffsets[c.idx]-2*c.idx+i]
	return [3]s2.Point{c.g.vertices[t[0]], c.g.vertices[t[1]], c.g.vertices[t[2]]}, nil
}

// Area returns the area of the cell in steradians.
func (c Cell) Area() float64 {
	return c.g.areas[c.idx]
}

// Loop returns the boundary as an s2.Loop.
func (c Cell) Loop() *s2.Loop {
	return s2.LoopFromPoints(slices.Clone(c.Vertices()))
}
