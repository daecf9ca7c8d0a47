// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package icosahedron builds the regular icosahedron that seeds the grid:
// its 12 vertices, 20 faces, the 10 quads pairing them and a tangent frame
// per face.
package icosahedron

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	NumVertices = 12
	NumFaces    = 20
	NumQuads    = 10
	// QuadsPerRing is the number of quads around each pole.
	QuadsPerRing = 5

	NorthPole = 0
	SouthPole = NumVertices - 1
)

// Corner names a quad vertex. A and D are the acute corners, B and C the
// obtuse ones; the quad is split along B-C into the up face (A,B,C) and the
// down face (D,C,B).
type Corner int

const (
	CornerA Corner = iota
	CornerB
	CornerC
	CornerD
)

// Frame is an orthonormal tangent frame on a face. Center is the normalized
// face centroid, V points from the center towards the face's first corner
// and U = V x Center completes the right-handed triple (Center, U, V).
type Frame struct {
	Center r3.Vector
	U      r3.Vector
	V      r3.Vector
}

// NewFrame returns the frame of the face (a, b, c), which must be wound CCW
// when looking out of the sphere.
func NewFrame(a, b, c s2.Point) Frame {
	n := a.Add(b.Vector).Add(c.Vector).Normalize()
	e := c.Sub(b.Vector)
	u := e.Sub(n.Mul(e.Dot(n))).Normalize()
	return Frame{Center: n, U: u, V: n.Cross(u)}
}

// Tangent returns the components of p along U and V.
func (f Frame) Tangent(p r3.Vector) (float64, float64) {
	return p.Dot(f.U), p.Dot(f.V)
}

// Quad is a rhombus made of two faces that share the B-C edge.
type Quad struct {
	ID      int
	Corners [4]int
	Up      Frame
	Down    Frame
}

// Corner returns the vertex index of the given corner.
func (q Quad) Corner(c Corner) int {
	return q.Corners[c]
}

type Icosahedron struct {
	Vertices s2.PointVector
	// NOTE: Sort in CCW per face(look out of sphere)
	Faces [NumFaces][3]int
	Quads [NumQuads]Quad
}

// New returns the icosahedron with a vertex on each pole of the y axis.
// Quad i in [0, 5) spans the north pole, upper ring vertices i and i+1 and
// lower ring vertex i; quad 5+i spans upper ring vertex i+1, lower ring
// vertices i and i+1 and the south pole. Faces 2q and 2q+1 are the up and
// down faces of quad q.
func New() *Icosahedron {
	lat := s1.Angle(math.Atan(0.5))
	ico := &Icosahedron{
		Vertices: make(s2.PointVector, NumVertices),
	}

	ico.Vertices[NorthPole] = s2.PointFromCoords(0, 1, 0)
	ico.Vertices[SouthPole] = s2.PointFromCoords(0, -1, 0)
	for i := range QuadsPerRing {
		lng := s1.Angle(i) * 72 * s1.Degree
		ico.Vertices[upper(i)] = pointFromLatLng(lat, lng)
		ico.Vertices[lower(i)] = pointFromLatLng(-lat, lng+36*s1.Degree)
	}

	for i := range QuadsPerRing {
		ico.Quads[i].Corners = [4]int{NorthPole, upper(i), upper(i + 1), lower(i)}
		ico.Quads[QuadsPerRing+i].Corners = [4]int{upper(i + 1), lower(i), lower(i + 1), SouthPole}
	}

	for q := range ico.Quads {
		quad := &ico.Quads[q]
		quad.ID = q
		a, b, c, d := quad.Corners[CornerA], quad.Corners[CornerB], quad.Corners[CornerC], quad.Corners[CornerD]
		ico.Faces[2*q] = [3]int{a, b, c}
		ico.Faces[2*q+1] = [3]int{d, c, b}
		quad.Up = NewFrame(ico.Vertices[a], ico.Vertices[b], ico.Vertices[c])
		quad.Down = NewFrame(ico.Vertices[d], ico.Vertices[c], ico.Vertices[b])
	}

	return ico
}

// FaceVertices returns the corners of face f in CCW order.
func (ico *Icosahedron) FaceVertices(f int) (s2.Point, s2.Point, s2.Point) {
	if f < 0 || f >= NumFaces {
		panic("FaceVertices: face out of range")
	}
	t := ico.Faces[f]
	return ico.Vertices[t[0]], ico.Vertices[t[1]], ico.Vertices[t[2]]
}

// FaceFrame returns the frame of face f.
func (ico *Icosahedron) FaceFrame(f int) Frame {
	if f < 0 || f >= NumFaces {
		panic("FaceFrame: face out of range")
	}
	q := ico.Quads[f/2]
	if f%2 == 0 {
		return q.Up
	}
	return q.Down
}

func upper(i int) int {
	return 1 + i%QuadsPerRing
}

func lower(i int) int {
	return 1 + QuadsPerRing + i%QuadsPerRing
}

// pointFromLatLng places lat/lng on the sphere with y as the polar axis and
// longitude measured from +z towards +x.
func pointFromLatLng(lat, lng s1.Angle) s2.Point {
	cl := math.Cos(lat.Radians())
	return s2.PointFromCoords(
		cl*math.Sin(lng.Radians()),
		math.Sin(lat.Radians()),
		cl*math.Cos(lng.Radians()),
	)
}
