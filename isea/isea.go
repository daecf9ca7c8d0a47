// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package isea implements Snyder's Icosahedral Equal-Area projection of a
// single icosahedron face onto its tangent plane, and its inverse.
//
// Planar coordinates are expressed in the face frame: the x axis follows
// Frame.U and the y axis follows Frame.V, so the face's first corner lands
// on the positive y axis and the other two corners at azimuths 120 and 240
// degrees.
package isea

import (
	"math"

	"github.com/2dChan/s2icogrid/icosahedron"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

const (
	// MaxIterations caps the Newton-Raphson solve in Unproject.
	MaxIterations = 8
	// Tolerance is the Newton-Raphson step size, in radians, below which
	// the azimuth is considered converged.
	Tolerance = 1e-9

	sector = 2 * math.Pi / 3
)

var (
	// FaceAngle is the spherical distance g from a face center to its vertices.
	FaceAngle = math.Atan(3 - math.Sqrt(5))
	// VertexAngle is the angle G between a face edge and the arc from the
	// vertex to the face center.
	VertexAngle = 36 * math.Pi / 180
	// EdgeAngle is the angle theta of the planar triangle between the edge
	// and the line from the vertex to the face center.
	EdgeAngle = 30 * math.Pi / 180

	tanG     = math.Tan(FaceAngle)
	cosG     = math.Cos(FaceAngle)
	sinVG    = math.Sin(VertexAngle)
	cosVG    = math.Cos(VertexAngle)
	cotTheta = 1 / math.Tan(EdgeAngle)

	// RadiusRatio is R', the radius of the sphere whose planar faces have
	// the area of the unit sphere's spherical faces (pi/5).
	RadiusRatio = math.Sqrt(math.Pi/5/(3*math.Sqrt(3)/4)) / tanG
)

// Report describes the numerical state of a single projection.
type Report struct {
	// Overshoot is how far, in radians, the point lies beyond the face
	// boundary. Zero for points inside the face.
	Overshoot float64
	// Iterations is the number of Newton-Raphson steps taken by Unproject.
	Iterations int
	// Converged is false when Unproject stopped at MaxIterations.
	Converged bool
}

// Projection maps one face of the icosahedron to the plane.
type Projection struct {
	frame icosahedron.Frame
}

func New(frame icosahedron.Frame) Projection {
	return Projection{frame: frame}
}

// Frame returns the face frame of the projection.
func (p Projection) Frame() icosahedron.Frame {
	return p.frame
}

// VertexRadius returns the planar distance from the face center to a
// projected vertex.
func VertexRadius() float64 {
	return RadiusRatio * tanG
}

// Project maps pt to the face plane. Points outside the face are not
// rejected: the formulas are extrapolated and the Report carries the
// overshoot.
func (p Projection) Project(pt s2.Point) (r2.Point, Report) {
	c := clamp(pt.Dot(p.frame.Center), -1, 1)
	z := math.Acos(c)
	tu, tv := p.frame.Tangent(pt.Sub(p.frame.Center.Mul(c)))
	az, k := fold(math.Atan2(tu, tv))

	q := edgeDistance(az)
	rep := Report{Overshoot: math.Max(0, z-math.Min(FaceAngle, q)), Converged: true}

	ag := az + VertexAngle + vertexAzimuthAngle(az) - math.Pi
	azp := math.Atan2(2*ag, RadiusRatio*RadiusRatio*tanG*tanG-2*ag*cotTheta)
	rho := 2 * RadiusRatio * scale(azp, q) * math.Sin(z/2)

	azp += float64(k) * sector
	return r2.Point{X: rho * math.Sin(azp), Y: rho * math.Cos(azp)}, rep
}

// Unproject maps a planar point back to the sphere. The azimuth on the
// sphere has no closed form, it is found by Newton-Raphson seeded at the
// planar azimuth. If the solve does not converge within MaxIterations the
// last estimate is used.
func (p Projection) Unproject(pt r2.Point) (s2.Point, Report) {
	rho := pt.Norm()
	if rho == 0 {
		return s2.Point{Vector: p.frame.Center}, Report{Converged: true}
	}

	azp, k := fold(math.Atan2(pt.X, pt.Y))
	ag := RadiusRatio * RadiusRatio * tanG * tanG * math.Sin(azp) /
		(2 * (math.Cos(azp) + cotTheta*math.Sin(azp)))

	rep := Report{}
	az := azp
	for rep.Iterations < MaxIterations {
		rep.Iterations++
		w := azimuthCosine(az)
		f := math.Pi + ag - VertexAngle - math.Acos(w) - az
		df := (math.Cos(az)*sinVG*cosG+math.Sin(az)*cosVG)/math.Sqrt(1-w*w) - 1
		step := f / df
		az -= step
		if math.Abs(step) < Tolerance {
			rep.Converged = true
			break
		}
	}

	q := edgeDistance(az)
	s := rho / (2 * RadiusRatio * scale(azp, q))
	z := 2 * math.Asin(clamp(s, -1, 1))
	rep.Overshoot = math.Max(0, z-math.Min(FaceAngle, q))

	az += float64(k) * sector
	dir := p.frame.U.Mul(math.Sin(az)).Add(p.frame.V.Mul(math.Cos(az)))
	v := p.frame.Center.Mul(math.Cos(z)).Add(dir.Mul(math.Sin(z)))
	return s2.Point{Vector: v.Normalize()}, rep
}

// fold reduces an azimuth to the [0, 120] degree sector that spans one face
// edge and returns the number of sectors removed.
func fold(az float64) (float64, int) {
	if az < 0 {
		az += 2 * math.Pi
	}
	k := 0
	for k < 2 && az > sector {
		az -= sector
		k++
	}
	return az, k
}

// edgeDistance returns q, the spherical distance from the face center to
// the face edge along azimuth az.
func edgeDistance(az float64) float64 {
	return math.Atan2(tanG, math.Cos(az)+math.Sin(az)*cotTheta)
}

// vertexAzimuthAngle returns H, the angle at the edge point of the
// spherical triangle (center, vertex, point on edge).
func vertexAzimuthAngle(az float64) float64 {
	return math.Acos(azimuthCosine(az))
}

func azimuthCosine(az float64) float64 {
	return clamp(math.Sin(az)*sinVG*cosG-math.Cos(az)*cosVG, -1, 1)
}

// scale returns the factor f that stretches the arc to the face edge along
// the sphere azimuth with edge distance q onto the planar edge along azp.
func scale(azp, q float64) float64 {
	d := RadiusRatio * tanG / (math.Cos(azp) + math.Sin(azp)*cotTheta)
	return d / (2 * RadiusRatio * math.Sin(q/2))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

