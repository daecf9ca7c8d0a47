// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"fmt"
	"math"

	"github.com/2dChan/s2icogrid/isea"
)

// Operation names the projection direction a Warning was raised by.
type Operation string

const (
	OpProject   Operation = "project"
	OpUnproject Operation = "unproject"
)

// Warning records a projection whose input fell outside its face by more
// than the overshoot tolerance. The projected value was still used.
type Warning struct {
	Op Operation
	// Quad is the quad whose frame was used, X and Y the lattice point.
	Quad      int
	X, Y      int
	Overshoot float64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s quad %d lattice (%d, %d): overshoot %.3g rad", w.Op, w.Quad, w.X, w.Y, w.Overshoot)
}

// Diagnostics is the soft-failure report of a grid build.
type Diagnostics struct {
	Warnings []Warning
	// MaxOvershoot is the largest overshoot seen, whether or not it was
	// above the tolerance.
	MaxOvershoot float64
	Projections  int
	// NewtonCapOuts counts inverse projections that stopped at
	// isea.MaxIterations; their last estimate was used.
	NewtonCapOuts int
	// DegenerateCircumcenters counts boundary vertices that fell back to
	// the triangle centroid.
	DegenerateCircumcenters int
}

func (d *Diagnostics) record(op Operation, quad, x, y int, rep isea.Report, tol float64) {
	d.Projections++
	if !rep.Converged {
		d.NewtonCapOuts++
	}
	d.MaxOvershoot = math.Max(d.MaxOvershoot, rep.Overshoot)
	if rep.Overshoot > tol {
		d.Warnings = append(d.Warnings, Warning{Op: op, Quad: quad, X: x, Y: y, Overshoot: rep.Overshoot})
	}
}

func (d *Diagnostics) merge(o Diagnostics) {
	d.Warnings = append(d.Warnings, o.Warnings...)
	d.MaxOvershoot = math.Max(d.MaxOvershoot, o.MaxOvershoot)
	d.Projections += o.Projections
	d.NewtonCapOuts += o.NewtonCapOuts
	d.DegenerateCircumcenters += o.DegenerateCircumcenters
}
