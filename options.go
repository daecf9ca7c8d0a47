// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"errors"
	"log/slog"
)

const (
	// DefaultOvershootTolerance is the overshoot, in radians, past a face
	// boundary above which a projection is reported as a warning. Lattice
	// points on seams overshoot by a few ulps; anything larger is a bug.
	DefaultOvershootTolerance = 1e-12

	defaultWorkers = 1
)

type GridOptions struct {
	Workers            int
	OvershootTolerance float64
	Logger             *slog.Logger
}

type GridOption func(*GridOptions) error

// WithWorkers splits the per-cell topology and geometry work over n
// goroutines. The result does not depend on n.
func WithWorkers(n int) GridOption {
	return func(o *GridOptions) error {
		if n < 1 {
			return errors.New("WithWorkers: n must be positive")
		}
		o.Workers = n
		return nil
	}
}

// WithOvershootTolerance sets the overshoot above which projections are
// reported in Diagnostics.Warnings.
func WithOvershootTolerance(tol float64) GridOption {
	return func(o *GridOptions) error {
		if tol < 0 {
			return errors.New("WithOvershootTolerance: tolerance must be non-negative")
		}
		o.OvershootTolerance = tol
		return nil
	}
}

// WithLogger makes NewGrid log a summary of the build and every diagnostic
// warning. A nil logger disables logging.
func WithLogger(l *slog.Logger) GridOption {
	return func(o *GridOptions) error {
		o.Logger = l
		return nil
	}
}
