// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2icogrid

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/2dChan/s2icogrid/icosahedron"
	"github.com/2dChan/s2icogrid/topology"
	"github.com/golang/geo/s2"
	"github.com/google/go-cmp/cmp"
)

var resolutions = []int{1, 2, 3, 4, 8}

// GridOptions

func TestWithWorkers(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"one", 1, false},
		{"many", 8, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &GridOptions{Workers: defaultWorkers}
			err := WithWorkers(tt.n)(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithWorkers(%v) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
			if err == nil && opts.Workers != tt.n {
				t.Errorf("WithWorkers(%v) opts.Workers = %v, want %v", tt.n, opts.Workers, tt.n)
			}
		})
	}
}

func TestWithOvershootTolerance(t *testing.T) {
	tests := []struct {
		name    string
		tol     float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 1e-6, false},
		{"negative", -1e-12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &GridOptions{OvershootTolerance: DefaultOvershootTolerance}
			err := WithOvershootTolerance(tt.tol)(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithOvershootTolerance(%v) error = %v, wantErr %v", tt.tol, err, tt.wantErr)
			}
			if err == nil && opts.OvershootTolerance != tt.tol {
				t.Errorf("WithOvershootTolerance(%v) opts.OvershootTolerance = %v, want %v",
					tt.tol, opts.OvershootTolerance, tt.tol)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := NewGrid(2, WithLogger(logger)); err != nil {
		t.Fatalf("NewGrid(2, WithLogger(...)) error = %v, want nil", err)
	}
	out := buf.String()
	for _, want := range []string{"grid built", "resolution=2", "cells=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output = %q, want it to contain %q", out, want)
		}
	}
}

// Grid

func TestNewGrid_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		setters []GridOption
	}{
		{"resolution zero", 0, nil},
		{"resolution negative", -3, nil},
		{"workers zero", 2, []GridOption{WithWorkers(0)}},
		{"tolerance negative", 2, []GridOption{WithOvershootTolerance(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.n, tt.setters...)
			if err == nil {
				t.Errorf("NewGrid(%d, ...) error = nil, want non-nil", tt.n)
			}
			if g != nil {
				t.Errorf("NewGrid(%d, ...) = %v, want nil", tt.n, g)
			}
		})
	}
}

func TestNewGrid_Invariants(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 32} {
		t.Run(fmt.Sprintf("N%d", n), func(t *testing.T) {
			g := mustNewGrid(t, n)

			if got, want := g.NumCells(), 10*n*n+2; got != want {
				t.Errorf("g.NumCells() = %v, want %v", got, want)
			}
			if got := g.Resolution(); got != n {
				t.Errorf("g.Resolution() = %v, want %v", got, n)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("g.Validate() error = %v, want nil", err)
			}

			pentagons := 0
			for _, c := range g.Cells() {
				if c.IsPentagon() {
					pentagons++
				}
			}
			if pentagons != 12 {
				t.Errorf("pentagon count = %v, want 12", pentagons)
			}

			d := g.Diagnostics()
			if len(d.Warnings) != 0 {
				t.Errorf("g.Diagnostics().Warnings = %v, want none", d.Warnings)
			}
			if d.NewtonCapOuts != 0 {
				t.Errorf("g.Diagnostics().NewtonCapOuts = %v, want 0", d.NewtonCapOuts)
			}
			if d.DegenerateCircumcenters != 0 {
				t.Errorf("g.Diagnostics().DegenerateCircumcenters = %v, want 0", d.DegenerateCircumcenters)
			}
			if want := 3 + 10*n*n + 2; d.Projections != want {
				t.Errorf("g.Diagnostics().Projections = %v, want %v", d.Projections, want)
			}
		})
	}
}

func TestNewGrid_OnSphere(t *testing.T) {
	g := mustNewGrid(t, 8)

	for i, c := range g.Cells() {
		if n := c.Center().Norm(); math.Abs(n-1) > 1e-12 {
			t.Errorf("cell %d center norm = %v, want ~1.0", i, n)
		}
		for j, v := range c.Vertices() {
			if n := v.Norm(); math.Abs(n-1) > 1e-12 {
				t.Errorf("cell %d vertex %d norm = %v, want ~1.0", i, j, n)
			}
		}
	}
}

func TestNewGrid_Poles(t *testing.T) {
	for _, n := range resolutions {
		t.Run(fmt.Sprintf("N%d", n), func(t *testing.T) {
			g := mustNewGrid(t, n)
			ico := icosahedron.New()

			north, err := g.CellAt(topology.NorthPole)
			if err != nil {
				t.Fatalf("g.CellAt(N) error = %v, want nil", err)
			}
			south, err := g.CellAt(topology.SouthPole)
			if err != nil {
				t.Fatalf("g.CellAt(S) error = %v, want nil", err)
			}
			if north.Index() != 0 || south.Index() != g.NumCells()-1 {
				t.Errorf("pole indices = %d, %d, want 0, %d", north.Index(), south.Index(), g.NumCells()-1)
			}
			if d := north.Center().Distance(ico.Vertices[icosahedron.NorthPole]); d > 1e-10 {
				t.Errorf("north pole center off by %v rad", d)
			}
			if d := south.Center().Distance(ico.Vertices[icosahedron.SouthPole]); d > 1e-10 {
				t.Errorf("south pole center off by %v rad", d)
			}
			if !north.IsPole() || !south.IsPole() {
				t.Errorf("IsPole() = %v, %v, want true, true", north.IsPole(), south.IsPole())
			}
		})
	}
}

func TestNewGrid_Resolution1(t *testing.T) {
	g := mustNewGrid(t, 1)
	ico := icosahedron.New()

	seen := make(map[int]bool)
	for i, c := range g.Cells() {
		best, bestDist := -1, math.Inf(1)
		for v, p := range ico.Vertices {
			if d := float64(c.Center().Distance(p)); d < bestDist {
				best, bestDist = v, d
			}
		}
		if bestDist > 1e-10 {
			t.Errorf("cell %d center %v is %v rad from the nearest icosahedron vertex", i, c.Center(), bestDist)
		}
		if seen[best] {
			t.Errorf("cell %d center duplicates icosahedron vertex %d", i, best)
		}
		seen[best] = true

		if got, want := c.Area(), 4*math.Pi/12; math.Abs(got-want) > 1e-9 {
			t.Errorf("cell %d area = %v, want %v", i, got, want)
		}
	}
}

func TestNewGrid_Resolution2(t *testing.T) {
	g := mustNewGrid(t, 2)

	hexagons, pentagons := 0, 0
	for _, c := range g.Cells() {
		switch c.NumNeighbors() {
		case 5:
			pentagons++
		case 6:
			hexagons++
		}
	}
	if pentagons != 12 || hexagons != 30 {
		t.Errorf("pentagons, hexagons = %d, %d, want 12, 30", pentagons, hexagons)
	}
}

func TestNewGrid_Area(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 32} {
		t.Run(fmt.Sprintf("N%d", n), func(t *testing.T) {
			g := mustNewGrid(t, n)

			if got := g.TotalArea(); math.Abs(got-4*math.Pi) > 1e-10 {
				t.Errorf("g.TotalArea() = %v, want %v", got, 4*math.Pi)
			}
			mean := 4 * math.Pi / float64(g.NumCells())
			for i, c := range g.Cells() {
				if a := c.Area(); a < 0.75*mean || a > 1.1*mean {
					t.Errorf("cell %d area = %v, want within [%v, %v]", i, a, 0.75*mean, 1.1*mean)
				}
			}
		})
	}
}

func TestNewGrid_LatLng(t *testing.T) {
	g := mustNewGrid(t, 8)

	for i, c := range g.Cells() {
		ll := c.LatLng()
		if ll.Lat.Radians() < -math.Pi/2 || ll.Lat.Radians() > math.Pi/2 {
			t.Errorf("cell %d lat = %v, want within [-90, 90]", i, ll.Lat.Degrees())
		}
		if ll.Lng.Radians() <= -math.Pi || ll.Lng.Radians() > math.Pi {
			t.Errorf("cell %d lng = %v, want within (-180, 180]", i, ll.Lng.Degrees())
		}
	}

	north, _ := g.Cell(0)
	if got := north.LatLng().Lat.Degrees(); math.Abs(got-90) > 1e-9 {
		t.Errorf("north pole lat = %v, want 90", got)
	}
	south, _ := g.Cell(g.NumCells() - 1)
	if got := south.LatLng().Lat.Degrees(); math.Abs(got+90) > 1e-9 {
		t.Errorf("south pole lat = %v, want -90", got)
	}
}

func TestNewGrid_VerifyCCW(t *testing.T) {
	g := mustNewGrid(t, 8)

	for i, cell := range g.Cells() {
		center := cell.Center()
		for j := range cell.NumVertices() {
			c, err := cell.Vertex(j)
			if err != nil {
				t.Fatalf("cell.Vertex(%d) error = %v, want nil", j, err)
			}
			n, err := cell.Vertex((j + 1) % cell.NumVertices())
			if err != nil {
				t.Fatalf("cell.Vertex(%d) error = %v, want nil", (j+1)%cell.NumVertices(), err)
			}
			if angle := computeAngleCCW(c, n, center); angle <= 0 || angle >= math.Pi {
				t.Errorf("g.Cell(%d) Vertices %d,%d not sorted in CCW", i, j, (j+1)%cell.NumVertices())
			}
		}

		for j := range cell.NumNeighbors() {
			nb1, err := cell.Neighbor(j)
			if err != nil {
				t.Fatalf("cell.Neighbor(%d) error = %v, want nil", j, err)
			}
			nb2, err := cell.Neighbor((j + 1) % cell.NumNeighbors())
			if err != nil {
				t.Fatalf("cell.Neighbor(%d) error = %v, want nil", (j+1)%cell.NumNeighbors(), err)
			}
			if angle := computeAngleCCW(nb1.Center(), nb2.Center(), center); angle <= 0 || angle >= math.Pi {
				t.Errorf("g.Cell(%d) Neighbors %d,%d not sorted in CCW", i, j, (j+1)%cell.NumNeighbors())
			}
		}
	}
}

func TestNewGrid_VerticesEquidistant(t *testing.T) {
	g := mustNewGrid(t, 4)

	for i, cell := range g.Cells() {
		k := cell.NumNeighbors()
		nbs := cell.NeighborIndices()
		for j, v := range cell.Vertices() {
			a, _ := g.Cell(nbs[j])
			b, _ := g.Cell(nbs[(j+1)%k])
			d0 := v.Distance(cell.Center())
			d1 := v.Distance(a.Center())
			d2 := v.Distance(b.Center())
			if math.Abs(float64(d0-d1)) > 1e-12 || math.Abs(float64(d0-d2)) > 1e-12 {
				t.Errorf("cell %d vertex %d distances = %v, %v, %v, want equal", i, j, d0, d1, d2)
			}
		}
	}
}

func TestNewGrid_SharedEdges(t *testing.T) {
	g := mustNewGrid(t, 4)

	contains := func(vs s2.PointVector, p s2.Point) bool {
		for _, v := range vs {
			if v.Distance(p) < 1e-10 {
				return true
			}
		}
		return false
	}

	for i, cell := range g.Cells() {
		k := cell.NumVertices()
		vs := cell.Vertices()
		for j := range k {
			nb, _ := cell.Neighbor(j)
			// The edge shared with neighbor j runs from vertex j-1 to vertex j.
			for _, v := range []s2.Point{vs[(j+k-1)%k], vs[j]} {
				if !contains(nb.Vertices(), v) {
					t.Errorf("cell %d vertex %v is missing from neighbor %d", i, v, nb.Index())
				}
			}
		}
	}
}

func TestNewGrid_DelaunayMismatches(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("N%d", n), func(t *testing.T) {
			g := mustNewGrid(t, n)
			got, err := g.DelaunayMismatches()
			if err != nil {
				t.Fatalf("g.DelaunayMismatches() error = %v, want nil", err)
			}
			if got != 0 {
				t.Errorf("g.DelaunayMismatches() = %v, want 0", got)
			}
		})
	}
}

func TestNewGrid_WorkersDeterministic(t *testing.T) {
	type snapshot struct {
		Centers   s2.PointVector
		Neighbors []int
		Vertices  s2.PointVector
		Areas     []float64
	}
	take := func(g *Grid) snapshot {
		var s snapshot
		for _, c := range g.Cells() {
			s.Centers = append(s.Centers, c.Center())
			s.Neighbors = append(s.Neighbors, c.NeighborIndices()...)
			s.Vertices = append(s.Vertices, c.Vertices()...)
			s.Areas = append(s.Areas, c.Area())
		}
		return s
	}

	seq := mustNewGrid(t, 8)
	for _, workers := range []int{2, 3, 4, 16} {
		t.Run(fmt.Sprintf("W%d", workers), func(t *testing.T) {
			par := mustNewGrid(t, 8, WithWorkers(workers))
			if diff := cmp.Diff(take(seq), take(par)); diff != "" {
				t.Errorf("NewGrid(8, WithWorkers(%d)) mismatch (-want +got):\n%s", workers, diff)
			}
			if diff := cmp.Diff(seq.Diagnostics(), par.Diagnostics()); diff != "" {
				t.Errorf("Diagnostics() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGrid_Cell(t *testing.T) {
	g := mustNewGrid(t, 2)

	for i := range g.NumCells() {
		c, err := g.Cell(i)
		if err != nil {
			t.Fatalf("g.Cell(%d) error = %v, want nil", i, err)
		}
		if got := c.Index(); got != i {
			t.Errorf("g.Cell(%d).Index() = %v, want %v", i, got, i)
		}
	}
	for _, i := range []int{-1, g.NumCells()} {
		if _, err := g.Cell(i); err == nil {
			t.Errorf("g.Cell(%d) error = nil, want non-nil", i)
		}
	}
}

func TestGrid_CellAt(t *testing.T) {
	g := mustNewGrid(t, 3)

	for i, c := range g.Cells() {
		got, err := g.CellAt(c.Coord())
		if err != nil {
			t.Fatalf("g.CellAt(%v) error = %v, want nil", c.Coord(), err)
		}
		if got.Index() != i {
			t.Errorf("g.CellAt(%v).Index() = %v, want %v", c.Coord(), got.Index(), i)
		}
	}

	invalid := []topology.Coord{
		topology.QuadCoord(10, 0, 0),
		topology.QuadCoord(-1, 0, 0),
		topology.QuadCoord(0, 3, 0),
		topology.QuadCoord(0, 0, -1),
	}
	for _, c := range invalid {
		if _, err := g.CellAt(c); err == nil {
			t.Errorf("g.CellAt(%v) error = nil, want non-nil", c)
		}
	}
}

func TestGrid_Cells(t *testing.T) {
	g := mustNewGrid(t, 2)

	for pass := range 2 {
		want := 0
		for i, c := range g.Cells() {
			if i != want || c.Index() != i {
				t.Fatalf("pass %d: g.Cells() yielded (%d, %d), want index %d", pass, i, c.Index(), want)
			}
			want++
		}
		if want != g.NumCells() {
			t.Errorf("pass %d: g.Cells() yielded %d cells, want %d", pass, want, g.NumCells())
		}
	}

	cnt := 0
	for range g.Cells() {
		cnt++
		if cnt == 5 {
			break
		}
	}
	if cnt != 5 {
		t.Errorf("g.Cells() early break count = %v, want 5", cnt)
	}
}

func TestGrid_Diagnostics_Copy(t *testing.T) {
	g := mustNewGrid(t, 1)
	g.diagnostics.Warnings = []Warning{{Op: OpUnproject, Quad: 3, X: 1, Y: 0, Overshoot: 1e-6}}

	d := g.Diagnostics()
	d.Warnings[0].Quad = 7
	if got := g.diagnostics.Warnings[0].Quad; got != 3 {
		t.Errorf("g.diagnostics.Warnings[0].Quad = %v after modifying the copy, want 3", got)
	}
}

func TestValidate_Broken(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *Grid)
		want   error
	}{
		{
			"asymmetric",
			func(g *Grid) {
				// Redirect one neighbor slot of the north pole.
				g.cellNeighbors[0] = g.NumCells() - 1
			},
			ErrAsymmetric,
		},
		{
			"self neighbor",
			func(g *Grid) { g.cellNeighbors[0] = 0 },
			ErrDegree,
		},
		{
			"cell count",
			func(g *Grid) { g.centers = g.centers[:len(g.centers)-1] },
			ErrCellCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustNewGrid(t, 2)
			tt.mutate(g)
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("g.Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestForEachRange(t *testing.T) {
	tests := []struct {
		cnt, workers int
	}{
		{0, 1},
		{1, 4},
		{10, 1},
		{10, 3},
		{10, 10},
		{10, 32},
		{1000, 7},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("cnt%d_workers%d", tt.cnt, tt.workers), func(t *testing.T) {
			hits := make([]int, tt.cnt)
			slots := make([]int, max(tt.workers, 1))
			forEachRange(tt.cnt, tt.workers, func(w, lo, hi int) {
				slots[w]++
				for i := lo; i < hi; i++ {
					hits[i]++
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Errorf("index %d visited %d times, want 1", i, h)
				}
			}
			for w, s := range slots {
				if s > 1 {
					t.Errorf("worker slot %d used %d times, want at most 1", w, s)
				}
			}
		})
	}
}

func TestLatLngFromPoint(t *testing.T) {
	tests := []struct {
		name     string
		p        s2.Point
		lat, lng float64
	}{
		{"north", s2.PointFromCoords(0, 1, 0), 90, 0},
		{"south", s2.PointFromCoords(0, -1, 0), -90, 0},
		{"prime meridian", s2.PointFromCoords(0, 0, 1), 0, 0},
		{"east", s2.PointFromCoords(1, 0, 0), 0, 90},
		{"west", s2.PointFromCoords(-1, 0, 0), 0, -90},
		{"antimeridian", s2.PointFromCoords(0, 0, -1), 0, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ll := LatLngFromPoint(tt.p)
			if math.Abs(ll.Lat.Degrees()-tt.lat) > 1e-12 || math.Abs(ll.Lng.Degrees()-tt.lng) > 1e-12 {
				t.Errorf("LatLngFromPoint(%v) = %v, want (%v, %v)", tt.p, ll, tt.lat, tt.lng)
			}
		})
	}
}

// Benchmarks

func BenchmarkNewGrid(b *testing.B) {
	sizes := []int{8, 32, 128}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_, err := NewGrid(n)
				if err != nil {
					b.Fatalf("NewGrid(%d) error = %v, want nil", n, err)
				}
			}
		})
	}
}

func BenchmarkNewGrid_Workers(b *testing.B) {
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("W%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_, err := NewGrid(128, WithWorkers(workers))
				if err != nil {
					b.Fatalf("NewGrid(128, ...) error = %v, want nil", err)
				}
			}
		})
	}
}

// Helpers

func mustNewGrid(t *testing.T, n int, setters ...GridOption) *Grid {
	t.Helper()
	g, err := NewGrid(n, setters...)
	if err != nil {
		t.Fatalf("NewGrid(%d, ...) error = %v, want nil", n, err)
	}
	return g
}

func computeAngleCCW(refVec, vec, normal s2.Point) float64 {
	cross := refVec.Cross(vec.Vector)
	angle := math.Atan2(
		math.Copysign(cross.Norm(), cross.Dot(normal.Vector)),
		refVec.Dot(vec.Vector),
	)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
