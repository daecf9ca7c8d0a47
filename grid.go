// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package s2icogrid builds a nearly equal-area hexagonal grid on the unit
// sphere by subdividing the icosahedron in the plane of Snyder's ISEA
// projection.

package s2icogrid

import (
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/2dChan/s2icogrid/icosahedron"
	"github.com/2dChan/s2icogrid/isea"
	"github.com/2dChan/s2icogrid/topology"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Grid is an immutable icosahedral grid of resolution n with 10n^2+2 cells.
// All per-cell data is stored in flat arrays in canonical order: the north
// pole, quads 0..9 row-major by (x, y), the south pole. Cells refer to each
// other by canonical index.
type Grid struct {
	n int

	centers s2.PointVector
	latLngs []s2.LatLng

	// NOTE: Sort in CCW per Cell(look out of sphere)
	cellNeighbors []int
	// NOTE: Sort in CCW per Cell(look out of sphere)
	vertices    s2.PointVector
	cellOffsets []int
	// Fan triangles as indices into vertices, cell i starting at
	// cellOffsets[i]-2i.
	triangles [][3]int
	areas     []float64

	diagnostics Diagnostics
}

// NewGrid builds the grid of resolution n.
func NewGrid(n int, setters ...GridOption) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("s2icogrid: resolution %d must be positive", n)
	}
	opts := GridOptions{
		Workers:            defaultWorkers,
		OvershootTolerance: DefaultOvershootTolerance,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	ico := icosahedron.New()
	ref, diag := newReferenceQuad(ico, n, opts.OvershootTolerance)

	numCells := topology.Count(n)
	g := &Grid{
		n:           n,
		centers:     make(s2.PointVector, numCells),
		latLngs:     make([]s2.LatLng, numCells),
		cellOffsets: make([]int, numCells+1),
		areas:       make([]float64, numCells),
		diagnostics: diag,
	}

	g.assemble(ico, ref, opts)

	for i := range numCells {
		c, _ := topology.CoordAt(i, n)
		deg := 6
		if topology.IsPentagon(c, n) {
			deg = 5
		}
		g.cellOffsets[i+1] = g.cellOffsets[i] + deg
	}
	numSlots := g.cellOffsets[numCells]
	g.cellNeighbors = make([]int, numSlots)
	g.vertices = make(s2.PointVector, numSlots)
	g.triangles = make([][3]int, numSlots-2*numCells)

	forEachRange(numCells, opts.Workers, func(_, lo, hi int) {
		g.buildNeighbors(lo, hi)
	})

	degenerate := make([]int, opts.Workers)
	forEachRange(numCells, opts.Workers, func(w, lo, hi int) {
		degenerate[w] = g.buildGeometry(lo, hi)
	})
	for _, d := range degenerate {
		g.diagnostics.DegenerateCircumcenters += d
	}

	g.log(opts)
	return g, nil
}

// assemble unprojects the reference lattice through every quad's frames
// and fills centers and lat/lngs.
func (g *Grid) assemble(ico *icosahedron.Icosahedron, ref *referenceQuad, opts GridOptions) {
	n := g.n
	perQuad := make([]Diagnostics, icosahedron.NumQuads)
	forEachRange(icosahedron.NumQuads, opts.Workers, func(_, lo, hi int) {
		for q := lo; q < hi; q++ {
			quad := ico.Quads[q]
			up, down := isea.New(quad.Up), isea.New(quad.Down)
			for x := 1; x <= n; x++ {
				for y := range n {
					proj := up
					if !ref.IsUp(x, y) {
						proj = down
					}
					p, rep := proj.Unproject(ref.At(x, y))
					perQuad[q].record(OpUnproject, q, x, y, rep, opts.OvershootTolerance)
					g.centers[topology.Index(topology.QuadCoord(q, x-1, y), n)] = p
				}
			}
		}
	})
	for _, d := range perQuad {
		g.diagnostics.merge(d)
	}

	north, rep := isea.New(ico.Quads[0].Up).Unproject(ref.At(0, 0))
	g.diagnostics.record(OpUnproject, 0, 0, 0, rep, opts.OvershootTolerance)
	g.centers[topology.Index(topology.NorthPole, n)] = north

	south, rep := isea.New(ico.Quads[icosahedron.QuadsPerRing].Down).Unproject(ref.At(n, n))
	g.diagnostics.record(OpUnproject, icosahedron.QuadsPerRing, n, n, rep, opts.OvershootTolerance)
	g.centers[topology.Index(topology.SouthPole, n)] = south

	for i, p := range g.centers {
		g.latLngs[i] = LatLngFromPoint(p)
	}
}

func (g *Grid) buildNeighbors(lo, hi int) {
	for i := lo; i < hi; i++ {
		c, _ := topology.CoordAt(i, g.n)
		start := g.cellOffsets[i]
		for j, nb := range topology.Neighbors(c, g.n) {
			g.cellNeighbors[start+j] = topology.Index(nb, g.n)
		}
	}
}

func (g *Grid) log(opts GridOptions) {
	if opts.Logger == nil {
		return
	}
	for _, w := range g.diagnostics.Warnings {
		opts.Logger.Warn("projection overshoot",
			"op", string(w.Op),
			"quad", w.Quad,
			"x", w.X,
			"y", w.Y,
			"overshoot", w.Overshoot)
	}
	opts.Logger.Debug("grid built",
		"resolution", g.n,
		"cells", g.NumCells(),
		"warnings", len(g.diagnostics.Warnings),
		"max_overshoot", g.diagnostics.MaxOvershoot,
		"newton_cap_outs", g.diagnostics.NewtonCapOuts,
		"degenerate_circumcenters", g.diagnostics.DegenerateCircumcenters)
}

// Resolution returns n, the number of cells along a quad edge.
func (g *Grid) Resolution() int {
	return g.n
}

func (g *Grid) NumCells() int {
	return len(g.centers)
}

// Cell returns the cell at canonical index i.
// It returns an error if the index is out of range.
func (g *Grid) Cell(i int) (Cell, error) {
	if i < 0 || i >= len(g.centers) {
		return Cell{}, fmt.Errorf("Cell: index %d out of range [0 %d)", i, len(g.centers))
	}
	return Cell{idx: i, g: g}, nil
}

// CellAt returns the cell addressed by c.
// It returns an error if c does not address a cell of this grid.
func (g *Grid) CellAt(c topology.Coord) (Cell, error) {
	if err := topology.Validate(c, g.n); err != nil {
		return Cell{}, err
	}
	return Cell{idx: topology.Index(c, g.n), g: g}, nil
}

// Cells returns the cells with their canonical index, in canonical order.
// The sequence can be ranged over any number of times.
func (g *Grid) Cells() iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for i := range g.centers {
			if !yield(i, Cell{idx: i, g: g}) {
				return
			}
		}
	}
}

// Diagnostics returns the soft-failure report of the build.
func (g *Grid) Diagnostics() Diagnostics {
	d := g.diagnostics
	d.Warnings = append([]Warning(nil), d.Warnings...)
	return d
}

// TotalArea returns the sum of all cell areas, 4pi up to rounding.
func (g *Grid) TotalArea() float64 {
	sum := 0.0
	for _, a := range g.areas {
		sum += a
	}
	return sum
}

// LatLngFromPoint converts p to latitude and longitude with y as the polar
// axis: lat = asin(y), lng = atan2(x, z), with lng in (-180, 180]. Cell
// centers and boundary vertices both use this convention.
func LatLngFromPoint(p s2.Point) s2.LatLng {
	lat := math.Asin(math.Max(-1, math.Min(1, p.Y)))
	lng := math.Atan2(p.X, p.Z)
	if lng <= -math.Pi {
		lng = math.Pi
	}
	return s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lng)}
}

// forEachRange splits [0, cnt) into at most workers contiguous ranges and
// runs fn on each, passing the worker slot. It returns once all are done.
func forEachRange(cnt, workers int, fn func(w, lo, hi int)) {
	if workers <= 1 || cnt <= 1 {
		fn(0, 0, cnt)
		return
	}
	workers = min(workers, cnt)
	chunk := (cnt + workers - 1) / workers

	var wg sync.WaitGroup
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, cnt)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(w, lo, hi)
		}()
	}
	wg.Wait()
}
