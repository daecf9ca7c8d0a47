// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides seeded random point generators used to exercise
// the grid and its projection.

package utils

import (
	"math"
	"math/rand"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GenerateRandomPoints generates a vector of random points on the S2 sphere.
// The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64) s2.PointVector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	sites := make(s2.PointVector, cnt)

	for i := range cnt {
		sites[i] = s2.PointFromLatLng(s2.LatLng{
			Lat: s1.Angle(math.Asin(random.Float64()*2 - 1)),
			Lng: s1.Angle((random.Float64()*2 - 1) * math.Pi),
		})
	}

	return sites
}

// GenerateRandomPointsInTriangle generates cnt random points inside the
// spherical triangle (a, b, c). Points are drawn uniformly in the planar
// triangle and projected radially onto the sphere, so they never fall on
// the edges. The seed parameter ensures reproducibility.
func GenerateRandomPointsInTriangle(a, b, c s2.Point, cnt int, seed int64) s2.PointVector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make(s2.PointVector, 0, cnt)

	for len(points) < cnt {
		u, v := random.Float64(), random.Float64()
		if u+v >= 1 {
			u, v = 1-u, 1-v
		}
		w := 1 - u - v
		if u == 0 || v == 0 || w <= 0 {
			continue
		}
		p := a.Mul(w).Add(b.Mul(u)).Add(c.Mul(v))
		points = append(points, s2.Point{Vector: p.Normalize()})
	}

	return points
}
