// SPDX-License-Identifier: MIT

package talwani

import (
	"fmt"
	"math"
)

const (
	// G is the gravitational constant in m³/(kg·s²).
	G = 6.673e-11

	// SI2MGAL converts m/s² to mGal.
	SI2MGAL = 1e5
)

// Gz returns the vertical gravity anomaly (mGal) of one polygon with density
// contrast prop at each observation point (xp[i], zp[i]).
//
// Algorithm (per observation point, Won & Bevis form of the line integral):
//  1. Shift every vertex so the observation point is the origin.
//  2. For each edge (x1,z1)→(x2,z2):
//     dθ = θ1 − θ2 wrapped to (−π, π], ln = ln r2 − ln r1
//     vertical edge: term = x1·ln
//     otherwise:     term = A·(dθ + B·ln), A = Δx(x1z2 − x2z1)/(Δx²+Δz²), B = Δz/Δx
//  3. gz = 2·G·prop·Σterm, converted to mGal.
//
// Edges touching the observation point contribute nothing.
//
// Complexity: O(len(xp)·len(xs)) time, O(len(xp)) memory.
func Gz(prop float64, xs, zs, xp, zp []float64) ([]float64, error) {
	if len(xs) != len(zs) {
		return nil, fmt.Errorf("Gz: %d vertex xs vs %d zs: %w", len(xs), len(zs), ErrMismatchedLength)
	}
	if len(xp) != len(zp) {
		return nil, fmt.Errorf("Gz: %d observation xs vs %d zs: %w", len(xp), len(zp), ErrMismatchedLength)
	}
	if len(xs) < 3 {
		return nil, fmt.Errorf("Gz: %d vertices: %w", len(xs), ErrTooFewVertices)
	}

	res := make([]float64, len(xp))
	nverts := len(xs)
	scale := 2 * G * SI2MGAL * prop
	var (
		i, v, next     int
		x1, z1, x2, z2 float64
		sum            float64
	)
	for i = range xp {
		sum = 0
		for v = 0; v < nverts; v++ {
			next = v + 1
			if next == nverts { // the last vertex closes the polygon
				next = 0
			}
			x1, z1 = xs[v]-xp[i], zs[v]-zp[i]
			x2, z2 = xs[next]-xp[i], zs[next]-zp[i]
			sum += edgeTerm(x1, z1, x2, z2)
		}
		res[i] = scale * sum
	}

	return res, nil
}

// edgeTerm is the line-integral contribution of one edge, with the
// observation point at the origin.
func edgeTerm(x1, z1, x2, z2 float64) float64 {
	r1 := math.Hypot(x1, z1)
	r2 := math.Hypot(x2, z2)
	if r1 == 0 || r2 == 0 {
		return 0
	}

	dtheta := math.Atan2(z1, x1) - math.Atan2(z2, x2)
	if dtheta > math.Pi {
		dtheta -= 2 * math.Pi
	} else if dtheta < -math.Pi {
		dtheta += 2 * math.Pi
	}
	lnr := math.Log(r2) - math.Log(r1) // keeps the term odd under edge reversal

	dx, dz := x2-x1, z2-z1
	if dx == 0 {
		return x1 * lnr
	}
	a := dx * (x1*z2 - x2*z1) / (dx*dx + dz*dz)
	b := dz / dx

	return a * (dtheta + b*lnr)
}
