// SPDX-License-Identifier: MIT

package basin2d_test

import (
	"testing"

	"github.com/katalvlaran/basin2d/basin2d"
	"github.com/katalvlaran/basin2d/inversion"
	"github.com/katalvlaran/basin2d/talwani"
	"github.com/stretchr/testify/require"
)

const density = 500.0

var (
	left  = basin2d.Vertex{X: 10000, Z: 100}
	right = basin2d.Vertex{X: 90000, Z: 100}
	truth = basin2d.Vertex{X: 50000, Z: 5000}
)

// surfaceProfile returns x = 0, 10000, …, 90000 at z = 0.
func surfaceProfile() (xp, zp []float64) {
	xp = make([]float64, 10)
	zp = make([]float64, 10)
	for i := range xp {
		xp[i] = float64(i) * 10000
	}
	return xp, zp
}

// synthGz computes the gz of the true triangular basin at (xp, zp).
func synthGz(t *testing.T, xp, zp []float64) []float64 {
	t.Helper()
	model := talwani.NewPolygon(
		[][2]float64{{left.X, left.Z}, {right.X, right.Z}, {truth.X, truth.Z}},
		map[string]float64{talwani.Density: density},
	)
	gz, err := talwani.GzPolygons(xp, zp, []talwani.Polygon{model})
	require.NoError(t, err)
	return gz
}

// mustDM builds a data module over the synthetic profile at (xp, zp).
func mustDM(t *testing.T, xp, zp []float64, opts ...basin2d.Option) *basin2d.TriangularGzDM {
	t.Helper()
	dm, err := basin2d.NewTriangularGzDM(xp, zp, synthGz(t, xp, zp), []basin2d.Vertex{left, right}, density, opts...)
	require.NoError(t, err)
	return dm
}

// surfaceDM is mustDM over the standard surface profile.
func surfaceDM(t *testing.T, opts ...basin2d.Option) *basin2d.TriangularGzDM {
	t.Helper()
	xp, zp := surfaceProfile()
	return mustDM(t, xp, zp, opts...)
}

func modules(dms ...*basin2d.TriangularGzDM) []inversion.DataModule {
	out := make([]inversion.DataModule, len(dms))
	for i, dm := range dms {
		out[i] = dm
	}
	return out
}

func maxAbs(s []float64) float64 {
	m := 0.0
	for _, v := range s {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
