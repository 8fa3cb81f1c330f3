// SPDX-License-Identifier: MIT

package basin2d_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/basin2d/basin2d"
	"github.com/katalvlaran/basin2d/talwani"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// TestNewTriangularGzDM_Shapes covers construction success and the shape sentinels.
func TestNewTriangularGzDM_Shapes(t *testing.T) {
	xp, zp := surfaceProfile()
	data := synthGz(t, xp, zp)
	two := []basin2d.Vertex{left, right}

	cases := []struct {
		name         string
		xp, zp, data []float64
		verts        []basin2d.Vertex
		prop         float64
		want         error
	}{
		{"valid", xp, zp, data, two, density, nil},
		{"short xp", xp[1:], zp, data, two, density, basin2d.ErrInvalidInputShape},
		{"short zp", xp, zp[1:], data, two, density, basin2d.ErrInvalidInputShape},
		{"short data", xp, zp, data[1:], two, density, basin2d.ErrInvalidInputShape},
		{"empty profile", nil, nil, nil, two, density, basin2d.ErrInvalidInputShape},
		{"one vertex", xp, zp, data, two[:1], density, basin2d.ErrInvalidGeometry},
		{"three vertices", xp, zp, data, append(append([]basin2d.Vertex(nil), two...), truth), density, basin2d.ErrInvalidGeometry},
		{"NaN property", xp, zp, data, two, math.NaN(), basin2d.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dm, err := basin2d.NewTriangularGzDM(tc.xp, tc.zp, tc.data, tc.verts, tc.prop)
			if tc.want == nil {
				require.NoError(t, err)
				assert.Equal(t, len(tc.data), dm.Len())
				return
			}
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, dm)
		})
	}
}

// TestNewTriangularGzDM_CopiesInputs checks the module keeps its own arrays.
func TestNewTriangularGzDM_CopiesInputs(t *testing.T) {
	xp, zp := surfaceProfile()
	data := synthGz(t, xp, zp)
	dm, err := basin2d.NewTriangularGzDM(xp, zp, data, []basin2d.Vertex{left, right}, density)
	require.NoError(t, err)

	before, err := dm.Predicted([]float64{truth.X, truth.Z})
	require.NoError(t, err)
	want := data[0]
	xp[3], data[0] = -1, 1e9

	after, err := dm.Predicted([]float64{truth.X, truth.Z})
	require.NoError(t, err)
	assert.Equal(t, before, after, "caller mutation must not leak into the module")
	assert.Equal(t, want, dm.Data()[0])
}

// TestPredicted_Deterministic checks repeated predictions are identical and
// reproduce the synthetic data at the true vertex.
func TestPredicted_Deterministic(t *testing.T) {
	dm := surfaceDM(t)
	p := []float64{truth.X, truth.Z}

	a, err := dm.Predicted(p)
	require.NoError(t, err)
	b, err := dm.Predicted(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.InDeltaSlice(t, dm.Data(), a, 1e-12)

	_, err = dm.Predicted([]float64{1, 2, 3})
	assert.ErrorIs(t, err, basin2d.ErrInvalidInputShape)
}

// TestPredicted_ReversedVerticesFlipSign is the regression test for the
// left-to-right ordering hazard, including the logged warning.
func TestPredicted_ReversedVerticesFlipSign(t *testing.T) {
	xp, zp := surfaceProfile()
	data := synthGz(t, xp, zp)
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Formatter: log.LogfmtFormatter})

	ordered, err := basin2d.NewTriangularGzDM(xp, zp, data, []basin2d.Vertex{left, right}, density)
	require.NoError(t, err)
	reversed, err := basin2d.NewTriangularGzDM(xp, zp, data, []basin2d.Vertex{right, left}, density, basin2d.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "left to right")

	p := []float64{truth.X, truth.Z}
	a, err := ordered.Predicted(p)
	require.NoError(t, err)
	b, err := reversed.Predicted(p)
	require.NoError(t, err)
	for i := range a {
		assert.InDelta(t, -a[i], b[i], 1e-9, "point %d", i)
	}
}

// TestSumGradient_ConvergesToAnalytic uses a kernel with a known derivative:
// f_i = prop·(z·xp_i + x²), so ∂f/∂z = prop·xp_i (exact for forward
// differences) and ∂f/∂x = prop·2x with forward error prop·delta.
func TestSumGradient_ConvergesToAnalytic(t *testing.T) {
	const prop = 2.0
	kernel := func(prop float64, xs, zs, xp, zp []float64) ([]float64, error) {
		out := make([]float64, len(xp))
		for i := range xp {
			out[i] = prop * (zs[2]*xp[i] + xs[2]*xs[2])
		}
		return out, nil
	}
	xp := []float64{1, 2, 3, 4}
	zp := make([]float64, len(xp))
	data := make([]float64, len(xp))
	free := []float64{3, 10}

	prevErr := math.Inf(1)
	for _, delta := range []float64{1, 0.1, 0.01} {
		dm, err := basin2d.NewTriangularGzDM(xp, zp, data, []basin2d.Vertex{left, right}, prop,
			basin2d.WithKernel(kernel), basin2d.WithDelta(delta))
		require.NoError(t, err)

		require.NoError(t, dm.SumGradient(mat.NewVecDense(2, nil), free, make([]float64, len(xp))))
		jt := dm.JacobianT()
		require.NotNil(t, jt)

		var worst float64
		for i := range xp {
			assert.InDelta(t, prop*xp[i], jt.At(1, i), 1e-8, "dz exact for a linear kernel")
			e := math.Abs(jt.At(0, i) - prop*2*free[0])
			assert.InDelta(t, prop*delta, e, 1e-6, "forward difference error is prop·delta")
			worst = math.Max(worst, e)
		}
		assert.Less(t, worst, prevErr, "error shrinks with delta")
		prevErr = worst
	}
}

// TestSumGradient_Sign checks the accumulated term is −2·Jᵀ·r and adds to
// whatever the accumulator already holds.
func TestSumGradient_Sign(t *testing.T) {
	dm := surfaceDM(t)
	p := []float64{40000, 3000}
	r := make([]float64, dm.Len())
	for i := range r {
		r[i] = float64(i%3) - 1
	}

	g := mat.NewVecDense(2, []float64{10, -10})
	require.NoError(t, dm.SumGradient(g, p, r))
	jt := dm.JacobianT()

	for k := 0; k < 2; k++ {
		want := []float64{10, -10}[k]
		for i := range r {
			want -= 2 * jt.At(k, i) * r[i]
		}
		assert.InDelta(t, want, g.AtVec(k), 1e-12)
	}

	err := dm.SumGradient(g, p, r[1:])
	assert.ErrorIs(t, err, basin2d.ErrInvalidInputShape)
}

// TestSumGradient_MatchesReferenceDerivative compares the module's forward
// difference with gonum's central difference of the Talwani kernel.
func TestSumGradient_MatchesReferenceDerivative(t *testing.T) {
	dm := surfaceDM(t, basin2d.WithDelta(0.01))
	p := []float64{45000, 4000}
	require.NoError(t, dm.SumGradient(mat.NewVecDense(2, nil), p, make([]float64, dm.Len())))
	jt := dm.JacobianT()

	xp, zp := surfaceProfile()
	for i := range xp {
		at := func(x, z float64) float64 {
			gz, err := talwani.Gz(density, []float64{left.X, right.X, x}, []float64{left.Z, right.Z, z}, xp[i:i+1], zp[i:i+1])
			require.NoError(t, err)
			return gz[0]
		}
		settings := &fd.Settings{Formula: fd.Central, Step: 0.5}
		dx := fd.Derivative(func(x float64) float64 { return at(x, p[1]) }, p[0], settings)
		dz := fd.Derivative(func(z float64) float64 { return at(p[0], z) }, p[1], settings)

		assert.InDelta(t, dx, jt.At(0, i), 1e-6+1e-3*math.Abs(dx), "x derivative at %d", i)
		assert.InDelta(t, dz, jt.At(1, i), 1e-6+1e-3*math.Abs(dz), "z derivative at %d", i)
	}
}

// TestSumGradient_DepthOnly checks the legacy mode builds identical rows.
func TestSumGradient_DepthOnly(t *testing.T) {
	dm := surfaceDM(t, basin2d.WithDepthOnlyPerturbation())
	require.NoError(t, dm.SumGradient(mat.NewVecDense(2, nil), []float64{40000, 3000}, make([]float64, dm.Len())))
	jt := dm.JacobianT()

	if diff := cmp.Diff(mat.Row(nil, 1, jt), mat.Row(nil, 0, jt)); diff != "" {
		t.Fatalf("depth-only rows differ (-z +x):\n%s", diff)
	}
}

// TestSumHessian_StaleJacobian fixes the chosen ordering behavior: a Hessian
// without a fresh gradient at the same point fails with ErrStaleJacobian.
func TestSumHessian_StaleJacobian(t *testing.T) {
	dm := surfaceDM(t)
	p := []float64{40000, 3000}
	h := mat.NewSymDense(2, nil)

	assert.ErrorIs(t, dm.SumHessian(h, p), basin2d.ErrStaleJacobian, "no gradient yet")

	require.NoError(t, dm.SumGradient(mat.NewVecDense(2, nil), p, make([]float64, dm.Len())))
	assert.ErrorIs(t, dm.SumHessian(h, []float64{40001, 3000}), basin2d.ErrStaleJacobian, "different point")

	require.NoError(t, dm.SumGradient(mat.NewVecDense(2, nil), p, make([]float64, dm.Len())))
	require.NoError(t, dm.SumHessian(h, p))
	assert.ErrorIs(t, dm.SumHessian(h, p), basin2d.ErrStaleJacobian, "cache is consumed")
}

// TestSumHessian_GaussNewton checks the term is 2·Jᵀ·J and accumulates.
func TestSumHessian_GaussNewton(t *testing.T) {
	dm := surfaceDM(t)
	p := []float64{40000, 3000}
	require.NoError(t, dm.SumGradient(mat.NewVecDense(2, nil), p, make([]float64, dm.Len())))
	jt := dm.JacobianT()

	h := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	require.NoError(t, dm.SumHessian(h, p))

	var want mat.Dense
	want.Mul(jt, jt.T())
	want.Scale(2, &want)
	for i := 0; i < 2; i++ {
		want.Set(i, i, want.At(i, i)+1)
	}
	got := mat.DenseCopyOf(h)
	opt := cmpopts.EquateApprox(1e-12, 0)
	if diff := cmp.Diff(want.RawMatrix().Data, got.RawMatrix().Data, opt); diff != "" {
		t.Fatalf("hessian mismatch (-want +got):\n%s", diff)
	}
}

// TestPolygon checks the exported model polygon.
func TestPolygon(t *testing.T) {
	dm := surfaceDM(t)
	poly := dm.Polygon(truth)
	assert.Equal(t, [][2]float64{{left.X, left.Z}, {right.X, right.Z}, {truth.X, truth.Z}}, poly.Vertices)
	assert.Equal(t, density, poly.Props[talwani.Density])
}

// TestWithDelta_Panics checks nonsensical steps are rejected.
func TestWithDelta_Panics(t *testing.T) {
	assert.Panics(t, func() { basin2d.WithDelta(0) })
	assert.Panics(t, func() { basin2d.WithDelta(math.Inf(1)) })
	assert.NotPanics(t, func() { basin2d.WithDelta(1e-3) })
}
