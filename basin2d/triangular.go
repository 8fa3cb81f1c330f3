// SPDX-License-Identifier: MIT

package basin2d

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/basin2d/inversion"
	"github.com/katalvlaran/basin2d/talwani"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// nparams is the number of free parameters of the triangular model (x, z).
const nparams = 2

// TriangularGzDM is the data module of a triangular basin: two known
// vertices and one free vertex whose (x, z) position is estimated from a
// gravity profile.
//
// The Jacobian is approximated by one-sided forward differences. x and z of
// the free vertex are perturbed independently by delta.
type TriangularGzDM struct {
	xp, zp, data []float64
	verts        [2]Vertex
	prop         float64
	delta        float64
	kernel       Kernel
	depthOnly    bool
	logger       *log.Logger

	jacT  *mat.Dense // 2×N Jacobian transpose from the last SumGradient
	jacAt Vertex     // point jacT was computed at
	fresh bool       // jacT not yet consumed by SumHessian
}

var _ inversion.DataModule = (*TriangularGzDM)(nil)

// NewTriangularGzDM packs a gravity profile and the two known vertices.
//
// Inputs:
//   - xp, zp: observation coordinates; data: observed gz (mGal), same length.
//   - verts: exactly two known vertices, ordered left to right.
//   - prop: density contrast (kg/m³) of the basin fill.
//
// Errors:
//   - ErrInvalidInputShape if the slices differ in length or are empty.
//   - ErrInvalidGeometry if len(verts) != 2.
//   - ErrInvalidInput for NaN/Inf values.
func NewTriangularGzDM(xp, zp, data []float64, verts []Vertex, prop float64, opts ...Option) (*TriangularGzDM, error) {
	if len(xp) != len(zp) || len(xp) != len(data) {
		return nil, fmt.Errorf("NewTriangularGzDM: %d xp, %d zp, %d data: %w", len(xp), len(zp), len(data), ErrInvalidInputShape)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("NewTriangularGzDM: empty profile: %w", ErrInvalidInputShape)
	}
	if len(verts) != 2 {
		return nil, fmt.Errorf("NewTriangularGzDM: need exactly 2 vertices, %d given: %w", len(verts), ErrInvalidGeometry)
	}
	if nonFinite(prop) || anyNonFinite(xp) || anyNonFinite(zp) || anyNonFinite(data) ||
		nonFinite(verts[0].X) || nonFinite(verts[0].Z) || nonFinite(verts[1].X) || nonFinite(verts[1].Z) {
		return nil, fmt.Errorf("NewTriangularGzDM: %w", ErrInvalidInput)
	}

	o := gatherOptions(opts...)
	dm := &TriangularGzDM{
		xp:        append([]float64(nil), xp...),
		zp:        append([]float64(nil), zp...),
		data:      append([]float64(nil), data...),
		verts:     [2]Vertex{verts[0], verts[1]},
		prop:      prop,
		delta:     o.delta,
		kernel:    o.kernel,
		depthOnly: o.depthOnly,
		logger:    o.logger,
	}

	dm.logger.Info("initializing triangular data module", "ndata", len(data), "prop", prop)
	if verts[0].X > verts[1].X {
		dm.logger.Warn("known vertices are not ordered left to right; predicted data will have inverted sign",
			"left", verts[0], "right", verts[1])
	}
	if prop == 0 {
		dm.logger.Warn("physical property is zero; predicted data will be flat")
	}
	if o.depthOnly {
		dm.logger.Warn("depth-only perturbation enabled; x derivative reuses the z perturbation")
	}

	return dm, nil
}

// Data returns the observed profile.
func (m *TriangularGzDM) Data() []float64 { return m.data }

// Len returns the number of observations.
func (m *TriangularGzDM) Len() int { return len(m.data) }

// Polygon returns the basin polygon [v0, v1, free] with its density.
func (m *TriangularGzDM) Polygon(free Vertex) talwani.Polygon {
	return talwani.NewPolygon(
		[][2]float64{{m.verts[0].X, m.verts[0].Z}, {m.verts[1].X, m.verts[1].Z}, {free.X, free.Z}},
		map[string]float64{talwani.Density: m.prop},
	)
}

// Predicted returns the field of the triangle [v0, v1, (p[0], p[1])].
func (m *TriangularGzDM) Predicted(p []float64) ([]float64, error) {
	if len(p) != nparams {
		return nil, fmt.Errorf("Predicted: %d parameters, want %d: %w", len(p), nparams, ErrInvalidInputShape)
	}

	return m.predict(Vertex{X: p[0], Z: p[1]})
}

func (m *TriangularGzDM) predict(free Vertex) ([]float64, error) {
	xs := []float64{m.verts[0].X, m.verts[1].X, free.X}
	zs := []float64{m.verts[0].Z, m.verts[1].Z, free.Z}

	pred, err := m.kernel(m.prop, xs, zs, m.xp, m.zp)
	if err != nil {
		return nil, err
	}
	if len(pred) != len(m.data) {
		return nil, fmt.Errorf("kernel returned %d values for %d observations: %w", len(pred), len(m.data), ErrInvalidInputShape)
	}

	return pred, nil
}

// SumGradient computes the Jacobian at p by forward differences, caches its
// transpose for SumHessian and adds −2·Jᵀ·residuals into gradient.
// residuals must be observed − predicted at p.
func (m *TriangularGzDM) SumGradient(gradient *mat.VecDense, p, residuals []float64) error {
	if len(p) != nparams || gradient.Len() != nparams || len(residuals) != len(m.data) {
		return fmt.Errorf("SumGradient: %d parameters, gradient of %d, %d residuals for %d data: %w",
			len(p), gradient.Len(), len(residuals), len(m.data), ErrInvalidInputShape)
	}
	m.fresh = false

	at := Vertex{X: p[0], Z: p[1]}
	atP, err := m.predict(at)
	if err != nil {
		return fmt.Errorf("SumGradient: %w", err)
	}
	atZ, err := m.predict(Vertex{X: at.X, Z: at.Z + m.delta})
	if err != nil {
		return fmt.Errorf("SumGradient: %w", err)
	}
	atX := atZ
	if !m.depthOnly {
		if atX, err = m.predict(Vertex{X: at.X + m.delta, Z: at.Z}); err != nil {
			return fmt.Errorf("SumGradient: %w", err)
		}
	}

	n := len(m.data)
	rows := make([]float64, nparams*n)
	jacX, jacZ := rows[:n], rows[n:]
	floats.SubTo(jacX, atX, atP)
	floats.Scale(1/m.delta, jacX)
	floats.SubTo(jacZ, atZ, atP)
	floats.Scale(1/m.delta, jacZ)
	m.jacT = mat.NewDense(nparams, n, rows)

	var jtr mat.VecDense
	jtr.MulVec(m.jacT, mat.NewVecDense(n, residuals))
	gradient.AddScaledVec(gradient, -2, &jtr)

	m.jacAt = at
	m.fresh = true

	return nil
}

// SumHessian adds the Gauss-Newton term 2·Jᵀ·J into hessian, using the
// Jacobian cached by the preceding SumGradient at the same p. The cache is
// consumed: the next SumHessian needs a new SumGradient.
func (m *TriangularGzDM) SumHessian(hessian *mat.SymDense, p []float64) error {
	if len(p) != nparams || hessian.SymmetricDim() != nparams {
		return fmt.Errorf("SumHessian: %d parameters, hessian of %d: %w", len(p), hessian.SymmetricDim(), ErrInvalidInputShape)
	}
	if !m.fresh || m.jacAt != (Vertex{X: p[0], Z: p[1]}) {
		return fmt.Errorf("SumHessian at (%g, %g): %w", p[0], p[1], ErrStaleJacobian)
	}

	hessian.SymRankK(hessian, 2, m.jacT)
	m.fresh = false

	return nil
}

func nonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}

func anyNonFinite(s []float64) bool {
	for _, v := range s {
		if nonFinite(v) {
			return true
		}
	}

	return false
}
