// SPDX-License-Identifier: MIT

package inversion

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Damping is zeroth-order Tikhonov regularization: μ‖p‖².
// It makes every Hessian positive definite, which is the usual cure for
// ErrSingular.
type Damping struct {
	Mu float64
}

// Value returns μ‖p‖².
func (d Damping) Value(p []float64) float64 {
	return d.Mu * floats.Dot(p, p)
}

// SumGradient adds 2μp.
func (d Damping) SumGradient(gradient *mat.VecDense, p []float64) {
	gradient.AddScaledVec(gradient, 2*d.Mu, mat.NewVecDense(len(p), p))
}

// SumHessian adds 2μI.
func (d Damping) SumHessian(hessian *mat.SymDense, _ []float64) {
	n := hessian.SymmetricDim()
	for i := 0; i < n; i++ {
		hessian.SetSym(i, i, hessian.At(i, i)+2*d.Mu)
	}
}
