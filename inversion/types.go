// SPDX-License-Identifier: MIT

package inversion

import (
	"iter"

	"gonum.org/v1/gonum/mat"
)

// DataModule is one observed data set and its forward model.
//
// Within one iteration a solver calls SumGradient before SumHessian for the
// same p, so implementations may cache the Jacobian between the two calls.
type DataModule interface {
	// Data returns the observed values. Callers must not modify it.
	Data() []float64

	// Predicted returns the data predicted by parameters p.
	Predicted(p []float64) ([]float64, error)

	// SumGradient adds this module's gradient term (−2·Jᵀ·r) into gradient.
	SumGradient(gradient *mat.VecDense, p, residuals []float64) error

	// SumHessian adds this module's Gauss-Newton term (2·Jᵀ·J) into hessian.
	SumHessian(hessian *mat.SymDense, p []float64) error
}

// Regularizer is a penalty added to the goal function.
type Regularizer interface {
	// Value returns the penalty at p.
	Value(p []float64) float64

	// SumGradient adds the penalty gradient at p into gradient.
	SumGradient(gradient *mat.VecDense, p []float64)

	// SumHessian adds the penalty Hessian at p into hessian.
	SumHessian(hessian *mat.SymDense, p []float64)
}

// ChangeSet is the state a solver reports after each iteration.
// Misfits and Goals hold the whole history, oldest first.
type ChangeSet struct {
	Iteration int         // 0 for the initial estimate
	Estimate  []float64   // current parameter vector
	Residuals [][]float64 // observed − predicted, one slice per module
	Misfits   []float64   // Σ‖r‖² per iteration
	Goals     []float64   // misfit plus regularization per iteration
}

// Misfit returns the latest data misfit.
func (c ChangeSet) Misfit() float64 {
	if len(c.Misfits) == 0 {
		return 0
	}

	return c.Misfits[len(c.Misfits)-1]
}

// Goal returns the latest goal function value.
func (c ChangeSet) Goal() float64 {
	if len(c.Goals) == 0 {
		return 0
	}

	return c.Goals[len(c.Goals)-1]
}

// Solver runs an inversion over dms with the penalties regs.
// The returned sequence is finite; it ends after convergence, after the
// iteration limit, or after the first error, which is yielded last.
type Solver func(dms []DataModule, regs []Regularizer) iter.Seq2[ChangeSet, error]
