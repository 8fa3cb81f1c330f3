// SPDX-License-Identifier: MIT

package inversion_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/basin2d/inversion"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// modelFunc returns predictions and the N×P Jacobian at p.
type modelFunc func(x, p []float64) (pred []float64, jac *mat.Dense)

// analyticDM is a DataModule with an exact Jacobian, for solver tests.
type analyticDM struct {
	x, data []float64
	model   modelFunc
	jac     *mat.Dense
}

func (a *analyticDM) Data() []float64 { return a.data }

func (a *analyticDM) Predicted(p []float64) ([]float64, error) {
	pred, _ := a.model(a.x, p)
	return pred, nil
}

func (a *analyticDM) SumGradient(gradient *mat.VecDense, p, residuals []float64) error {
	_, a.jac = a.model(a.x, p)
	var jtr mat.VecDense
	jtr.MulVec(a.jac.T(), mat.NewVecDense(len(residuals), residuals))
	gradient.AddScaledVec(gradient, -2, &jtr)
	return nil
}

func (a *analyticDM) SumHessian(hessian *mat.SymDense, _ []float64) error {
	hessian.SymRankK(hessian, 2, a.jac.T())
	return nil
}

// linearModel is y = p0 + p1·x.
func linearModel(x, p []float64) ([]float64, *mat.Dense) {
	pred := make([]float64, len(x))
	jac := mat.NewDense(len(x), 2, nil)
	for i, xi := range x {
		pred[i] = p[0] + p[1]*xi
		jac.Set(i, 0, 1)
		jac.Set(i, 1, xi)
	}
	return pred, jac
}

// collinearModel is y = (p0 + p1)·x, whose Hessian is always singular.
func collinearModel(x, p []float64) ([]float64, *mat.Dense) {
	pred := make([]float64, len(x))
	jac := mat.NewDense(len(x), 2, nil)
	for i, xi := range x {
		pred[i] = (p[0] + p[1]) * xi
		jac.Set(i, 0, xi)
		jac.Set(i, 1, xi)
	}
	return pred, jac
}

// decayModel is y = p0·exp(−p1·x).
func decayModel(x, p []float64) ([]float64, *mat.Dense) {
	pred := make([]float64, len(x))
	jac := mat.NewDense(len(x), 2, nil)
	for i, xi := range x {
		e := math.Exp(-p[1] * xi)
		pred[i] = p[0] * e
		jac.Set(i, 0, e)
		jac.Set(i, 1, -p[0]*xi*e)
	}
	return pred, jac
}

// newDM builds an analyticDM whose data is generated by model at truth.
func newDM(x []float64, model modelFunc, truth []float64) *analyticDM {
	data, _ := model(x, truth)
	return &analyticDM{x: x, data: data, model: model}
}

func span(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}

// runAll drains a solver and returns every change set plus the final error.
func runAll(t *testing.T, solver inversion.Solver, dms []inversion.DataModule, regs []inversion.Regularizer) ([]inversion.ChangeSet, error) {
	t.Helper()
	var out []inversion.ChangeSet
	for cs, err := range solver(dms, regs) {
		if err != nil {
			return out, err
		}
		out = append(out, cs)
	}
	require.NotEmpty(t, out, "solver must yield at least the initial change set")
	return out, nil
}

func newVec(n int) *mat.VecDense { return mat.NewVecDense(n, nil) }

func newSym(n int) *mat.SymDense { return mat.NewSymDense(n, nil) }
