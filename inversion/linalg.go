// SPDX-License-Identifier: MIT

package inversion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// newtonStep solves hessian·step = −gradient by Cholesky factorization.
// Non positive-definite or ill-conditioned systems yield ErrSingular.
func newtonStep(hessian *mat.SymDense, gradient *mat.VecDense, maxCond float64) (*mat.VecDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(hessian); !ok {
		return nil, fmt.Errorf("newtonStep: not positive definite: %w", ErrSingular)
	}
	if c := chol.Cond(); c > maxCond {
		return nil, fmt.Errorf("newtonStep: condition number %.3g > %.3g: %w", c, maxCond, ErrSingular)
	}

	step := mat.NewVecDense(gradient.Len(), nil)
	if err := chol.SolveVecTo(step, gradient); err != nil {
		return nil, fmt.Errorf("newtonStep: %v: %w", err, ErrSingular)
	}
	step.ScaleVec(-1, step)

	return step, nil
}

// marquardt returns hessian with its diagonal scaled by (1 + damp).
func marquardt(hessian *mat.SymDense, damp float64) *mat.SymDense {
	n := hessian.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	out.CopySym(hessian)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, hessian.At(i, i)*(1+damp))
	}

	return out
}
