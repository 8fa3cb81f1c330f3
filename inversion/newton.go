// SPDX-License-Identifier: MIT

package inversion

import (
	"iter"

	"gonum.org/v1/gonum/floats"
)

// Newton returns a Gauss-Newton solver starting at initial.
//
// Algorithm:
//  1. Evaluate residuals and goal at p; yield the initial change set.
//  2. Assemble g and H from modules and regularizers.
//  3. Solve H·Δp = −g (Cholesky), p ← p + Δp, re-evaluate, yield.
//  4. Stop on convergence (relative goal change < tol) or after maxIter.
//
// Options used: WithMaxIter (DefaultNewtonMaxIter), WithTolerance,
// WithMaxCondition, WithParallel, WithLogger.
func Newton(initial []float64, opts ...Option) Solver {
	o := gatherOptions(DefaultNewtonMaxIter, 1, opts...)
	initial = append([]float64(nil), initial...)

	return func(dms []DataModule, regs []Regularizer) iter.Seq2[ChangeSet, error] {
		return func(yield func(ChangeSet, error) bool) {
			s, err := newState(dms, regs, initial, o)
			if err != nil {
				yield(ChangeSet{}, err)
				return
			}
			if !yield(s.changeSet(), nil) {
				return
			}

			for s.iteration < o.maxIter {
				gradient, hessian, err := s.derivatives(true)
				if err != nil {
					yield(ChangeSet{}, err)
					return
				}
				step, err := newtonStep(hessian, gradient, o.maxCond)
				if err != nil {
					yield(ChangeSet{}, err)
					return
				}
				p := floats.AddTo(make([]float64, len(s.p)), s.p, step.RawVector().Data)
				ev, err := s.evaluate(p)
				if err != nil {
					yield(ChangeSet{}, err)
					return
				}

				prev := s.goal
				s.iteration++
				s.accept(p, ev)
				if !yield(s.changeSet(), nil) {
					return
				}
				if converged(prev, s.goal, o.tol) {
					o.logger.Debug("newton converged", "iteration", s.iteration, "goal", s.goal)
					return
				}
			}
		}
	}
}
