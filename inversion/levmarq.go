// SPDX-License-Identifier: MIT

package inversion

import (
	"iter"

	"gonum.org/v1/gonum/floats"
)

// LevMarq returns a Levenberg-Marquardt solver starting at initial.
//
// Algorithm:
//  1. Evaluate residuals and goal at p; yield the initial change set.
//  2. Assemble g and H once per iteration.
//  3. Try steps (H + λ·diag(H))·Δp = −g. A step that lowers the goal is
//     accepted and λ /= factor; otherwise λ *= factor and retry, at most
//     maxSteps times.
//  4. Stop when no step lowers the goal, on convergence, or after maxIter.
//
// Options used: WithMaxIter (DefaultLevMarqMaxIter), WithMaxSteps
// (DefaultLevMarqMaxSteps), WithDamping, WithFactor, WithTolerance,
// WithMaxCondition, WithParallel, WithLogger.
func LevMarq(initial []float64, opts ...Option) Solver {
	o := gatherOptions(DefaultLevMarqMaxIter, DefaultLevMarqMaxSteps, opts...)
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

			damp := o.damp
			for s.iteration < o.maxIter {
				gradient, hessian, err := s.derivatives(true)
				if err != nil {
					yield(ChangeSet{}, err)
					return
				}

				var (
					p        []float64
					ev       evaluation
					improved bool
				)
				for attempt := 0; attempt < o.maxSteps; attempt++ {
					step, err := newtonStep(marquardt(hessian, damp), gradient, o.maxCond)
					if err != nil {
						yield(ChangeSet{}, err)
						return
					}
					p = floats.AddTo(make([]float64, len(s.p)), s.p, step.RawVector().Data)
					ev, err = s.evaluate(p)
					if err != nil {
						yield(ChangeSet{}, err)
						return
					}
					if ev.goal < s.goal {
						damp /= o.factor
						improved = true
						break
					}
					damp *= o.factor
				}
				if !improved {
					o.logger.Debug("levmarq stagnated", "iteration", s.iteration, "damping", damp)
					return
				}

				prev := s.goal
				s.iteration++
				s.accept(p, ev)
				if !yield(s.changeSet(), nil) {
					return
				}
				if converged(prev, s.goal, o.tol) {
					o.logger.Debug("levmarq converged", "iteration", s.iteration, "goal", s.goal)
					return
				}
			}
		}
	}
}
