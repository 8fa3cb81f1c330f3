// SPDX-License-Identifier: MIT

package inversion

import (
	"iter"

	"gonum.org/v1/gonum/floats"
)

// Steepest returns a steepest-descent solver starting at initial.
//
// Algorithm:
//  1. Evaluate residuals and goal at p; yield the initial change set.
//  2. Assemble the gradient g (no Hessian is needed).
//  3. Armijo backtracking: accept p − α·g when
//     goal(p − α·g) ≤ goal(p) − c·α·‖g‖², else α /= 2, at most maxSteps times.
//     After an accepted step α doubles for the next iteration.
//  4. Stop when no step is accepted, on convergence, or after maxIter.
//
// Options used: WithMaxIter (DefaultSteepestMaxIter), WithMaxSteps
// (DefaultSteepestMaxSteps), WithStepSize, WithTolerance, WithParallel,
// WithLogger.
func Steepest(initial []float64, opts ...Option) Solver {
	o := gatherOptions(DefaultSteepestMaxIter, DefaultSteepestMaxSteps, opts...)
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

			alpha := o.stepSize
			for s.iteration < o.maxIter {
				gradient, _, err := s.derivatives(false)
				if err != nil {
					yield(ChangeSet{}, err)
					return
				}
				g := gradient.RawVector().Data
				gg := floats.Dot(g, g)

				var (
					p        []float64
					ev       evaluation
					accepted bool
				)
				for attempt := 0; attempt < o.maxSteps; attempt++ {
					p = floats.AddScaledTo(make([]float64, len(s.p)), s.p, -alpha, g)
					ev, err = s.evaluate(p)
					if err != nil {
						yield(ChangeSet{}, err)
						return
					}
					if ev.goal <= s.goal-DefaultArmijo*alpha*gg {
						accepted = true
						break
					}
					alpha /= 2
				}
				if !accepted {
					o.logger.Debug("steepest found no descent step", "iteration", s.iteration, "step", alpha)
					return
				}
				alpha *= 2

				prev := s.goal
				s.iteration++
				s.accept(p, ev)
				if !yield(s.changeSet(), nil) {
					return
				}
				if converged(prev, s.goal, o.tol) {
					o.logger.Debug("steepest converged", "iteration", s.iteration, "goal", s.goal)
					return
				}
			}
		}
	}
}
