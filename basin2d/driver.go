// SPDX-License-Identifier: MIT

package basin2d

import (
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/basin2d/inversion"
)

// Triangular estimates the free vertex of a triangular basin by running
// solver over dms until it stops, and returns the last estimate with the
// residuals of every module.
//
// Errors:
//   - ErrNoDataModules, ErrNilSolver for invalid inputs.
//   - ErrSingularHessian (also matching inversion.ErrSingular) when the
//     solver cannot invert the Hessian. No partial result is returned.
//   - Module and kernel errors propagate unchanged.
func Triangular(dms []inversion.DataModule, solver inversion.Solver, opts ...Option) (Solution, error) {
	o := gatherOptions(opts...)
	o.logger.Info("estimating relief of a triangular basin", "iterate", false)

	var last Solution
	err := run(dms, solver, o, func(s Solution) bool {
		last = s
		return true
	})
	if err != nil {
		return Solution{}, err
	}

	return last, nil
}

// TriangularIter is the streaming form of Triangular: it yields one Solution
// per solver iteration, the first being the initial estimate. The consumer
// may stop at any time. An error is yielded once, as the last element.
//
// The sequence can be ranged over only once; later ranges yield
// ErrIterConsumed.
func TriangularIter(dms []inversion.DataModule, solver inversion.Solver, opts ...Option) iter.Seq2[Solution, error] {
	o := gatherOptions(opts...)
	o.logger.Info("estimating relief of a triangular basin", "iterate", true)

	var used atomic.Bool

	return func(yield func(Solution, error) bool) {
		if used.Swap(true) {
			yield(Solution{}, ErrIterConsumed)
			return
		}

		stopped := false
		err := run(dms, solver, o, func(s Solution) bool {
			if !yield(s, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(Solution{}, err)
		}
	}
}

// run drives solver and hands every change set to emit until the solver
// stops or emit returns false. It logs a summary after a successful run,
// whether the sequence was exhausted or abandoned.
func run(dms []inversion.DataModule, solver inversion.Solver, o Options, emit func(Solution) bool) error {
	if len(dms) == 0 {
		return ErrNoDataModules
	}
	if solver == nil {
		return ErrNilSolver
	}

	start := time.Now()
	var (
		last inversion.ChangeSet
		seen bool
	)
	for cs, err := range solver(dms, o.regs) {
		if err != nil {
			return translate(err)
		}
		if len(cs.Estimate) != nparams {
			return fmt.Errorf("run: estimate has %d parameters, want %d: %w", len(cs.Estimate), nparams, ErrInvalidGeometry)
		}
		last, seen = cs, true
		sol := Solution{
			Vertex:    Vertex{X: cs.Estimate[0], Z: cs.Estimate[1]},
			Residuals: cs.Residuals,
		}
		if !emit(sol) {
			break
		}
	}
	if !seen {
		return ErrNoIterations
	}

	o.logger.Info("inversion finished",
		"iterations", last.Iteration,
		"misfit", last.Misfit(),
		"goal", last.Goal(),
		"elapsed", time.Since(start).Round(time.Microsecond),
	)

	return nil
}

// translate maps a solver linear-algebra failure to ErrSingularHessian and
// passes everything else through.
func translate(err error) error {
	if errors.Is(err, inversion.ErrSingular) {
		return fmt.Errorf("%w: %w", ErrSingularHessian, err)
	}

	return err
}
