// SPDX-License-Identifier: MIT

package inversion

import (
	"fmt"
	"reflect"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// state is the iteration state shared by all solvers.
type state struct {
	dms  []DataModule
	regs []Regularizer
	opts Options

	iteration int
	p         []float64
	residuals [][]float64
	misfit    float64
	goal      float64
	misfits   []float64
	goals     []float64
}

// evaluation is the residual/misfit/goal triple at a candidate point.
type evaluation struct {
	residuals [][]float64
	misfit    float64
	goal      float64
}

// newState validates the inputs and evaluates the initial estimate.
func newState(dms []DataModule, regs []Regularizer, initial []float64, opts Options) (*state, error) {
	if len(dms) == 0 {
		return nil, ErrNoData
	}
	if len(initial) == 0 || hasNonFinite(initial) {
		return nil, fmt.Errorf("initial %v: %w", initial, ErrBadInitial)
	}

	s := &state{dms: dms, regs: regs, opts: opts}
	p := append([]float64(nil), initial...)
	ev, err := s.evaluate(p)
	if err != nil {
		return nil, err
	}
	s.accept(p, ev)

	return s, nil
}

// evaluate computes residuals, misfit and goal at p without changing s.
func (s *state) evaluate(p []float64) (evaluation, error) {
	ev := evaluation{residuals: make([][]float64, len(s.dms))}
	for k, dm := range s.dms {
		pred, err := dm.Predicted(p)
		if err != nil {
			return evaluation{}, fmt.Errorf("module %d: %w", k, err)
		}
		data := dm.Data()
		if len(pred) != len(data) {
			return evaluation{}, fmt.Errorf("module %d: %d predicted vs %d observed: %w", k, len(pred), len(data), ErrShape)
		}
		r := floats.SubTo(make([]float64, len(data)), data, pred)
		ev.residuals[k] = r
		ev.misfit += floats.Dot(r, r)
	}
	ev.goal = ev.misfit
	for _, reg := range s.regs {
		ev.goal += reg.Value(p)
	}

	return ev, nil
}

// accept makes p the current estimate and extends the histories.
func (s *state) accept(p []float64, ev evaluation) {
	s.p = p
	s.residuals = ev.residuals
	s.misfit = ev.misfit
	s.goal = ev.goal
	s.misfits = append(s.misfits, ev.misfit)
	s.goals = append(s.goals, ev.goal)
}

// changeSet snapshots the current state. Histories are append-only, so the
// snapshot shares their backing arrays safely.
func (s *state) changeSet() ChangeSet {
	return ChangeSet{
		Iteration: s.iteration,
		Estimate:  append([]float64(nil), s.p...),
		Residuals: s.residuals,
		Misfits:   s.misfits[:len(s.misfits):len(s.misfits)],
		Goals:     s.goals[:len(s.goals):len(s.goals)],
	}
}

// derivatives assembles the gradient and, when withHessian is set, the
// Gauss-Newton Hessian of the goal at the current estimate.
func (s *state) derivatives(withHessian bool) (*mat.VecDense, *mat.SymDense, error) {
	n := len(s.p)
	gradient := mat.NewVecDense(n, nil)
	var hessian *mat.SymDense
	if withHessian {
		hessian = mat.NewSymDense(n, nil)
	}

	var err error
	if s.opts.parallel && len(s.dms) > 1 {
		err = s.sumParallel(gradient, hessian)
	} else {
		err = s.sumSerial(gradient, hessian)
	}
	if err != nil {
		return nil, nil, err
	}

	for _, reg := range s.regs {
		reg.SumGradient(gradient, s.p)
		if hessian != nil {
			reg.SumHessian(hessian, s.p)
		}
	}

	return gradient, hessian, nil
}

func (s *state) sumSerial(gradient *mat.VecDense, hessian *mat.SymDense) error {
	for k, dm := range s.dms {
		if err := dm.SumGradient(gradient, s.p, s.residuals[k]); err != nil {
			return fmt.Errorf("module %d: gradient: %w", k, err)
		}
		if hessian == nil {
			continue
		}
		if err := dm.SumHessian(hessian, s.p); err != nil {
			return fmt.Errorf("module %d: hessian: %w", k, err)
		}
	}

	return nil
}

// sumParallel lets every module fill its own zeroed accumulators, then
// reduces them in module order so the result does not depend on scheduling.
// A module listed more than once runs all its entries in one goroutine, so
// its cache is never written concurrently.
func (s *state) sumParallel(gradient *mat.VecDense, hessian *mat.SymDense) error {
	n := len(s.p)
	grads := make([]*mat.VecDense, len(s.dms))
	hesss := make([]*mat.SymDense, len(s.dms))

	var g errgroup.Group
	for _, group := range groupModules(s.dms) {
		g.Go(func() error {
			for _, k := range group {
				dm := s.dms[k]
				grads[k] = mat.NewVecDense(n, nil)
				if err := dm.SumGradient(grads[k], s.p, s.residuals[k]); err != nil {
					return fmt.Errorf("module %d: gradient: %w", k, err)
				}
				if hessian == nil {
					continue
				}
				hesss[k] = mat.NewSymDense(n, nil)
				if err := dm.SumHessian(hesss[k], s.p); err != nil {
					return fmt.Errorf("module %d: hessian: %w", k, err)
				}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for k := range s.dms {
		gradient.AddVec(gradient, grads[k])
		if hessian != nil {
			hessian.AddSym(hessian, hesss[k])
		}
	}

	return nil
}

// groupModules returns the indices of dms grouped by module identity, in
// order of first appearance.
func groupModules(dms []DataModule) [][]int {
	var groups [][]int
next:
	for k, dm := range dms {
		for i, group := range groups {
			if sameModule(dms[group[0]], dm) {
				groups[i] = append(groups[i], k)
				continue next
			}
		}
		groups = append(groups, []int{k})
	}

	return groups
}

// sameModule reports whether a and b are the same module value. Modules of
// non-comparable dynamic type are never considered equal.
func sameModule(a, b DataModule) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || ta == nil || !ta.Comparable() {
		return false
	}

	return a == b
}

// converged reports whether the goal change from prev to cur is below tol.
// A zero goal cannot improve further.
func converged(prev, cur, tol float64) bool {
	if cur == 0 || prev == 0 {
		return true
	}
	change := (cur - prev) / prev
	if change < 0 {
		change = -change
	}

	return change < tol
}

func hasNonFinite(s []float64) bool {
	for _, v := range s {
		if isNonFinite(v) {
			return true
		}
	}

	return false
}
