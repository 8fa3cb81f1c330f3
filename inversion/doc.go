// Package inversion solves nonlinear least-squares problems assembled from
// data modules and regularizers.
//
// 🚀 How it fits together:
//
//	A DataModule owns one observed data vector and knows how to predict it
//	from a parameter vector p. It also adds its share of the gradient and of
//	the Gauss-Newton Hessian of the misfit Σ‖d − g(p)‖² into accumulators the
//	solver hands it. A Regularizer adds a penalty term to the goal function.
//	Several modules may share one parameter vector (joint inversion).
//
// ✨ Solvers:
//   - Newton : full Gauss-Newton steps, fastest near the solution.
//   - LevMarq : Marquardt-damped steps, robust far from it.
//   - Steepest : gradient descent with Armijo backtracking.
//
// Each solver is a factory: it captures the initial estimate and options
// and returns a Solver, which turns a list of modules and regularizers into
// a lazy sequence of ChangeSet values, one per iteration. The first change
// set always describes the initial estimate.
//
// Residuals are always observed − predicted. Modules must add −2·Jᵀ·r to
// the gradient and 2·Jᵀ·J to the Hessian so the pair stays consistent with
// the goal function.
//
// Errors:
//   - ErrSingular : the Hessian (or damped Hessian) could not be factorized.
//   - ErrNoData, ErrBadInitial : invalid solver inputs.
package inversion
