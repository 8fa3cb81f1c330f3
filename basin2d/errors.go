// SPDX-License-Identifier: MIT

package basin2d

import "errors"

var (
	// ErrInvalidInputShape is returned when observation slices differ in
	// length, are empty, or when a parameter/residual vector has the wrong size.
	ErrInvalidInputShape = errors.New("basin2d: invalid input shape")

	// ErrInvalidGeometry is returned when the number of known vertices is not
	// the number the parametrization needs.
	ErrInvalidGeometry = errors.New("basin2d: invalid basin geometry")

	// ErrInvalidInput is returned for NaN or ±Inf coordinates, data or property.
	ErrInvalidInput = errors.New("basin2d: NaN or Inf in input")

	// ErrStaleJacobian is returned by SumHessian when no Jacobian was computed
	// by SumGradient at the same point since the last Hessian.
	ErrStaleJacobian = errors.New("basin2d: Hessian requested without a fresh gradient at the same point")

	// ErrSingularHessian is returned when the solver could not invert the
	// Hessian. Adding regularization (e.g. inversion.Damping) usually helps.
	ErrSingularHessian = errors.New("basin2d: the Hessian is a singular matrix, try applying more regularization")

	// ErrNoDataModules is returned when the driver gets an empty module list.
	ErrNoDataModules = errors.New("basin2d: no data modules")

	// ErrNilSolver is returned when the driver gets a nil solver.
	ErrNilSolver = errors.New("basin2d: nil solver")

	// ErrNoIterations is returned when the solver yields nothing.
	ErrNoIterations = errors.New("basin2d: solver produced no estimate")

	// ErrIterConsumed is yielded when a TriangularIter sequence is ranged over twice.
	ErrIterConsumed = errors.New("basin2d: estimate sequence already consumed")
)
