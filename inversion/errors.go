// SPDX-License-Identifier: MIT

package inversion

import "errors"

var (
	// ErrSingular is returned when the linear system of a step cannot be
	// solved: the Hessian is not positive definite or is too ill-conditioned.
	ErrSingular = errors.New("inversion: singular Hessian")

	// ErrNoData is returned when a solver is started without data modules.
	ErrNoData = errors.New("inversion: no data modules")

	// ErrBadInitial is returned for an empty or non-finite initial estimate.
	ErrBadInitial = errors.New("inversion: invalid initial estimate")

	// ErrShape is returned when a module's predicted data does not match its
	// observed data in length.
	ErrShape = errors.New("inversion: predicted and observed data differ in length")
)
