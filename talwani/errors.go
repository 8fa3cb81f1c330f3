// SPDX-License-Identifier: MIT

package talwani

import "errors"

var (
	// ErrMismatchedLength is returned when paired coordinate slices differ in length.
	ErrMismatchedLength = errors.New("talwani: coordinate slices must have equal length")

	// ErrTooFewVertices is returned for a polygon with fewer than 3 vertices.
	ErrTooFewVertices = errors.New("talwani: polygon needs at least 3 vertices")

	// ErrMissingDensity is returned by GzPolygons when a polygon has no density property.
	ErrMissingDensity = errors.New("talwani: polygon has no density property")
)
