// SPDX-License-Identifier: MIT

package basin2d

import "fmt"

// Vertex is a polygon vertex; Z is depth, positive down.
type Vertex struct {
	X float64
	Z float64
}

// String formats the vertex as "(x, z)".
func (v Vertex) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Z)
}

// Kernel computes the field of the polygon (xs, zs) with physical property
// prop at the observation points (xp, zp). talwani.Gz is the default.
type Kernel func(prop float64, xs, zs, xp, zp []float64) ([]float64, error)

// Solution is one estimate of the free vertex with the residuals
// (observed − predicted) of every data module, in module order.
type Solution struct {
	Vertex    Vertex
	Residuals [][]float64
}
