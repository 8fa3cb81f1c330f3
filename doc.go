// SPDX-License-Identifier: MIT

// Package basin2d estimates the relief of 2D sedimentary basins from
// gravity anomaly profiles.
//
// What is in the module?
//
//	A small, dependency-light stack for 2D potential-field inversion:
//		• Forward modelling: Talwani gz of arbitrary polygons (talwani/)
//		• Solvers: Gauss-Newton, Levenberg-Marquardt, steepest descent (inversion/)
//		• Basin parametrization: triangular data module and driver (basin2d/)
//		• CLI: synthetic profiles and inversion from CSV (cmd/basin2d/)
//
// Layout:
//
//	talwani/    : polygon forward model (mGal), density property bag
//	inversion/  : DataModule / Regularizer contracts, solvers as iter.Seq2
//	basin2d/    : TriangularGzDM, Triangular, TriangularIter
//	cmd/basin2d : cobra + viper command line
//	examples/   : runnable end-to-end demo
//
// The basin model (z positive down):
//
//	 v0 ─────────────── v1      known, ordered left to right
//	   ╲               ╱
//	     ╲           ╱
//	       ╲       ╱
//	         ╲   ╱
//	          free              estimated (x, z)
//
//	go get github.com/katalvlaran/basin2d
package basin2d
