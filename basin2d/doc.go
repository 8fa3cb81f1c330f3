// Package basin2d estimates the basement relief of 2D sedimentary basins
// from gravity profiles.
//
// 🚀 What does it do?
//
//	The basin cross-section is a polygon whose vertices are partly known
//	(e.g. where the basin outcrops at the surface) and partly unknown. A data
//	module packs one observed profile together with the known geometry and
//	turns a candidate position of the unknown vertices into predicted gravity,
//	a gradient term and a Gauss-Newton Hessian term. The driver hands the
//	modules to an inversion.Solver and collects the estimate.
//
// ✨ Triangular parametrization:
//
//	    v0 ●──────────────● v1      (known, ordered left to right)
//	        \            /
//	         \          /
//	          \        /
//	           ●  p           (free vertex, estimated)
//
// ⚠️ Hazards:
//   - v0 must be left of v1. Reversing them reverses the polygon winding and
//     flips the sign of every predicted value (a warning is logged).
//   - The density contrast sign must match the data; a wrong sign silently
//     inverts the predicted field.
//   - SumHessian must follow SumGradient at the same point in the same
//     iteration; otherwise it fails with ErrStaleJacobian.
//
// ⚙️ Usage:
//
//	dm, err := basin2d.NewTriangularGzDM(xp, zp, gz, []basin2d.Vertex{{10000, 100}, {90000, 100}}, 500)
//	sol, err := basin2d.Triangular([]inversion.DataModule{dm}, inversion.LevMarq([]float64{10000, 1000}))
//	fmt.Println(sol.Vertex)
//
// TriangularIter exposes the same run as a lazy sequence of intermediate
// solutions, one per solver iteration.
//
// Trapezoidal and prismatic parametrizations fit the same inversion.DataModule
// contract with more free parameters and are not implemented here.
package basin2d
