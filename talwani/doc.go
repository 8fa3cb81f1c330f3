// Package talwani computes the vertical gravitational attraction of 2D bodies
// with polygonal cross-sections.
//
// 🚀 What is it?
//
//	The Talwani method reduces the area integral of a 2D body to a line
//	integral around its cross-section. Each polygon edge contributes a
//	closed-form term, so a profile of N points over a body with V vertices
//	costs O(N·V) elementary function calls.
//
// ⚙️ Conventions:
//   - Coordinates in meters, z positive DOWN.
//   - Density contrast in kg/m³; results in mGal.
//   - Vertex order matters: a polygon traced left to right along its top
//     and then down through the deep vertices gives a positive anomaly for a
//     positive density. Reversing the order flips the sign of every value.
//
// Usage:
//
//	gz, err := talwani.Gz(500, xs, zs, xp, zp)
//
// Gz has exactly the shape expected by basin2d.Kernel, so it is the default
// forward kernel of the basin data modules.
package talwani
