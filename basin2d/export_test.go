// SPDX-License-Identifier: MIT

package basin2d

import "gonum.org/v1/gonum/mat"

// JacobianT exposes the cached Jacobian transpose to external tests.
// It returns nil when the cache is not fresh.
func (m *TriangularGzDM) JacobianT() *mat.Dense {
	if !m.fresh {
		return nil
	}

	return mat.DenseCopyOf(m.jacT)
}
