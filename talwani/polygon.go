// SPDX-License-Identifier: MIT

package talwani

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Density is the property key GzPolygons reads from Polygon.Props.
const Density = "density"

// Polygon is a 2D body cross-section with physical properties.
// Vertices are (x, z) pairs with z positive down.
type Polygon struct {
	Vertices [][2]float64
	Props    map[string]float64
}

// NewPolygon copies verts and props into a Polygon.
func NewPolygon(verts [][2]float64, props map[string]float64) Polygon {
	p := Polygon{
		Vertices: append([][2]float64(nil), verts...),
		Props:    make(map[string]float64, len(props)),
	}
	for k, v := range props {
		p.Props[k] = v
	}

	return p
}

// XZ splits the vertices into x and z slices.
func (p Polygon) XZ() (xs, zs []float64) {
	xs = make([]float64, len(p.Vertices))
	zs = make([]float64, len(p.Vertices))
	for i, v := range p.Vertices {
		xs[i], zs[i] = v[0], v[1]
	}

	return xs, zs
}

// GzPolygons sums the gz anomaly of several polygons at (xp, zp).
// Every polygon must carry a Density property.
func GzPolygons(xp, zp []float64, polys []Polygon) ([]float64, error) {
	if len(xp) != len(zp) {
		return nil, fmt.Errorf("GzPolygons: %d xs vs %d zs: %w", len(xp), len(zp), ErrMismatchedLength)
	}

	total := make([]float64, len(xp))
	for k, p := range polys {
		rho, ok := p.Props[Density]
		if !ok {
			return nil, fmt.Errorf("GzPolygons: polygon %d: %w", k, ErrMissingDensity)
		}
		xs, zs := p.XZ()
		gz, err := Gz(rho, xs, zs, xp, zp)
		if err != nil {
			return nil, fmt.Errorf("GzPolygons: polygon %d: %w", k, err)
		}
		floats.Add(total, gz)
	}

	return total, nil
}
