// Package refine adjusts a masked subset of atom coordinates to satisfy
// pairwise distance constraints.
//
// The objective is the sum over constraints of the squared difference
// between the current distance of the constrained pair and its target.
// There are no other energy terms: bonded geometry and sterics are the
// business of the external minimizer that runs afterwards.
package refine

import (
	"math"

	"refinery/pdb"
	"refinery/prior"
)

// Refiner holds the optimizer parameters: Adam with a fixed step count.
// There is no convergence check; a run of Refine always costs the same.
type Refiner struct {
	LearningRate float64
	Steps        int
	Beta1        float64
	Beta2        float64
	Epsilon      float64
}

// Default is the refiner configuration the pipeline uses.
var Default = Refiner{
	LearningRate: 0.01,
	Steps:        100,
	Beta1:        0.9,
	Beta2:        0.999,
	Epsilon:      1e-8,
}

// Refine returns a new coordinate set of the same length as coords, moved
// to better satisfy the constraints. Atoms whose mask entry is false never
// move: their gradient components are zeroed after every gradient
// evaluation, before the update is applied. A nil mask makes every atom
// eligible.
//
// Refine has no failure path. An empty constraint list returns a copy of
// the input; constraints or masks that touch nothing degrade to a no-op.
// Output is deterministic for identical inputs: the moment vectors start
// at zero and the step count is fixed.
func (r Refiner) Refine(coords []pdb.Coords, constraints []prior.Constraint,
	mask []bool) []pdb.Coords {

	out := make([]pdb.Coords, len(coords))
	copy(out, coords)
	if len(constraints) == 0 || len(coords) == 0 {
		return out
	}

	// Flatten to a free-variable vector; Adam state per parameter.
	n := len(coords)
	x := make([]float64, 3*n)
	for i, c := range coords {
		x[3*i+0] = c.X
		x[3*i+1] = c.Y
		x[3*i+2] = c.Z
	}
	grad := make([]float64, 3*n)
	m := make([]float64, 3*n)
	v := make([]float64, 3*n)

	for step := 1; step <= r.Steps; step++ {
		for i := range grad {
			grad[i] = 0
		}

		for _, c := range constraints {
			if c.Kind != prior.Distance {
				continue
			}
			if c.AtomA < 0 || c.AtomA >= n || c.AtomB < 0 || c.AtomB >= n {
				continue
			}
			ai, bi := 3*c.AtomA, 3*c.AtomB
			dx := x[ai+0] - x[bi+0]
			dy := x[ai+1] - x[bi+1]
			dz := x[ai+2] - x[bi+2]
			dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if dist == 0 {
				// Coincident atoms have no defined direction to push.
				continue
			}

			// d/dx of (dist - target)^2.
			coef := 2 * (dist - c.Target) / dist
			grad[ai+0] += coef * dx
			grad[ai+1] += coef * dy
			grad[ai+2] += coef * dz
			grad[bi+0] -= coef * dx
			grad[bi+1] -= coef * dy
			grad[bi+2] -= coef * dz
		}

		// Masking discipline: frozen atoms get a zero gradient no matter
		// how many constraints reference them.
		if mask != nil {
			for i := 0; i < n && i < len(mask); i++ {
				if !mask[i] {
					grad[3*i+0] = 0
					grad[3*i+1] = 0
					grad[3*i+2] = 0
				}
			}
		}

		// Adam update with bias correction.
		bc1 := 1 - math.Pow(r.Beta1, float64(step))
		bc2 := 1 - math.Pow(r.Beta2, float64(step))
		for i := range x {
			g := grad[i]
			m[i] = r.Beta1*m[i] + (1-r.Beta1)*g
			v[i] = r.Beta2*v[i] + (1-r.Beta2)*g*g
			mhat := m[i] / bc1
			vhat := v[i] / bc2
			x[i] -= r.LearningRate * mhat / (math.Sqrt(vhat) + r.Epsilon)
		}
	}

	for i := range out {
		// Atoms no gradient ever touched keep their input coordinates
		// exactly: their Adam update is identically zero.
		out[i] = pdb.Coords{X: x[3*i+0], Y: x[3*i+1], Z: x[3*i+2]}
	}
	return out
}
