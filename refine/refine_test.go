package refine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refinery/pdb"
	"refinery/prior"
)

func dist(a, b pdb.Coords) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func distanceTo(a, b int, target float64) prior.Constraint {
	return prior.Constraint{
		Kind: prior.Distance, AtomA: a, AtomB: b, Target: target,
	}
}

func TestRefineNoConstraints(t *testing.T) {
	coords := []pdb.Coords{{X: 1}, {X: 2}, {X: 3}}
	out := Default.Refine(coords, nil, nil)

	assert.Equal(t, coords, out)

	// The result must be a fresh slice, not the input.
	out[0].X = 99
	assert.Equal(t, 1.0, coords[0].X)
}

func TestRefinePullsPairTowardTarget(t *testing.T) {
	coords := []pdb.Coords{{}, {X: 6}}
	out := Default.Refine(coords, []prior.Constraint{
		distanceTo(0, 1, 5.0),
	}, nil)

	got := dist(out[0], out[1])
	assert.InDelta(t, 5.0, got, 0.2,
		"pair at 6.0 constrained to 5.0 should end near 5.0, got %f", got)
}

func TestRefinePushesPairApart(t *testing.T) {
	coords := []pdb.Coords{{}, {X: 4.4}}
	out := Default.Refine(coords, []prior.Constraint{
		distanceTo(0, 1, 5.0),
	}, nil)

	got := dist(out[0], out[1])
	assert.InDelta(t, 5.0, got, 0.2)
}

func TestRefineMaskFreezesAtoms(t *testing.T) {
	coords := []pdb.Coords{{}, {X: 5.6}}
	out := Default.Refine(coords, []prior.Constraint{
		distanceTo(0, 1, 5.0),
	}, []bool{false, true})

	// The frozen atom must be bit-for-bit untouched.
	assert.Equal(t, coords[0], out[0])

	got := dist(out[0], out[1])
	assert.InDelta(t, 5.0, got, 0.2,
		"the movable atom alone should close the gap, got %f", got)
}

func TestRefineAllFrozenIsNoOp(t *testing.T) {
	coords := []pdb.Coords{{}, {X: 6}}
	out := Default.Refine(coords, []prior.Constraint{
		distanceTo(0, 1, 5.0),
	}, []bool{false, false})

	assert.Equal(t, coords, out)
}

func TestRefineUnconstrainedAtomsUntouched(t *testing.T) {
	coords := []pdb.Coords{
		{X: 0}, {X: 6}, {X: 20, Y: 3}, {X: 30, Z: -2}, {X: 40},
	}
	out := Default.Refine(coords, []prior.Constraint{
		distanceTo(0, 1, 5.0),
	}, nil)

	// Atoms no constraint references accumulate a zero gradient, so their
	// update is identically zero.
	for _, i := range []int{2, 3, 4} {
		assert.Equal(t, coords[i], out[i], "atom %d should be untouched", i)
	}
}

func TestRefineDeterministic(t *testing.T) {
	coords := []pdb.Coords{{}, {X: 6, Y: 1}, {X: 2, Y: 4, Z: 1}}
	constraints := []prior.Constraint{
		distanceTo(0, 1, 5.0),
		distanceTo(1, 2, 5.5),
	}

	first := Default.Refine(coords, constraints, nil)
	second := Default.Refine(coords, constraints, nil)
	assert.Equal(t, first, second)
}

func TestRefineIgnoresInvalidConstraints(t *testing.T) {
	coords := []pdb.Coords{{}, {X: 6}}

	out := Default.Refine(coords, []prior.Constraint{
		distanceTo(0, 9, 5.0),
		distanceTo(-1, 1, 5.0),
		{Kind: prior.Kind("dihedral"), AtomA: 0, AtomB: 1, Target: 5.0},
	}, nil)
	assert.Equal(t, coords, out,
		"constraints that reference nothing valid must not move anything")
}

func TestRefineCoincidentAtoms(t *testing.T) {
	coords := []pdb.Coords{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}
	require.NotPanics(t, func() {
		out := Default.Refine(coords, []prior.Constraint{
			distanceTo(0, 1, 5.0),
		}, nil)
		assert.Equal(t, coords, out,
			"a coincident pair has no gradient direction")
	})
}

func TestRefineEmptyCoords(t *testing.T) {
	out := Default.Refine(nil, []prior.Constraint{
		distanceTo(0, 1, 5.0),
	}, nil)
	assert.Empty(t, out)
}
