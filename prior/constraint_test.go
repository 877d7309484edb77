package prior

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"refinery/plddt"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMapConstraints(t *testing.T) {
	region := plddt.Region{Start: 10, End: 20}

	t.Run("maps local indices into the global frame", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 4, DistanceAngstroms: 5.0, Type: "distance"},
		}, 100, discard)
		assert.Equal(t, []Constraint{
			{Kind: Distance, AtomA: 10, AtomB: 13, Target: 5.0},
		}, got)
	})

	t.Run("drops out-of-bounds proposals and keeps order", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 2, DistanceAngstroms: 5.0, Type: "distance"},
			{ResidueIndex1: 1, ResidueIndex2: 95, DistanceAngstroms: 5.0, Type: "distance"},
			{ResidueIndex1: 3, ResidueIndex2: 4, DistanceAngstroms: 6.0, Type: "distance"},
		}, 100, discard)
		assert.Equal(t, []Constraint{
			{Kind: Distance, AtomA: 10, AtomB: 11, Target: 5.0},
			{Kind: Distance, AtomA: 12, AtomB: 13, Target: 6.0},
		}, got)
	})

	t.Run("drops proposals missing a residue index", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 0, ResidueIndex2: 4, DistanceAngstroms: 5.0, Type: "distance"},
			{ResidueIndex1: 2, DistanceAngstroms: 5.0, Type: "distance"},
		}, 100, discard)
		assert.Empty(t, got)
	})

	t.Run("drops unknown constraint types", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 4, DistanceAngstroms: 5.0, Type: "dihedral"},
		}, 100, discard)
		assert.Empty(t, got)
	})

	t.Run("treats an empty type as distance", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 4, DistanceAngstroms: 5.0},
		}, 100, discard)
		assert.Len(t, got, 1)
		assert.Equal(t, Distance, got[0].Kind)
	})

	t.Run("fills in the default distance", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 4, Type: "distance"},
		}, 100, discard)
		assert.Len(t, got, 1)
		assert.Equal(t, DefaultDistance, got[0].Target)
	})

	t.Run("drops negative distances", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 4, DistanceAngstroms: -2.0, Type: "distance"},
		}, 100, discard)
		assert.Empty(t, got)
	})

	t.Run("takes implausible distances at their word", func(t *testing.T) {
		got := MapConstraints(region, []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 4, DistanceAngstroms: 500.0, Type: "distance"},
		}, 100, discard)
		assert.Len(t, got, 1)
		assert.Equal(t, 500.0, got[0].Target)
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			MapConstraints(region, []RawConstraint{
				{ResidueIndex1: 1, ResidueIndex2: 4, DistanceAngstroms: 5.0, Type: "distance"},
			}, 100, nil)
		})
	})
}

func TestConstraintString(t *testing.T) {
	c := Constraint{Kind: Distance, AtomA: 3, AtomB: 7, Target: 5.0}
	assert.Equal(t, "distance(3, 7) = 5.00A", c.String())
}
