// Package prior turns externally proposed structural hypotheses into
// validated, globally indexed geometric constraints.
//
// Hypotheses come from interchangeable provider backends (a deterministic
// stand-in and two hosted language-model services) that all speak the same
// JSON wire format: a secondary structure call, a confidence grade, prose
// reasoning, and a list of pairwise distance constraints indexed 1-based
// relative to the submitted region sequence.
package prior

import (
	"fmt"
	"log/slog"

	"refinery/plddt"
)

// Kind enumerates the closed set of constraint types. Only pairwise
// distance constraints exist today.
type Kind string

// Distance constrains the Euclidean distance between two atoms.
const Distance Kind = "distance"

// DefaultDistance is the target used when a proposed constraint omits its
// distance, in angstroms.
const DefaultDistance = 5.0

// RawConstraint is a single proposed constraint as it appears on the wire:
// 1-based residue indices local to the region the provider was shown.
type RawConstraint struct {
	ResidueIndex1     int     `json:"residue_index_1"`
	ResidueIndex2     int     `json:"residue_index_2"`
	DistanceAngstroms float64 `json:"distance_angstroms"`
	Type              string  `json:"type"`
}

// Hypothesis is a provider's structured answer for one region.
type Hypothesis struct {
	SecondaryStructurePrediction string          `json:"secondary_structure_prediction"`
	Confidence                   string          `json:"confidence"`
	Reasoning                    string          `json:"reasoning"`
	Constraints                  []RawConstraint `json:"constraints"`
}

// Constraint is a validated constraint in the global structure frame:
// 0-based atom indices into the run's coordinate set.
type Constraint struct {
	Kind   Kind
	AtomA  int
	AtomB  int
	Target float64
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s(%d, %d) = %.2fA", c.Kind, c.AtomA, c.AtomB, c.Target)
}

// MapConstraints converts region-local proposed constraints into global
// constraints for a structure of n tracked atoms. The global index of a
// local index i is region.Start + i - 1.
//
// Proposals that are unusable (a missing residue index, an unknown type, a
// non-positive distance, or a mapped index outside [0, n)) are dropped and
// logged, never fatal. The output preserves the input order of the
// surviving proposals.
//
// No upper sanity bound is applied to the proposed distance: a provider
// proposing a wildly implausible separation gets taken at its word, and
// such proposals are only made visible through the log. Rejecting negative
// distances at all goes one step further than pure type coercion; a
// negative target is not a distance, and letting one through would have
// the optimizer chase an unsatisfiable objective. Whether implausibly
// large distances should likewise be rejected is an open modeling
// question.
func MapConstraints(region plddt.Region, raws []RawConstraint, n int,
	logger *slog.Logger) []Constraint {

	if logger == nil {
		logger = slog.Default()
	}
	constraints := make([]Constraint, 0, len(raws))
	for i, raw := range raws {
		if raw.ResidueIndex1 < 1 || raw.ResidueIndex2 < 1 {
			logger.Warn("dropping constraint with missing residue index",
				"position", i,
				"residue_index_1", raw.ResidueIndex1,
				"residue_index_2", raw.ResidueIndex2)
			continue
		}
		kind := Kind(raw.Type)
		if raw.Type == "" {
			kind = Distance
		}
		if kind != Distance {
			logger.Warn("dropping constraint of unknown type",
				"position", i, "type", raw.Type)
			continue
		}
		target := raw.DistanceAngstroms
		if target == 0 {
			target = DefaultDistance
		}
		if target < 0 {
			logger.Warn("dropping constraint with negative distance",
				"position", i, "distance", raw.DistanceAngstroms)
			continue
		}

		a := region.Start + raw.ResidueIndex1 - 1
		b := region.Start + raw.ResidueIndex2 - 1
		if a < 0 || a >= n || b < 0 || b >= n {
			logger.Warn("dropping out-of-bounds constraint",
				"position", i, "atom_a", a, "atom_b", b, "atoms", n)
			continue
		}

		c := Constraint{Kind: kind, AtomA: a, AtomB: b, Target: target}
		logger.Debug("mapped constraint", "constraint", c.String())
		constraints = append(constraints, c)
	}
	return constraints
}
