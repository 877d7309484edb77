package prior

import (
	"context"
	"encoding/json"
)

// Mock is the deterministic stand-in provider: no network, no API key, the
// same plausible helix hypothesis for every prompt. It keeps the rest of
// the pipeline exercised when no hosted backend is configured, and it is
// the backend tests run against.
//
// Replies from Mock are not authoritative structural priors and must never
// be mistaken for modeling output.
type Mock struct{}

func (Mock) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	hyp := Hypothesis{
		SecondaryStructurePrediction: "Helix",
		Confidence:                   "Medium",
		Reasoning: "Sequence shows periodicity typical of alpha helices.",
		Constraints: []RawConstraint{
			{ResidueIndex1: 1, ResidueIndex2: 5, DistanceAngstroms: 6.2, Type: "distance"},
			{ResidueIndex1: 2, ResidueIndex2: 6, DistanceAngstroms: 6.2, Type: "distance"},
		},
	}
	return json.Marshal(hyp)
}
