package prior

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// A Provider produces a structured JSON reply to a prompt. The backends,
// a deterministic stand-in and two hosted services, are selected at
// configuration time and used through this interface only.
type Provider interface {
	Complete(ctx context.Context, prompt string) (json.RawMessage, error)
}

// Request describes one low-confidence region for which a hypothesis is
// wanted.
type Request struct {
	// Sequence is the one-letter amino acid sequence of the region.
	Sequence string

	// Scores are the per-residue confidence scores of the region,
	// index-aligned with Sequence.
	Scores []float64

	// Context is an optional description of the biological environment of
	// the region, e.g. "folds into an amphipathic helix upon binding".
	Context string
}

// Propose asks the provider for a structural hypothesis about a region.
// A failure here means the caller should skip the region, not abort the
// run: the provider is an external collaborator with no hard guarantees.
func Propose(ctx context.Context, p Provider, req Request) (*Hypothesis, error) {
	raw, err := p.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}
	var hyp Hypothesis
	if err := json.Unmarshal(raw, &hyp); err != nil {
		return nil, fmt.Errorf("provider reply is not a hypothesis: %w", err)
	}
	return &hyp, nil
}

// stripFences removes a markdown code fence from around a reply, if there
// is one. Hosted models wrap JSON in fences often enough that every client
// has to cope.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
