package prior

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// A NameResolver turns a UniProt accession into a human-readable protein
// name. Implemented by fetch.UniProt.
type NameResolver interface {
	ProteinName(ctx context.Context, accession string) (string, error)
}

// ContextAgent recovers the biological context of a protein (what its
// disordered region folds into and with which partner) by resolving the
// protein's name and asking the provider for a one-sentence structural
// summary. The summary feeds subsequent region prompts.
type ContextAgent struct {
	Provider Provider
	Names    NameResolver
	Logger   *slog.Logger
}

type contextReply struct {
	ProteinName      string `json:"protein_name"`
	BindingPartner   string `json:"binding_partner"`
	FoldingMechanism string `json:"folding_mechanism"`
	ContextSummary   string `json:"context_summary"`
}

// Context returns the structural context summary for the given accession.
// Any failure, including a reply without a summary, is an error the caller
// should treat as "run without context".
func (a ContextAgent) Context(ctx context.Context, accession string) (string, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := accession
	if a.Names != nil {
		resolved, err := a.Names.ProteinName(ctx, accession)
		if err != nil {
			logger.Warn("could not resolve protein name, using accession",
				"accession", accession, "err", err)
		} else {
			name = resolved
		}
	}
	logger.Info("querying provider for structural context",
		"protein", name, "accession", accession)

	raw, err := a.Provider.Complete(ctx, BuildContextPrompt(name, accession))
	if err != nil {
		return "", err
	}
	var reply contextReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("context reply is malformed: %w", err)
	}
	if reply.ContextSummary == "" {
		return "", fmt.Errorf("context reply has no summary")
	}
	logger.Info("context retrieved", "summary", reply.ContextSummary)
	return reply.ContextSummary, nil
}
