package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// UniProt resolves accessions to protein names through the UniProtKB REST
// API.
type UniProt struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

const uniprotBaseURL = "https://rest.uniprot.org/uniprotkb"

type uniprotEntry struct {
	ProteinDescription struct {
		RecommendedName struct {
			FullName struct {
				Value string `json:"value"`
			} `json:"fullName"`
		} `json:"recommendedName"`
		SubmissionNames []struct {
			FullName struct {
				Value string `json:"value"`
			} `json:"fullName"`
		} `json:"submissionNames"`
	} `json:"proteinDescription"`
}

// ProteinName returns the recommended full name for the accession, falling
// back to the first submission name. If neither is present the accession
// itself is returned, so callers always get a usable label.
func (f UniProt) ProteinName(ctx context.Context, accession string) (string, error) {
	base := f.BaseURL
	if base == "" {
		base = uniprotBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s.json", base, accession), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := orDefault(f.Client).Do(req)
	if err != nil {
		return "", fmt.Errorf("uniprot lookup for %s: %w", accession, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("uniprot lookup for %s: HTTP %d",
			accession, resp.StatusCode)
	}

	var entry uniprotEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return "", fmt.Errorf("uniprot lookup for %s: %w", accession, err)
	}
	if name := entry.ProteinDescription.RecommendedName.FullName.Value; name != "" {
		return name, nil
	}
	if ns := entry.ProteinDescription.SubmissionNames; len(ns) > 0 {
		if name := ns[0].FullName.Value; name != "" {
			return name, nil
		}
	}
	orDiscard(f.Logger).Warn("uniprot entry has no usable name",
		"accession", accession)
	return accession, nil
}
