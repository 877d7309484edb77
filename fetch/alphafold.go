package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AlphaFold fetches predicted models and their confidence JSON files from
// the AlphaFold Protein Structure Database.
type AlphaFold struct {
	// Dir is the download cache directory. It is created on first use.
	Dir string

	// BaseURL overrides the database file endpoint; tests point it at a
	// local server.
	BaseURL string

	Client *http.Client
	Logger *slog.Logger
}

const alphafoldBaseURL = "https://alphafold.ebi.ac.uk/files"

// modelVersions are tried newest first; the database keeps only the most
// recent version of each entry online.
var modelVersions = []string{"v6", "v5", "v4", "v3", "v2", "v1"}

// Fetch downloads the model PDB and confidence JSON for a UniProt
// accession, trying each model version and, if the bare accession fails,
// the explicit isoform-1 form of it. It returns the local paths of the two
// files.
func (f AlphaFold) Fetch(ctx context.Context, uniprotID string) (pdbPath, jsonPath string, err error) {
	logger := orDiscard(f.Logger)
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", "", err
	}
	base := f.BaseURL
	if base == "" {
		base = alphafoldBaseURL
	}

	// Some entries require the explicit isoform-1 suffix, others reject
	// it. If the caller already gave an isoform, try only that.
	ids := []string{uniprotID}
	if !strings.Contains(uniprotID, "-") {
		ids = append(ids, uniprotID+"-1")
	}

	for _, id := range ids {
		for _, version := range modelVersions {
			pdbName := fmt.Sprintf("AF-%s-F1-model_%s.pdb", id, version)
			jsonName := fmt.Sprintf("AF-%s-F1-confidence_%s.json", id, version)
			pdbPath = filepath.Join(f.Dir, pdbName)
			jsonPath = filepath.Join(f.Dir, jsonName)

			logger.Debug("trying alphafold entry", "id", id, "version", version)
			err = download(ctx, orDefault(f.Client), logger,
				base+"/"+pdbName, pdbPath)
			if err != nil {
				continue
			}
			err = download(ctx, orDefault(f.Client), logger,
				base+"/"+jsonName, jsonPath)
			if err != nil {
				continue
			}
			logger.Info("fetched alphafold entry", "id", id, "version", version)
			return pdbPath, jsonPath, nil
		}
	}
	return "", "", fmt.Errorf("no alphafold entry found for %s "+
		"(tried versions %s-%s and isoform 1)",
		uniprotID, modelVersions[0], modelVersions[len(modelVersions)-1])
}
