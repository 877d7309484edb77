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

// RCSB fetches experimental structures from the RCSB Protein Data Bank.
type RCSB struct {
	Dir     string
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

const rcsbBaseURL = "https://files.rcsb.org/download"

// Fetch downloads the PDB file for the given 4-character PDB ID and
// returns its local path.
func (f RCSB) Fetch(ctx context.Context, pdbID string) (string, error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", err
	}
	base := f.BaseURL
	if base == "" {
		base = rcsbBaseURL
	}

	pdbID = strings.ToLower(pdbID)
	path := filepath.Join(f.Dir, pdbID+".pdb")
	url := fmt.Sprintf("%s/%s.pdb", base, pdbID)
	if err := download(ctx, orDefault(f.Client), orDiscard(f.Logger), url, path); err != nil {
		return "", err
	}
	return path, nil
}
