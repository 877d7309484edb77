// Package fetch downloads the external inputs of a refinement run: a
// predicted model and its confidence profile from the AlphaFold database,
// an experimental reference structure from RCSB, and protein names from
// UniProt. Every fetcher caches into a local directory and skips files it
// already has.
//
// All fetchers are narrow external collaborators: a failure is an error the
// caller answers by skipping the dependent step, never by aborting the run
// on its own.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
)

// userAgent is sent on every download; some mirrors reject the Go default.
const userAgent = "Mozilla/5.0 (compatible; refinery/1.0)"

// download fetches url into path unless path already exists. A non-200
// status is an error; nothing is written in that case.
func download(ctx context.Context, client *http.Client, logger *slog.Logger,
	url, path string) error {

	if _, err := os.Stat(path); err == nil {
		logger.Debug("file already cached", "path", path)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("downloading", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("downloaded", "url", url, "path", path)
	return nil
}

func orDefault(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return http.DefaultClient
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
