package prior

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiConfig configures the Google GenerativeLanguage backend. The zero
// value is not usable; start from DefaultGemini and fill in the APIKey.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// DefaultGemini provides sane defaults for the Gemini backend. For example:
//
//	conf := prior.DefaultGemini
//	conf.APIKey = key
//	hyp, err := prior.Propose(ctx, conf, req)
var DefaultGemini = GeminiConfig{
	Model:   "gemini-2.0-flash",
	BaseURL: "https://generativelanguage.googleapis.com/v1beta",
	Client:  http.DefaultClient,
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt to the configured Gemini model and returns the
// JSON object it replied with.
func (conf GeminiConfig) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		conf.BaseURL, conf.Model, conf.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := conf.client().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini request failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var reply geminiResponse
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("malformed gemini response: %w", err)
	}
	if len(reply.Candidates) == 0 || len(reply.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	text := stripFences(reply.Candidates[0].Content.Parts[0].Text)
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("gemini reply is not valid JSON")
	}
	return json.RawMessage(text), nil
}

func (conf GeminiConfig) client() *http.Client {
	if conf.Client != nil {
		return conf.Client
	}
	return http.DefaultClient
}
