package prior

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OpenAIConfig configures the OpenAI chat-completions backend. The zero
// value is not usable; start from DefaultOpenAI and fill in the APIKey.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// DefaultOpenAI provides sane defaults for the OpenAI backend.
var DefaultOpenAI = OpenAIConfig{
	Model:   "gpt-4o",
	BaseURL: "https://api.openai.com/v1",
	Client:  http.DefaultClient,
}

type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	ResponseFormat openaiFormat    `json:"response_format"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiFormat struct {
	Type string `json:"type"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt to the configured OpenAI model in JSON mode and
// returns the JSON object it replied with.
func (conf OpenAIConfig) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	body, err := json.Marshal(openaiRequest{
		Model: conf.Model,
		Messages: []openaiMessage{
			{Role: "system", Content: "You are a helpful assistant that outputs JSON."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: openaiFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		conf.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+conf.APIKey)

	resp, err := conf.client().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai request failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var reply openaiResponse
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("malformed openai response: %w", err)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("openai response has no choices")
	}

	text := stripFences(reply.Choices[0].Message.Content)
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("openai reply is not valid JSON")
	}
	return json.RawMessage(text), nil
}

func (conf OpenAIConfig) client() *http.Client {
	if conf.Client != nil {
		return conf.Client
	}
	return http.DefaultClient
}
