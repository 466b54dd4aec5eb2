package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tender-analysis-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AIEvaluator = (*AnthropicAdapter)(nil)

// AnthropicAdapter implements adapter.AIEvaluator against the Anthropic
// Messages API. The API takes the system prompt as a top-level field,
// not as a message, so Complete splits it out of the message list.
type AnthropicAdapter struct {
	apiKey string
	base   string // e.g., https://api.anthropic.com/v1
	model  string
	maxOut int
	client *http.Client
}

func NewAnthropicAdapter(apiKey, model string, maxOut int) (*AnthropicAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key empty")
	}
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	if maxOut <= 0 {
		maxOut = 1000
	}
	return &AnthropicAdapter{
		apiKey: apiKey,
		base:   "https://api.anthropic.com/v1",
		model:  model,
		maxOut: maxOut,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (a *AnthropicAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{a.model}, nil
}

func (a *AnthropicAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	if model == "" {
		model = a.model
	}
	return adapter.ModelInfo{
		Name:        model,
		Description: "Anthropic Messages API model",
		MaxTokens:   a.maxOut,
	}, nil
}

func (a *AnthropicAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if model == "" {
		model = a.model
	}

	var system string
	chat := make([]adapter.Message, 0, len(messages))
	for _, m := range messages {
		if strings.ToLower(m.Role) == "system" {
			system = m.Content
			continue
		}
		chat = append(chat, m)
	}

	reqBody := struct {
		Model     string            `json:"model"`
		MaxTokens int               `json:"max_tokens"`
		System    string            `json:"system,omitempty"`
		Messages  []adapter.Message `json:"messages"`
	}{Model: model, MaxTokens: a.maxOut, System: system, Messages: chat}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/messages", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic http %d", resp.StatusCode)
	}

	var payload struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	for _, c := range payload.Content {
		if c.Type == "text" && c.Text != "" {
			return c.Text, nil
		}
	}
	return "", errors.New("no text content")
}
