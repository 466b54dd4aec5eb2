package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"tender-analysis-service/internal/domain/ports/adapter"
)

var _ adapter.AIEvaluator = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
	maxOut       int
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	models := g.client.Models.All(ctx)
	var out []string
	for m := range models {
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 && g.defaultModel != "" {
		out = []string{g.defaultModel}
	}
	return out, nil
}

func (g *GeminiAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	ctx := context.Background()
	m, err := g.client.Models.Get(ctx, model, nil)
	if err != nil {
		// Return minimal info on error so callers are not blocked.
		return adapter.ModelInfo{Name: model}, nil
	}
	return adapter.ModelInfo{
		Name:        m.Name,
		Description: m.Description,
		MaxTokens:   int(m.InputTokenLimit),
	}, nil
}

func (g *GeminiAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("gemini: no messages")
	}

	// Gemini takes the system prompt via config, not as a turn.
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxOut),
	}
	var contents []*genai.Content
	for _, m := range messages {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "system":
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
			continue
		case "assistant", "model":
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelOrDefault(model, g.defaultModel), contents, cfg)
	if err != nil {
		return "", err
	}
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			return t, nil
		}
	}
	return "", errors.New("gemini: empty response")
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
