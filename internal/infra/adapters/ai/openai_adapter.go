package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"tender-analysis-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AIEvaluator = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.AIEvaluator using the official SDK's
// Chat Completions API.
type OpenAIAdapter struct {
	client openai.Client
	model  string
	maxOut int
}

func NewOpenAIAdapter(apiKey, model string, maxOut int) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxOut <= 0 {
		maxOut = 1000
	}
	return &OpenAIAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		maxOut: maxOut,
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

func (o *OpenAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	if model == "" {
		model = o.model
	}
	return adapter.ModelInfo{
		Name:        model,
		Description: "OpenAI Chat Completions model",
		MaxTokens:   o.maxOut,
	}, nil
}

func (o *OpenAIAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if model == "" {
		model = o.model
	}

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			params = append(params, openai.SystemMessage(m.Content))
		case "assistant":
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(model),
		Messages:            params,
		MaxCompletionTokens: openai.Int(int64(o.maxOut)),
	})
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}
