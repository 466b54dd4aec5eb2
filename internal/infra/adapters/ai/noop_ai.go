package ai

import (
	"context"
	"time"

	"tender-analysis-service/internal/domain/ports/adapter"
)

var _ adapter.AIEvaluator = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIEvaluator for local/dev runs. It
// returns a canned evaluation payload instead of calling a provider.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

const noopPayload = `{"answer": "Not determinable from local test run.", "condition_result": null, "confidence_score": 0.5, "evidence": "-", "page_references": []}`

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}

func (a *NoopAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        "noop-model",
		Description: "Canned evaluator for local testing",
		MaxTokens:   1024,
	}, nil
}

func (a *NoopAIAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return noopPayload, nil
}
