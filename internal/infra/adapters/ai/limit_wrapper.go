package ai

import (
	"context"

	"tender-analysis-service/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.AIEvaluator = (*limitedAI)(nil)

type limitedAI struct {
	inner adapter.AIEvaluator
	sem   chan struct{}
}

// NewLimitedAI bounds the number of in-flight provider calls across all
// running jobs.
func NewLimitedAI(inner adapter.AIEvaluator, maxConcurrent int) adapter.AIEvaluator {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

func (l *limitedAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return l.inner.GetModelInfo(model)
}

func (l *limitedAI) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Complete(ctx, model, messages)
}
