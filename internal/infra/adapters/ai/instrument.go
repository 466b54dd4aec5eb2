package ai

import (
	"context"
	"time"

	"tender-analysis-service/internal/domain/ports/adapter"
	"tender-analysis-service/internal/infra/metrics"
)

var _ adapter.AIEvaluator = (*instrumentedAI)(nil)

type instrumentedAI struct {
	inner adapter.AIEvaluator
}

// NewInstrumentedAI records call latency and error counts per provider
// and model. Wrap the router, not the individual providers, so each
// pipeline call is observed exactly once.
func NewInstrumentedAI(inner adapter.AIEvaluator) adapter.AIEvaluator {
	return &instrumentedAI{inner: inner}
}

func (i *instrumentedAI) ListModels(ctx context.Context) ([]string, error) {
	return i.inner.ListModels(ctx)
}

func (i *instrumentedAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return i.inner.GetModelInfo(model)
}

func (i *instrumentedAI) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	start := time.Now()
	out, err := i.inner.Complete(ctx, model, messages)
	provider := ResolveProvider(model)
	if provider == "" {
		provider = "default"
	}
	metrics.ObserveEvaluatorCall(provider, model, int(time.Since(start).Milliseconds()), err == nil)
	return out, err
}
