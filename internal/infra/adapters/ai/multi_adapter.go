package ai

import (
	"context"
	"errors"
	"strings"

	"tender-analysis-service/internal/domain/ports/adapter"
)

var _ adapter.AIEvaluator = (*MultiAIAdapter)(nil)

// MultiAIAdapter routes each call to a provider adapter by model name
// prefix: claude* to anthropic, gpt*/o* to openai, gemini* to gemini.
type MultiAIAdapter struct {
	defaultProvider string
	byProvider      map[string]adapter.AIEvaluator
}

// NewMultiAIAdapter does not inject any default model; it only knows a
// default provider. Each provider adapter carries its own default model.
func NewMultiAIAdapter(defaultProvider string, byProvider map[string]adapter.AIEvaluator) *MultiAIAdapter {
	return &MultiAIAdapter{
		defaultProvider: strings.ToLower(defaultProvider),
		byProvider:      byProvider,
	}
}

// ResolveProvider maps a model name to a provider key.
func ResolveProvider(model string) string {
	l := strings.ToLower(model)
	switch {
	case strings.HasPrefix(l, "claude"):
		return "anthropic"
	case strings.HasPrefix(l, "gpt"), strings.HasPrefix(l, "o1"), strings.HasPrefix(l, "o3"):
		return "openai"
	case strings.HasPrefix(l, "gemini"):
		return "gemini"
	default:
		return ""
	}
}

func (m *MultiAIAdapter) pick(model string) adapter.AIEvaluator {
	prov := ResolveProvider(model)
	if prov == "" {
		prov = m.defaultProvider
	}
	if a := m.byProvider[prov]; a != nil {
		return a
	}
	// last resort: first available
	for _, a := range m.byProvider {
		if a != nil {
			return a
		}
	}
	return nil
}

func (m *MultiAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, a := range m.byProvider {
		list, _ := a.ListModels(ctx)
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	return out, nil
}

func (m *MultiAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	a := m.pick(model)
	if a == nil {
		return adapter.ModelInfo{Name: model}, nil
	}
	return a.GetModelInfo(model)
}

func (m *MultiAIAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	a := m.pick(model)
	if a == nil {
		return "", errors.New("no provider configured for model " + model)
	}
	return a.Complete(ctx, model, messages)
}
