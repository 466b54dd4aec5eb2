package adapter

import "context"

// Message is one prompt message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ModelInfo describes a model.
type ModelInfo struct {
	Name        string
	Description string
	MaxTokens   int
}

// AIEvaluator is the port for one completion call to an LLM provider.
// The pipeline sends a strict-JSON evaluation prompt and parses the
// raw text itself; adapters only move bytes.
type AIEvaluator interface {
	ListModels(ctx context.Context) ([]string, error)
	GetModelInfo(model string) (ModelInfo, error)

	// Complete returns the raw assistant text for the given messages.
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}
