package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/adapter"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
)

// UnitOutcome is the payload produced for one (item, document) pair.
// A degraded outcome stands in for an evaluator failure: undetermined
// condition, zero confidence, no evidence.
type UnitOutcome struct {
	Answer          string
	ConditionResult *bool
	ConfidenceScore float64
	Evidence        string
	PageReferences  []int
	Degraded        bool
}

// UnitProcessor evaluates one document against one checklist item.
// Process never returns an error: evaluator and parse failures are
// absorbed into a degraded outcome so the runner needs no unit-level
// error handling beyond logging.
type UnitProcessor interface {
	Process(ctx context.Context, doc *model.Document, item *model.ChecklistItem, aiModel string) *UnitOutcome
}

type unitProcessor struct {
	ai           adapter.AIEvaluator
	promptBudget int // max document tokens sent per evaluation
	timeout      time.Duration
	log          *zerolog.Logger
}

var _ UnitProcessor = (*unitProcessor)(nil)

func NewUnitProcessor(ai adapter.AIEvaluator, promptBudget int, timeout time.Duration, logger *zerolog.Logger) UnitProcessor {
	compLog := logger.With().Str("component", "UnitProcessor").Logger()
	return &unitProcessor{
		ai:           ai,
		promptBudget: promptBudget,
		timeout:      timeout,
		log:          &compLog,
	}
}

const systemPrompt = `You are an expert at analyzing German and English tender documents.
Your task is to answer questions and evaluate conditions based on the provided document content.

For questions: Provide a clear, concise answer based on the document content.
For conditions: Evaluate whether the condition is true or false AND provide a detailed explanation of your evaluation.

Always provide:
1. A clear answer or detailed evaluation explanation
2. Supporting evidence as an exact text match copied verbatim from the document; if no direct evidence is found, set "evidence" to "-"
3. Page references as integers only (e.g., [1, 2, 3], not ["page 1", "section 2"])
4. A confidence score between 0.0 and 1.0

CRITICAL: You MUST respond with ONLY valid JSON, nothing else:
{
    "answer": "Your detailed answer or evaluation explanation here",
    "condition_result": true,
    "confidence_score": 0.95,
    "evidence": "Exact supporting text from the document or '-' if not available",
    "page_references": [1, 2, 3]
}

IMPORTANT RULES:
    - "answer" must contain a detailed explanation for both questions and conditions
    - For conditions, the "answer" should explain WHY the condition is met or not met
    - "evidence" must be a verbatim quote from the document, no paraphrasing or summaries
    - If no matching text exists, use "-" as evidence and set a lower confidence score
    - "page_references" must be an array of integers only, never strings
    - For questions, set "condition_result" to null
    - For conditions, set "condition_result" to true or false`

func (p *unitProcessor) Process(ctx context.Context, doc *model.Document, item *model.ChecklistItem, aiModel string) *UnitOutcome {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	content := p.truncate(doc.Content)
	user := fmt.Sprintf("Document Content:\n--- Document: %s ---\n%s\n\nTask: %s\nText: %s\n\nAnalyze this and respond with ONLY the JSON object as specified in the system prompt.",
		doc.OriginalFilename, content, strings.ToUpper(string(item.Kind)), item.Text)

	raw, err := p.ai.Complete(ctx, aiModel, []adapter.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	})
	if err != nil {
		p.log.Error().Err(err).Int64("item_id", item.ID).Int64("document_id", doc.ID).Msg("evaluator call failed")
		return degradedOutcome("Unable to analyze due to evaluator error: " + err.Error())
	}

	payload, err := parseEvaluation(raw)
	if err != nil {
		p.log.Error().Err(err).Int64("item_id", item.ID).Int64("document_id", doc.ID).Msg("evaluator returned malformed response")
		return degradedOutcome("Unable to analyze: evaluator returned malformed response: " + err.Error())
	}

	out := &UnitOutcome{
		Answer:          payload.Answer,
		ConditionResult: payload.ConditionResult,
		ConfidenceScore: payload.ConfidenceScore,
		Evidence:        payload.Evidence,
		PageReferences:  payload.PageReferences,
	}
	if item.Kind == model.ItemKindQuestion {
		// Questions never carry a boolean verdict, whatever the model said.
		out.ConditionResult = nil
	}
	return out
}

// truncate caps the document text at the configured token budget so a
// large tender cannot blow the provider's context window.
func (p *unitProcessor) truncate(text string) string {
	if p.promptBudget <= 0 {
		return text
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// No encoder available: fall back to a crude byte cap (~4 bytes/token).
		if max := p.promptBudget * 4; len(text) > max {
			return text[:max]
		}
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= p.promptBudget {
		return text
	}
	return enc.Decode(tokens[:p.promptBudget])
}

func degradedOutcome(answer string) *UnitOutcome {
	return &UnitOutcome{
		Answer:          answer,
		ConditionResult: nil,
		ConfidenceScore: 0.0,
		Evidence:        "-",
		PageReferences:  []int{},
		Degraded:        true,
	}
}
