package queue

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// evalPayload is the structured form of one evaluator response.
type evalPayload struct {
	Answer          string
	ConditionResult *bool
	ConfidenceScore float64
	Evidence        string
	PageReferences  []int
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	digitRun     = regexp.MustCompile(`\d+`)
)

// parseEvaluation extracts the JSON object the evaluator was asked to
// produce from its raw text output. Models wrap answers in markdown
// fences, leak control characters and occasionally emit single-quoted
// pseudo-JSON; each gets one repair pass before giving up.
func parseEvaluation(raw string) (*evalPayload, error) {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)
	text = controlChars.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if !(strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")) {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start == -1 || end <= start {
			return nil, errors.New("no JSON object in response")
		}
		text = text[start : end+1]
	}

	fields, err := decodeObject(text)
	if err != nil {
		// Single repair pass: models sometimes single-quote the JSON.
		fields, err = decodeObject(strings.ReplaceAll(text, "'", `"`))
		if err != nil {
			return nil, errors.New("invalid JSON in response")
		}
	}

	p := &evalPayload{
		Answer:          asString(fields["answer"], ""),
		ConditionResult: asBoolPtr(fields["condition_result"]),
		ConfidenceScore: asFloat(fields["confidence_score"], 0.5),
		Evidence:        asString(fields["evidence"], ""),
		PageReferences:  NormalizePageReferences(fields["page_references"]),
	}
	return p, nil
}

func stripCodeFence(text string) string {
	marker := "```json"
	idx := strings.Index(text, marker)
	if idx == -1 {
		marker = "```"
		idx = strings.Index(text, marker)
	}
	if idx == -1 {
		return text
	}
	start := idx + len(marker)
	end := strings.Index(text[start:], "```")
	if end == -1 {
		return text
	}
	return strings.TrimSpace(text[start : start+end])
}

func decodeObject(text string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// NormalizePageReferences coerces whatever page list the evaluator
// produced into integers: numbers pass through, page-like strings keep
// their leading number ("section 2.1" -> 2), digit-free strings default
// to page 1, and a missing field yields an empty list.
func NormalizePageReferences(v any) []int {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return []int{}
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case float64:
			out = append(out, int(t))
		case string:
			if m := digitRun.FindString(t); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					out = append(out, n)
					continue
				}
			}
			out = append(out, 1)
		default:
			out = append(out, 1)
		}
	}
	return out
}

func asString(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func asFloat(v any, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}

func asBoolPtr(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		if b, err := strconv.ParseBool(strings.ToLower(t)); err == nil {
			return &b
		}
	}
	return nil
}
