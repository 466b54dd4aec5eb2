package model

import "time"

type ChecklistItemKind string

const (
	ItemKindQuestion  ChecklistItemKind = "question"
	ItemKindCondition ChecklistItemKind = "condition"
)

type Checklist struct {
	ID               int64
	Name             string
	Description      string
	Language         string
	IsTemplate       bool
	TemplateCategory string // german_tender | english_tender | custom
	OwnerID          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ChecklistItem is one question or condition to evaluate against each
// document. Items are immutable inputs to the pipeline; Position fixes
// the evaluation order.
type ChecklistItem struct {
	ID          int64
	ChecklistID int64
	Kind        ChecklistItemKind
	Text        string
	Required    bool
	Position    int
	CreatedAt   time.Time
}
