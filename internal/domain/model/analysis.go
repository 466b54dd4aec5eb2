package model

import "time"

type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// Analysis is one request to evaluate a checklist against a set of
// documents. While the job is running it is owned exclusively by its
// runner; Progress is monotonic non-decreasing and reaches 100 on
// completion.
type Analysis struct {
	ID             int64
	Name           string
	Status         AnalysisStatus
	AIModel        string
	Progress       int
	ErrorMessage   string
	ProcessingTime float64 // seconds, set on completion
	OwnerID        int64
	ChecklistID    int64
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// AnalysisResult is the outcome of evaluating one checklist item
// against one document. Rows are written once and never mutated; a
// failed unit leaves a gap instead of a placeholder row.
type AnalysisResult struct {
	ID              int64
	AnalysisID      int64
	ChecklistItemID int64
	DocumentID      int64
	DocumentName    string
	Answer          string
	ConditionResult *bool // nil for questions and undetermined conditions
	ConfidenceScore float64
	Evidence        string // exact substring of the document, or "-" when none found
	PageReferences  []int
	CreatedAt       time.Time
}
