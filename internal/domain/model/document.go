package model

import "time"

type DocumentStatus string

const (
	DocumentStatusUploaded  DocumentStatus = "uploaded"
	DocumentStatusProcessed DocumentStatus = "processed"
	DocumentStatusError     DocumentStatus = "error"
)

// Document is an uploaded PDF plus the text extracted from it.
// Content is what the analysis pipeline actually evaluates.
type Document struct {
	ID               int64
	Filename         string // stored name on disk, unique
	OriginalFilename string
	FilePath         string
	FileSize         int64
	MimeType         string
	Language         string // "de" | "en"
	Status           DocumentStatus
	Content          string
	OwnerID          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
