package repository

import (
	"context"

	"tender-analysis-service/internal/domain/model"
)

type AnalysisRepository interface {
	Create(ctx context.Context, tx Tx, a *model.Analysis) error
	// Save updates the mutable job fields: status, progress, error
	// message, processing time and completion timestamp.
	Save(ctx context.Context, tx Tx, a *model.Analysis) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Analysis, error)
	ListByOwner(ctx context.Context, tx Tx, ownerID int64) ([]*model.Analysis, error)
	Delete(ctx context.Context, tx Tx, id int64) error

	// AddDocument associates a document with the analysis; Position
	// fixes the order documents are evaluated in.
	AddDocument(ctx context.Context, tx Tx, analysisID, documentID int64, position int) error
	ListDocumentIDs(ctx context.Context, tx Tx, analysisID int64) ([]int64, error)

	SaveResult(ctx context.Context, tx Tx, r *model.AnalysisResult) error
	ListResults(ctx context.Context, tx Tx, analysisID int64) ([]*model.AnalysisResult, error)
}
