package repository

import (
	"context"

	"tender-analysis-service/internal/domain/model"
)

type DocumentRepository interface {
	Create(ctx context.Context, tx Tx, d *model.Document) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Document, error)
	// FindByIDs returns the documents in the order of the given ids,
	// including extracted Content. Missing ids are skipped.
	FindByIDs(ctx context.Context, tx Tx, ids []int64) ([]*model.Document, error)
	ListByOwner(ctx context.Context, tx Tx, ownerID int64) ([]*model.Document, error)
	Rename(ctx context.Context, tx Tx, id int64, originalFilename string) error
	Delete(ctx context.Context, tx Tx, id int64) error
}
