package repository

import (
	"context"

	"tender-analysis-service/internal/domain/model"
)

type ChecklistRepository interface {
	Create(ctx context.Context, tx Tx, c *model.Checklist) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Checklist, error)
	ListByOwner(ctx context.Context, tx Tx, ownerID int64) ([]*model.Checklist, error)
	ListTemplates(ctx context.Context, tx Tx) ([]*model.Checklist, error)
	Update(ctx context.Context, tx Tx, c *model.Checklist) error
	Delete(ctx context.Context, tx Tx, id int64) error

	AddItem(ctx context.Context, tx Tx, item *model.ChecklistItem) error
	// ListItems returns the checklist's items ordered by Position ascending.
	ListItems(ctx context.Context, tx Tx, checklistID int64) ([]*model.ChecklistItem, error)
}
