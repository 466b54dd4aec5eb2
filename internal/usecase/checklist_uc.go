package usecase

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
	"tender-analysis-service/internal/infra/logging"
)

// Compile-time check
var _ ChecklistUseCase = (*checklistUC)(nil)

// NewItem is one item of a checklist create request.
type NewItem struct {
	Kind     model.ChecklistItemKind
	Text     string
	Required bool
}

// ChecklistWithItems pairs a checklist with its ordered items.
type ChecklistWithItems struct {
	Checklist *model.Checklist
	Items     []*model.ChecklistItem
}

type ChecklistUseCase interface {
	Create(ctx context.Context, ownerID int64, name, description, language string, items []NewItem) (*ChecklistWithItems, error)
	List(ctx context.Context, ownerID int64) ([]*model.Checklist, error)
	ListTemplates(ctx context.Context) ([]*model.Checklist, error)
	Get(ctx context.Context, ownerID, id int64) (*ChecklistWithItems, error)
	Update(ctx context.Context, ownerID, id int64, name, description string) (*model.Checklist, error)
	Delete(ctx context.Context, ownerID, id int64) error
	AddItem(ctx context.Context, ownerID, checklistID int64, item NewItem) (*model.ChecklistItem, error)
}

type checklistUC struct {
	checklists repository.ChecklistRepository
	tm         repository.TransactionManager
	log        *zerolog.Logger
}

func NewChecklistUseCase(checklists repository.ChecklistRepository, tm repository.TransactionManager, logger *zerolog.Logger) *checklistUC {
	compLog := logger.With().Str("component", "ChecklistUC").Logger()
	return &checklistUC{
		checklists: checklists,
		tm:         tm,
		log:        &compLog,
	}
}

func (c *checklistUC) Create(ctx context.Context, ownerID int64, name, description, language string, items []NewItem) (*ChecklistWithItems, error) {
	defer logging.TraceDuration(c.log, "ChecklistUC.Create")()

	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if language == "" {
		language = "de"
	}
	for _, it := range items {
		if it.Kind != model.ItemKindQuestion && it.Kind != model.ItemKindCondition {
			return nil, domain.ErrInvalidArgument
		}
		if strings.TrimSpace(it.Text) == "" {
			return nil, domain.ErrInvalidArgument
		}
	}

	cl := &model.Checklist{
		Name:        name,
		Description: description,
		Language:    language,
		OwnerID:     ownerID,
	}
	var created []*model.ChecklistItem

	// Checklist and items land together or not at all.
	err := c.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := c.checklists.Create(ctx, tx, cl); err != nil {
			return err
		}
		for i, it := range items {
			item := &model.ChecklistItem{
				ChecklistID: cl.ID,
				Kind:        it.Kind,
				Text:        it.Text,
				Required:    it.Required,
				Position:    i,
			}
			if err := c.checklists.AddItem(ctx, tx, item); err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Int64("checklist_id", cl.ID).Int("items", len(created)).Msg("checklist created")
	return &ChecklistWithItems{Checklist: cl, Items: created}, nil
}

func (c *checklistUC) List(ctx context.Context, ownerID int64) ([]*model.Checklist, error) {
	defer logging.TraceDuration(c.log, "ChecklistUC.List")()
	return c.checklists.ListByOwner(ctx, repository.NoTX, ownerID)
}

func (c *checklistUC) ListTemplates(ctx context.Context) ([]*model.Checklist, error) {
	defer logging.TraceDuration(c.log, "ChecklistUC.ListTemplates")()
	return c.checklists.ListTemplates(ctx, repository.NoTX)
}

func (c *checklistUC) Get(ctx context.Context, ownerID, id int64) (*ChecklistWithItems, error) {
	defer logging.TraceDuration(c.log, "ChecklistUC.Get")()
	cl, err := c.accessible(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	items, err := c.checklists.ListItems(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	return &ChecklistWithItems{Checklist: cl, Items: items}, nil
}

func (c *checklistUC) Update(ctx context.Context, ownerID, id int64, name, description string) (*model.Checklist, error) {
	defer logging.TraceDuration(c.log, "ChecklistUC.Update")()
	cl, err := c.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) != "" {
		cl.Name = name
	}
	cl.Description = description
	if err := c.checklists.Update(ctx, repository.NoTX, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *checklistUC) Delete(ctx context.Context, ownerID, id int64) error {
	defer logging.TraceDuration(c.log, "ChecklistUC.Delete")()
	if _, err := c.owned(ctx, ownerID, id); err != nil {
		return err
	}
	return c.checklists.Delete(ctx, repository.NoTX, id)
}

func (c *checklistUC) AddItem(ctx context.Context, ownerID, checklistID int64, item NewItem) (*model.ChecklistItem, error) {
	defer logging.TraceDuration(c.log, "ChecklistUC.AddItem")()
	if item.Kind != model.ItemKindQuestion && item.Kind != model.ItemKindCondition {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(item.Text) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := c.owned(ctx, ownerID, checklistID); err != nil {
		return nil, err
	}
	existing, err := c.checklists.ListItems(ctx, repository.NoTX, checklistID)
	if err != nil {
		return nil, err
	}
	it := &model.ChecklistItem{
		ChecklistID: checklistID,
		Kind:        item.Kind,
		Text:        item.Text,
		Required:    item.Required,
		Position:    len(existing),
	}
	if err := c.checklists.AddItem(ctx, repository.NoTX, it); err != nil {
		return nil, err
	}
	return it, nil
}

// accessible allows templates for everyone and private checklists for
// their owner only.
func (c *checklistUC) accessible(ctx context.Context, ownerID, id int64) (*model.Checklist, error) {
	cl, err := c.checklists.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if !cl.IsTemplate && cl.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return cl, nil
}

// owned requires direct ownership; templates cannot be mutated through
// the user-facing API.
func (c *checklistUC) owned(ctx context.Context, ownerID, id int64) (*model.Checklist, error) {
	cl, err := c.checklists.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if cl.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return cl, nil
}
