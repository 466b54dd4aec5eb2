package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
)

var _ repository.ChecklistRepository = (*PostgresChecklistRepo)(nil)

type PostgresChecklistRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresChecklistRepo(pool *pgxpool.Pool) *PostgresChecklistRepo {
	return &PostgresChecklistRepo{pool: pool}
}

const checklistColumns = `id, name, description, language, is_template, template_category, owner_id, created_at, updated_at`

func (r *PostgresChecklistRepo) Create(ctx context.Context, tx repository.Tx, c *model.Checklist) error {
	const q = `
INSERT INTO checklists (name, description, language, is_template, template_category, owner_id)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at, updated_at;`
	row, err := pickRow(ctx, r.pool, tx, q, c.Name, c.Description, c.Language, c.IsTemplate, c.TemplateCategory, c.OwnerID)
	if err != nil {
		return err
	}
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create checklist: %w", err)
	}
	return nil
}

func (r *PostgresChecklistRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Checklist, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+checklistColumns+` FROM checklists WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanChecklist(row)
}

func (r *PostgresChecklistRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Checklist, error) {
	return r.list(ctx, tx, `SELECT `+checklistColumns+` FROM checklists WHERE owner_id=$1 ORDER BY created_at DESC;`, ownerID)
}

func (r *PostgresChecklistRepo) ListTemplates(ctx context.Context, tx repository.Tx) ([]*model.Checklist, error) {
	return r.list(ctx, tx, `SELECT `+checklistColumns+` FROM checklists WHERE is_template ORDER BY template_category, name;`)
}

func (r *PostgresChecklistRepo) Update(ctx context.Context, tx repository.Tx, c *model.Checklist) error {
	tag, err := execSQL(ctx, r.pool, tx, `
UPDATE checklists SET name=$2, description=$3, language=$4, updated_at=now() WHERE id=$1;`,
		c.ID, c.Name, c.Description, c.Language)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresChecklistRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM checklists WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresChecklistRepo) AddItem(ctx context.Context, tx repository.Tx, item *model.ChecklistItem) error {
	const q = `
INSERT INTO checklist_items (checklist_id, kind, text, is_required, position)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at;`
	row, err := pickRow(ctx, r.pool, tx, q, item.ChecklistID, item.Kind, item.Text, item.Required, item.Position)
	if err != nil {
		return err
	}
	if err := row.Scan(&item.ID, &item.CreatedAt); err != nil {
		return fmt.Errorf("add checklist item: %w", err)
	}
	return nil
}

func (r *PostgresChecklistRepo) ListItems(ctx context.Context, tx repository.Tx, checklistID int64) ([]*model.ChecklistItem, error) {
	rows, err := pickRows(ctx, r.pool, tx, `
SELECT id, checklist_id, kind, text, is_required, position, created_at
  FROM checklist_items WHERE checklist_id=$1 ORDER BY position, id;`, checklistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ChecklistItem
	for rows.Next() {
		var it model.ChecklistItem
		var kind string
		if err := rows.Scan(&it.ID, &it.ChecklistID, &kind, &it.Text, &it.Required, &it.Position, &it.CreatedAt); err != nil {
			return nil, err
		}
		it.Kind = model.ChecklistItemKind(kind)
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *PostgresChecklistRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Checklist, error) {
	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Checklist
	for rows.Next() {
		var c model.Checklist
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Language, &c.IsTemplate, &c.TemplateCategory, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func scanChecklist(row pgx.Row) (*model.Checklist, error) {
	var c model.Checklist
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Language, &c.IsTemplate, &c.TemplateCategory, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
