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

var _ repository.DocumentRepository = (*PostgresDocumentRepo)(nil)

type PostgresDocumentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresDocumentRepo(pool *pgxpool.Pool) *PostgresDocumentRepo {
	return &PostgresDocumentRepo{pool: pool}
}

const documentColumns = `id, filename, original_filename, file_path, file_size, mime_type, language, status, content, owner_id, created_at, updated_at`

func (r *PostgresDocumentRepo) Create(ctx context.Context, tx repository.Tx, d *model.Document) error {
	const q = `
INSERT INTO documents (filename, original_filename, file_path, file_size, mime_type, language, status, content, owner_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, created_at, updated_at;`
	row, err := pickRow(ctx, r.pool, tx, q,
		d.Filename, d.OriginalFilename, d.FilePath, d.FileSize, d.MimeType, d.Language, d.Status, d.Content, d.OwnerID)
	if err != nil {
		return err
	}
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *PostgresDocumentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Document, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+documentColumns+` FROM documents WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanDocument(row)
}

func (r *PostgresDocumentRepo) FindByIDs(ctx context.Context, tx repository.Tx, ids []int64) ([]*model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := pickRows(ctx, r.pool, tx, `SELECT `+documentColumns+` FROM documents WHERE id = ANY($1);`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*model.Document, len(ids))
	for rows.Next() {
		d, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's ordering; the pipeline depends on it.
	out := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		if d := byID[id]; d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *PostgresDocumentRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Document, error) {
	rows, err := pickRows(ctx, r.pool, tx, `SELECT `+documentColumns+` FROM documents WHERE owner_id=$1 ORDER BY created_at DESC;`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Document
	for rows.Next() {
		d, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresDocumentRepo) Rename(ctx context.Context, tx repository.Tx, id int64, originalFilename string) error {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE documents SET original_filename=$2, updated_at=now() WHERE id=$1;`, id, originalFilename)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresDocumentRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM documents WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*model.Document, error) {
	var d model.Document
	var status string
	if err := row.Scan(&d.ID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize, &d.MimeType,
		&d.Language, &status, &d.Content, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	d.Status = model.DocumentStatus(status)
	return &d, nil
}

func scanDocumentRows(rows pgx.Rows) (*model.Document, error) {
	var d model.Document
	var status string
	if err := rows.Scan(&d.ID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize, &d.MimeType,
		&d.Language, &status, &d.Content, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Status = model.DocumentStatus(status)
	return &d, nil
}
