package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
)

var _ repository.AnalysisRepository = (*PostgresAnalysisRepo)(nil)

type PostgresAnalysisRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresAnalysisRepo(pool *pgxpool.Pool) *PostgresAnalysisRepo {
	return &PostgresAnalysisRepo{pool: pool}
}

const analysisColumns = `id, name, status, ai_model, progress, error_message, processing_time, owner_id, checklist_id, created_at, completed_at`

func (r *PostgresAnalysisRepo) Create(ctx context.Context, tx repository.Tx, a *model.Analysis) error {
	const q = `
INSERT INTO analyses (name, status, ai_model, owner_id, checklist_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at;`
	row, err := pickRow(ctx, r.pool, tx, q, a.Name, a.Status, a.AIModel, a.OwnerID, a.ChecklistID)
	if err != nil {
		return err
	}
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

func (r *PostgresAnalysisRepo) Save(ctx context.Context, tx repository.Tx, a *model.Analysis) error {
	tag, err := execSQL(ctx, r.pool, tx, `
UPDATE analyses
   SET status=$2, progress=$3, error_message=$4, processing_time=$5, completed_at=$6
 WHERE id=$1;`,
		a.ID, a.Status, a.Progress, a.ErrorMessage, a.ProcessingTime, a.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresAnalysisRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Analysis, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+analysisColumns+` FROM analyses WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	a, err := scanAnalysis(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *PostgresAnalysisRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Analysis, error) {
	rows, err := pickRows(ctx, r.pool, tx, `SELECT `+analysisColumns+` FROM analyses WHERE owner_id=$1 ORDER BY created_at DESC;`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresAnalysisRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM analyses WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresAnalysisRepo) AddDocument(ctx context.Context, tx repository.Tx, analysisID, documentID int64, position int) error {
	_, err := execSQL(ctx, r.pool, tx, `
INSERT INTO analysis_documents (analysis_id, document_id, position)
VALUES ($1,$2,$3)
ON CONFLICT (analysis_id, document_id) DO NOTHING;`,
		analysisID, documentID, position)
	return err
}

func (r *PostgresAnalysisRepo) ListDocumentIDs(ctx context.Context, tx repository.Tx, analysisID int64) ([]int64, error) {
	rows, err := pickRows(ctx, r.pool, tx, `
SELECT document_id FROM analysis_documents WHERE analysis_id=$1 ORDER BY position, document_id;`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PostgresAnalysisRepo) SaveResult(ctx context.Context, tx repository.Tx, res *model.AnalysisResult) error {
	pages := res.PageReferences
	if pages == nil {
		pages = []int{}
	}
	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("encode page references: %w", err)
	}
	const q = `
INSERT INTO analysis_results
  (analysis_id, checklist_item_id, document_id, document_name, answer, condition_result, confidence_score, evidence, page_references)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, created_at;`
	row, err := pickRow(ctx, r.pool, tx, q,
		res.AnalysisID, res.ChecklistItemID, res.DocumentID, res.DocumentName,
		res.Answer, res.ConditionResult, res.ConfidenceScore, res.Evidence, pagesJSON)
	if err != nil {
		return err
	}
	if err := row.Scan(&res.ID, &res.CreatedAt); err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	return nil
}

func (r *PostgresAnalysisRepo) ListResults(ctx context.Context, tx repository.Tx, analysisID int64) ([]*model.AnalysisResult, error) {
	rows, err := pickRows(ctx, r.pool, tx, `
SELECT id, analysis_id, checklist_item_id, document_id, document_name,
       answer, condition_result, confidence_score, evidence, page_references, created_at
  FROM analysis_results WHERE analysis_id=$1 ORDER BY id;`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AnalysisResult
	for rows.Next() {
		var res model.AnalysisResult
		var pagesJSON []byte
		if err := rows.Scan(&res.ID, &res.AnalysisID, &res.ChecklistItemID, &res.DocumentID, &res.DocumentName,
			&res.Answer, &res.ConditionResult, &res.ConfidenceScore, &res.Evidence, &pagesJSON, &res.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(pagesJSON, &res.PageReferences); err != nil {
			return nil, fmt.Errorf("decode page references: %w", err)
		}
		if res.PageReferences == nil {
			res.PageReferences = []int{}
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

func scanAnalysis(row pgx.Row) (*model.Analysis, error) {
	var a model.Analysis
	var status string
	if err := row.Scan(&a.ID, &a.Name, &status, &a.AIModel, &a.Progress, &a.ErrorMessage,
		&a.ProcessingTime, &a.OwnerID, &a.ChecklistID, &a.CreatedAt, &a.CompletedAt); err != nil {
		return nil, err
	}
	a.Status = model.AnalysisStatus(status)
	return &a, nil
}
