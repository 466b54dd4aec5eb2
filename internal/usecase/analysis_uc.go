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
var _ AnalysisUseCase = (*analysisUC)(nil)

// AnalysisQueue is the scheduler surface this use case needs; the queue
// package provides the real implementation.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, analysisID int64)
	Depth() (pending, processing int)
}

// ResultView is one persisted evaluation enriched with the checklist
// item it answered.
type ResultView struct {
	Result   *model.AnalysisResult
	ItemText string
	ItemKind model.ChecklistItemKind
}

// AnalysisDetail is an analysis with its enriched result rows.
type AnalysisDetail struct {
	Analysis *model.Analysis
	Results  []*ResultView
}

type AnalysisUseCase interface {
	Create(ctx context.Context, ownerID int64, name, aiModel string, checklistID int64, documentIDs []int64) (*model.Analysis, error)
	List(ctx context.Context, ownerID int64) ([]*model.Analysis, error)
	Get(ctx context.Context, ownerID, id int64) (*AnalysisDetail, error)
	Delete(ctx context.Context, ownerID, id int64) error
	QueueDepth() (pending, processing int)
}

type analysisUC struct {
	analyses   repository.AnalysisRepository
	documents  repository.DocumentRepository
	checklists repository.ChecklistRepository
	tm         repository.TransactionManager
	queue      AnalysisQueue
	defModel   string
	log        *zerolog.Logger
}

func NewAnalysisUseCase(
	analyses repository.AnalysisRepository,
	documents repository.DocumentRepository,
	checklists repository.ChecklistRepository,
	tm repository.TransactionManager,
	queue AnalysisQueue,
	defaultModel string,
	logger *zerolog.Logger,
) *analysisUC {
	compLog := logger.With().Str("component", "AnalysisUC").Logger()
	return &analysisUC{
		analyses:   analyses,
		documents:  documents,
		checklists: checklists,
		tm:         tm,
		queue:      queue,
		defModel:   defaultModel,
		log:        &compLog,
	}
}

func (a *analysisUC) Create(ctx context.Context, ownerID int64, name, aiModel string, checklistID int64, documentIDs []int64) (*model.Analysis, error) {
	defer logging.TraceDuration(a.log, "AnalysisUC.Create")()

	if strings.TrimSpace(name) == "" || len(documentIDs) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	if aiModel == "" {
		aiModel = a.defModel
	}

	cl, err := a.checklists.FindByID(ctx, repository.NoTX, checklistID)
	if err != nil {
		return nil, err
	}
	if !cl.IsTemplate && cl.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	docs, err := a.documents.FindByIDs(ctx, repository.NoTX, documentIDs)
	if err != nil {
		return nil, err
	}
	if len(docs) != len(documentIDs) {
		return nil, domain.ErrNotFound
	}
	for _, d := range docs {
		if d.OwnerID != ownerID {
			return nil, domain.ErrForbidden
		}
	}

	analysis := &model.Analysis{
		Name:        name,
		Status:      model.AnalysisStatusPending,
		AIModel:     aiModel,
		OwnerID:     ownerID,
		ChecklistID: checklistID,
	}

	// The analysis row and its document associations commit atomically;
	// the queue only ever sees a fully assembled job.
	err = a.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := a.analyses.Create(ctx, tx, analysis); err != nil {
			return err
		}
		for i, docID := range documentIDs {
			if err := a.analyses.AddDocument(ctx, tx, analysis.ID, docID, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info().Int64("analysis_id", analysis.ID).Int64("checklist_id", checklistID).
		Int("documents", len(documentIDs)).Msg("analysis created")

	a.queue.Enqueue(ctx, analysis.ID)
	return analysis, nil
}

func (a *analysisUC) List(ctx context.Context, ownerID int64) ([]*model.Analysis, error) {
	defer logging.TraceDuration(a.log, "AnalysisUC.List")()
	return a.analyses.ListByOwner(ctx, repository.NoTX, ownerID)
}

func (a *analysisUC) Get(ctx context.Context, ownerID, id int64) (*AnalysisDetail, error) {
	defer logging.TraceDuration(a.log, "AnalysisUC.Get")()

	analysis, err := a.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	results, err := a.analyses.ListResults(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}

	items, err := a.checklists.ListItems(ctx, repository.NoTX, analysis.ChecklistID)
	if err != nil {
		return nil, err
	}
	itemByID := make(map[int64]*model.ChecklistItem, len(items))
	for _, it := range items {
		itemByID[it.ID] = it
	}

	views := make([]*ResultView, 0, len(results))
	for _, r := range results {
		v := &ResultView{Result: r}
		if it := itemByID[r.ChecklistItemID]; it != nil {
			v.ItemText = it.Text
			v.ItemKind = it.Kind
		}
		views = append(views, v)
	}
	return &AnalysisDetail{Analysis: analysis, Results: views}, nil
}

func (a *analysisUC) Delete(ctx context.Context, ownerID, id int64) error {
	defer logging.TraceDuration(a.log, "AnalysisUC.Delete")()
	analysis, err := a.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	// Running jobs keep writing result rows; removing them mid-flight
	// would orphan the runner.
	if analysis.Status == model.AnalysisStatusProcessing {
		return domain.ErrInvalidArgument
	}
	return a.analyses.Delete(ctx, repository.NoTX, id)
}

func (a *analysisUC) QueueDepth() (pending, processing int) {
	return a.queue.Depth()
}

func (a *analysisUC) owned(ctx context.Context, ownerID, id int64) (*model.Analysis, error) {
	analysis, err := a.analyses.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if analysis.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return analysis, nil
}
