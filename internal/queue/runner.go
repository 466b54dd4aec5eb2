package queue

import (
	"time"

	"context"

	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/notifier"
	"tender-analysis-service/internal/domain/ports/repository"
	"tender-analysis-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Runner owns the lifecycle of one analysis job: it loads the job's
// documents and checklist items, walks the (item, document) units in
// display order, persists results and resolves the terminal status.
// Units are evaluated strictly sequentially; a failed unit is logged
// and skipped, never aborting the job.
type Runner struct {
	analyses   repository.AnalysisRepository
	documents  repository.DocumentRepository
	checklists repository.ChecklistRepository
	units      UnitProcessor
	notify     notifier.AnalysisNotifier
	log        *zerolog.Logger
}

var _ JobRunner = (*Runner)(nil)

func NewRunner(
	analyses repository.AnalysisRepository,
	documents repository.DocumentRepository,
	checklists repository.ChecklistRepository,
	units UnitProcessor,
	notify notifier.AnalysisNotifier,
	logger *zerolog.Logger,
) *Runner {
	compLog := logger.With().Str("component", "AnalysisRunner").Logger()
	return &Runner{
		analyses:   analyses,
		documents:  documents,
		checklists: checklists,
		units:      units,
		notify:     notify,
		log:        &compLog,
	}
}

func (r *Runner) Run(ctx context.Context, analysisID int64) {
	log := r.log.With().Int64("analysis_id", analysisID).Logger()

	a, err := r.analyses.FindByID(ctx, nil, analysisID)
	if err != nil {
		log.Error().Err(err).Msg("analysis not found")
		return
	}

	a.Status = model.AnalysisStatusProcessing
	a.Progress = 0
	if err := r.analyses.Save(ctx, nil, a); err != nil {
		r.fail(ctx, a, &log, "could not mark analysis as processing: "+err.Error())
		return
	}
	r.notify.SendAnalysisUpdate(a.ID, model.AnalysisStatusProcessing, intPtr(0), "")
	log.Info().Str("name", a.Name).Msg("processing analysis")

	docIDs, err := r.analyses.ListDocumentIDs(ctx, nil, a.ID)
	if err != nil {
		r.fail(ctx, a, &log, "could not resolve analysis documents: "+err.Error())
		return
	}
	docs, err := r.documents.FindByIDs(ctx, nil, docIDs)
	if err != nil {
		r.fail(ctx, a, &log, "could not load documents: "+err.Error())
		return
	}
	checklist, err := r.checklists.FindByID(ctx, nil, a.ChecklistID)
	if err != nil || len(docs) == 0 {
		r.fail(ctx, a, &log, "missing documents or checklist")
		return
	}
	items, err := r.checklists.ListItems(ctx, nil, checklist.ID)
	if err != nil {
		r.fail(ctx, a, &log, "could not load checklist items: "+err.Error())
		return
	}

	total := len(items) * len(docs)
	started := time.Now()
	completed := 0

	for _, item := range items {
		for _, doc := range docs {
			// Progress reflects work started, so broadcast before the unit runs.
			pct := 0
			if total > 0 {
				pct = completed * 100 / total
			}
			r.notify.SendAnalysisUpdate(a.ID, model.AnalysisStatusProcessing, intPtr(pct), "")
			completed++

			outcome := r.units.Process(ctx, doc, item, a.AIModel)

			row := &model.AnalysisResult{
				AnalysisID:      a.ID,
				ChecklistItemID: item.ID,
				DocumentID:      doc.ID,
				DocumentName:    doc.OriginalFilename,
				Answer:          outcome.Answer,
				ConditionResult: outcome.ConditionResult,
				ConfidenceScore: outcome.ConfidenceScore,
				Evidence:        outcome.Evidence,
				PageReferences:  outcome.PageReferences,
			}
			if err := r.analyses.SaveResult(ctx, nil, row); err != nil {
				log.Error().Err(err).
					Int64("item_id", item.ID).
					Int64("document_id", doc.ID).
					Msg("could not save result, skipping unit")
				metrics.IncAnalysisUnit("save_failed")
				continue
			}
			if outcome.Degraded {
				metrics.IncAnalysisUnit("degraded")
			} else {
				metrics.IncAnalysisUnit("ok")
			}
			log.Debug().Int64("item_id", item.ID).Int64("document_id", doc.ID).Msg("unit processed")
		}
	}

	now := time.Now()
	a.Status = model.AnalysisStatusCompleted
	a.Progress = 100
	a.CompletedAt = &now
	a.ProcessingTime = time.Since(started).Seconds()
	if err := r.analyses.Save(ctx, nil, a); err != nil {
		r.fail(ctx, a, &log, "could not mark analysis as completed: "+err.Error())
		return
	}
	metrics.IncAnalysisJob(string(model.AnalysisStatusCompleted))
	r.notify.SendAnalysisUpdate(a.ID, model.AnalysisStatusCompleted, intPtr(100), "")
	log.Info().Str("name", a.Name).Dur("took", time.Since(started)).Msg("completed analysis")
}

// fail moves the job to its failed terminal state. Setup errors are
// fatal and never retried; a new submission is the only retry path.
func (r *Runner) fail(ctx context.Context, a *model.Analysis, log *zerolog.Logger, msg string) {
	log.Error().Str("error", msg).Msg("analysis failed")
	a.Status = model.AnalysisStatusFailed
	a.ErrorMessage = msg
	if err := r.analyses.Save(ctx, nil, a); err != nil {
		log.Error().Err(err).Msg("could not persist failed status")
	}
	metrics.IncAnalysisJob(string(model.AnalysisStatusFailed))
	r.notify.SendAnalysisUpdate(a.ID, model.AnalysisStatusFailed, nil, msg)
}

func intPtr(v int) *int { return &v }
