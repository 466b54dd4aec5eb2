package queue

import (
	"context"
	"sync"

	"tender-analysis-service/internal/domain/ports/notifier"
	"tender-analysis-service/internal/domain/ports/repository"
	"tender-analysis-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// JobRunner executes one admitted analysis job to a terminal state.
type JobRunner interface {
	Run(ctx context.Context, analysisID int64)
}

// Manager is the scheduler for analysis jobs: it holds pending job IDs
// in admission order, enforces a global concurrency cap and launches a
// runner per admitted job. Submit and drain serialize on one mutex so
// a submit racing a job-finished signal cannot double-admit.
type Manager struct {
	mu         sync.Mutex
	pending    []int64
	processing map[int64]struct{}
	capacity   int

	runner   JobRunner
	analyses repository.AnalysisRepository
	notify   notifier.AnalysisNotifier
	log      *zerolog.Logger

	// baseCtx bounds runner lifetimes; canceling it stops admitted jobs
	// on shutdown.
	baseCtx context.Context
	wg      sync.WaitGroup
}

func NewManager(
	baseCtx context.Context,
	capacity int,
	runner JobRunner,
	analyses repository.AnalysisRepository,
	notify notifier.AnalysisNotifier,
	logger *zerolog.Logger,
) *Manager {
	if capacity <= 0 {
		capacity = 2
	}
	compLog := logger.With().Str("component", "AnalysisQueue").Logger()
	return &Manager{
		pending:    make([]int64, 0, 8),
		processing: make(map[int64]struct{}),
		capacity:   capacity,
		runner:     runner,
		analyses:   analyses,
		notify:     notify,
		log:        &compLog,
		baseCtx:    baseCtx,
	}
}

// Enqueue adds an analysis to the queue. Re-adding an ID that is
// already pending or processing is a no-op. The job's owner is told
// its queue position, then a drain attempt admits whatever capacity
// allows.
func (m *Manager) Enqueue(ctx context.Context, analysisID int64) {
	m.mu.Lock()
	if _, busy := m.processing[analysisID]; busy {
		m.mu.Unlock()
		m.log.Debug().Int64("analysis_id", analysisID).Msg("already processing, ignoring enqueue")
		return
	}
	for _, id := range m.pending {
		if id == analysisID {
			m.mu.Unlock()
			m.log.Debug().Int64("analysis_id", analysisID).Msg("already queued, ignoring enqueue")
			return
		}
	}
	m.pending = append(m.pending, analysisID)
	position := len(m.pending) - 1 // jobs ahead of this one
	total := len(m.pending)
	m.mu.Unlock()

	m.log.Info().Int64("analysis_id", analysisID).Int("position", position).Msg("analysis queued")

	if a, err := m.analyses.FindByID(ctx, nil, analysisID); err == nil {
		m.notify.SendQueueUpdate(a.OwnerID, position, total)
	} else {
		m.log.Error().Err(err).Int64("analysis_id", analysisID).Msg("could not load analysis for queue notification")
	}

	m.drain()
}

// drain admits pending jobs while capacity is free. Safe to call at
// any time; a no-op when the queue is empty or all slots are taken.
func (m *Manager) drain() {
	m.mu.Lock()
	for len(m.pending) > 0 && len(m.processing) < m.capacity {
		id := m.pending[0]
		m.pending = m.pending[1:]
		m.processing[id] = struct{}{}
		m.log.Info().Int64("analysis_id", id).Msg("starting analysis")
		m.wg.Add(1)
		go m.runOne(id)
	}
	metrics.SetQueueDepth(len(m.pending), len(m.processing))
	m.mu.Unlock()
}

func (m *Manager) runOne(analysisID int64) {
	defer m.wg.Done()
	defer m.onJobFinished(analysisID)
	m.runner.Run(m.baseCtx, analysisID)
}

func (m *Manager) onJobFinished(analysisID int64) {
	m.mu.Lock()
	delete(m.processing, analysisID)
	metrics.SetQueueDepth(len(m.pending), len(m.processing))
	m.mu.Unlock()
	m.drain()
}

// Wait blocks until all admitted jobs have finished. Used on shutdown
// after canceling the base context.
func (m *Manager) Wait() { m.wg.Wait() }

// Depth reports the current pending and processing counts.
func (m *Manager) Depth() (pending, processing int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending), len(m.processing)
}
