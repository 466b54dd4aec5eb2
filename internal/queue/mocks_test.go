package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

//
// ---------------- in-memory repositories ----------------
//

type memAnalysisRepo struct {
	mu        sync.Mutex
	byID      map[int64]*model.Analysis
	docIDs    map[int64][]int64
	results   map[int64][]*model.AnalysisResult
	nextID    int64
	failSave  func(r *model.AnalysisResult) error
	saveCalls int
}

var _ repository.AnalysisRepository = (*memAnalysisRepo)(nil)

func newMemAnalysisRepo() *memAnalysisRepo {
	return &memAnalysisRepo{
		byID:    map[int64]*model.Analysis{},
		docIDs:  map[int64][]int64{},
		results: map[int64][]*model.AnalysisResult{},
	}
}

func (m *memAnalysisRepo) Create(ctx context.Context, tx repository.Tx, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAnalysisRepo) Save(ctx context.Context, tx repository.Tx, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	m.saveCalls++
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAnalysisRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAnalysisRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Analysis
	for _, a := range m.byID {
		if a.OwnerID == ownerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAnalysisRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memAnalysisRepo) AddDocument(ctx context.Context, tx repository.Tx, analysisID, documentID int64, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docIDs[analysisID] = append(m.docIDs[analysisID], documentID)
	return nil
}

func (m *memAnalysisRepo) ListDocumentIDs(ctx context.Context, tx repository.Tx, analysisID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.docIDs[analysisID]...), nil
}

func (m *memAnalysisRepo) SaveResult(ctx context.Context, tx repository.Tx, r *model.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		if err := m.failSave(r); err != nil {
			return err
		}
	}
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.results[r.AnalysisID] = append(m.results[r.AnalysisID], &cp)
	return nil
}

func (m *memAnalysisRepo) ListResults(ctx context.Context, tx repository.Tx, analysisID int64) ([]*model.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.AnalysisResult(nil), m.results[analysisID]...), nil
}

type memDocumentRepo struct {
	mu   sync.Mutex
	byID map[int64]*model.Document
}

var _ repository.DocumentRepository = (*memDocumentRepo)(nil)

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{byID: map[int64]*model.Document{}}
}

func (m *memDocumentRepo) Create(ctx context.Context, tx repository.Tx, d *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[d.ID] = d
	return nil
}

func (m *memDocumentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (m *memDocumentRepo) FindByIDs(ctx context.Context, tx repository.Tx, ids []int64) ([]*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocumentRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Document, error) {
	return nil, nil
}

func (m *memDocumentRepo) Rename(ctx context.Context, tx repository.Tx, id int64, name string) error {
	return nil
}

func (m *memDocumentRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	return nil
}

type memChecklistRepo struct {
	mu    sync.Mutex
	byID  map[int64]*model.Checklist
	items map[int64][]*model.ChecklistItem
}

var _ repository.ChecklistRepository = (*memChecklistRepo)(nil)

func newMemChecklistRepo() *memChecklistRepo {
	return &memChecklistRepo{
		byID:  map[int64]*model.Checklist{},
		items: map[int64][]*model.ChecklistItem{},
	}
}

func (m *memChecklistRepo) Create(ctx context.Context, tx repository.Tx, c *model.Checklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = c
	return nil
}

func (m *memChecklistRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Checklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *memChecklistRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Checklist, error) {
	return nil, nil
}

func (m *memChecklistRepo) ListTemplates(ctx context.Context, tx repository.Tx) ([]*model.Checklist, error) {
	return nil, nil
}

func (m *memChecklistRepo) Update(ctx context.Context, tx repository.Tx, c *model.Checklist) error {
	return nil
}

func (m *memChecklistRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	return nil
}

func (m *memChecklistRepo) AddItem(ctx context.Context, tx repository.Tx, item *model.ChecklistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ChecklistID] = append(m.items[item.ChecklistID], item)
	return nil
}

func (m *memChecklistRepo) ListItems(ctx context.Context, tx repository.Tx, checklistID int64) ([]*model.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.ChecklistItem(nil), m.items[checklistID]...), nil
}

//
// ---------------- notifier and unit fakes ----------------
//

type recordedUpdate struct {
	analysisID int64
	status     model.AnalysisStatus
	progress   *int
	errMsg     string
}

type fakeNotifier struct {
	mu           sync.Mutex
	queueUpdates []struct {
		ownerID         int64
		position, total int
	}
	updates []recordedUpdate
}

func (f *fakeNotifier) SendQueueUpdate(ownerID int64, position, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queueUpdates = append(f.queueUpdates, struct {
		ownerID         int64
		position, total int
	}{ownerID, position, total})
}

func (f *fakeNotifier) SendAnalysisUpdate(analysisID int64, status model.AnalysisStatus, progress *int, errMsg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, recordedUpdate{analysisID, status, progress, errMsg})
}

func (f *fakeNotifier) recorded() []recordedUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedUpdate(nil), f.updates...)
}

// fakeUnits returns a scripted outcome, optionally varying per unit.
type fakeUnits struct {
	mu      sync.Mutex
	calls   int
	outcome func(call int) *UnitOutcome
}

func (f *fakeUnits) Process(ctx context.Context, doc *model.Document, item *model.ChecklistItem, aiModel string) *UnitOutcome {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if f.outcome != nil {
		return f.outcome(n)
	}
	yes := true
	return &UnitOutcome{
		Answer:          "ok",
		ConditionResult: &yes,
		ConfidenceScore: 0.9,
		Evidence:        "quoted text",
		PageReferences:  []int{1},
	}
}

var errSaveBoom = errors.New("save failed")
