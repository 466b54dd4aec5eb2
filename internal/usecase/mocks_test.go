package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memTxManager runs the callback directly; the in-memory repositories
// have no transactional behavior to coordinate.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[int64]*model.User
	byEmail map[string]*model.User
	nextID  int64
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[int64]*model.User{}, byEmail: map[string]*model.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrAlreadyExists
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

type memDocumentRepo struct {
	mu     sync.Mutex
	byID   map[int64]*model.Document
	nextID int64
}

var _ repository.DocumentRepository = (*memDocumentRepo)(nil)

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{byID: map[int64]*model.Document{}}
}

func (m *memDocumentRepo) Create(ctx context.Context, tx repository.Tx, d *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}

func (m *memDocumentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDocumentRepo) FindByIDs(ctx context.Context, tx repository.Tx, ids []int64) ([]*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.byID[id]; ok {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDocumentRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Document
	for _, d := range m.byID {
		if d.OwnerID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDocumentRepo) Rename(ctx context.Context, tx repository.Tx, id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.OriginalFilename = name
	return nil
}

func (m *memDocumentRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memChecklistRepo struct {
	mu     sync.Mutex
	byID   map[int64]*model.Checklist
	items  map[int64][]*model.ChecklistItem
	nextID int64
}

var _ repository.ChecklistRepository = (*memChecklistRepo)(nil)

func newMemChecklistRepo() *memChecklistRepo {
	return &memChecklistRepo{byID: map[int64]*model.Checklist{}, items: map[int64][]*model.ChecklistItem{}}
}

func (m *memChecklistRepo) Create(ctx context.Context, tx repository.Tx, c *model.Checklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memChecklistRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Checklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChecklistRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Checklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Checklist
	for _, c := range m.byID {
		if c.OwnerID == ownerID && !c.IsTemplate {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memChecklistRepo) ListTemplates(ctx context.Context, tx repository.Tx) ([]*model.Checklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Checklist
	for _, c := range m.byID {
		if c.IsTemplate {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memChecklistRepo) Update(ctx context.Context, tx repository.Tx, c *model.Checklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memChecklistRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.items, id)
	return nil
}

func (m *memChecklistRepo) AddItem(ctx context.Context, tx repository.Tx, item *model.ChecklistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = m.nextID
	cp := *item
	m.items[item.ChecklistID] = append(m.items[item.ChecklistID], &cp)
	return nil
}

func (m *memChecklistRepo) ListItems(ctx context.Context, tx repository.Tx, checklistID int64) ([]*model.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.ChecklistItem(nil), m.items[checklistID]...), nil
}

type memAnalysisRepo struct {
	mu      sync.Mutex
	byID    map[int64]*model.Analysis
	docIDs  map[int64][]int64
	results map[int64][]*model.AnalysisResult
	nextID  int64
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

// fakeQueue records submissions instead of scheduling anything.
type fakeQueue struct {
	mu       sync.Mutex
	enqueued []int64
}

var _ AnalysisQueue = (*fakeQueue)(nil)

func (f *fakeQueue) Enqueue(ctx context.Context, analysisID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, analysisID)
}

func (f *fakeQueue) Depth() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enqueued), 0
}
