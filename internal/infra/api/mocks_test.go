package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tender-analysis-service/internal/config"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/infra/notify"
	"tender-analysis-service/internal/usecase"
)

// Function-field fakes keep each test in charge of exactly the calls it
// expects; unset fields panic, which is the failure we want.

type fakeUserUC struct {
	register     func(ctx context.Context, email, username, fullName, password string) (*model.User, error)
	authenticate func(ctx context.Context, email, password string) (*model.User, error)
	get          func(ctx context.Context, id int64) (*model.User, error)
}

var _ usecase.UserUseCase = (*fakeUserUC)(nil)

func (f *fakeUserUC) Register(ctx context.Context, email, username, fullName, password string) (*model.User, error) {
	return f.register(ctx, email, username, fullName, password)
}

func (f *fakeUserUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	return f.authenticate(ctx, email, password)
}

func (f *fakeUserUC) Get(ctx context.Context, id int64) (*model.User, error) {
	return f.get(ctx, id)
}

type fakeDocumentUC struct {
	upload func(ctx context.Context, ownerID int64, originalFilename, mimeType string, data []byte) (*model.Document, error)
	list   func(ctx context.Context, ownerID int64) ([]*model.Document, error)
	get    func(ctx context.Context, ownerID, id int64) (*model.Document, error)
	rename func(ctx context.Context, ownerID, id int64, newName string) (*model.Document, error)
	del    func(ctx context.Context, ownerID, id int64) error
}

var _ usecase.DocumentUseCase = (*fakeDocumentUC)(nil)

func (f *fakeDocumentUC) Upload(ctx context.Context, ownerID int64, originalFilename, mimeType string, data []byte) (*model.Document, error) {
	return f.upload(ctx, ownerID, originalFilename, mimeType, data)
}

func (f *fakeDocumentUC) List(ctx context.Context, ownerID int64) ([]*model.Document, error) {
	return f.list(ctx, ownerID)
}

func (f *fakeDocumentUC) Get(ctx context.Context, ownerID, id int64) (*model.Document, error) {
	return f.get(ctx, ownerID, id)
}

func (f *fakeDocumentUC) Rename(ctx context.Context, ownerID, id int64, newName string) (*model.Document, error) {
	return f.rename(ctx, ownerID, id, newName)
}

func (f *fakeDocumentUC) Delete(ctx context.Context, ownerID, id int64) error {
	return f.del(ctx, ownerID, id)
}

type fakeChecklistUC struct {
	create        func(ctx context.Context, ownerID int64, name, description, language string, items []usecase.NewItem) (*usecase.ChecklistWithItems, error)
	list          func(ctx context.Context, ownerID int64) ([]*model.Checklist, error)
	listTemplates func(ctx context.Context) ([]*model.Checklist, error)
	get           func(ctx context.Context, ownerID, id int64) (*usecase.ChecklistWithItems, error)
	update        func(ctx context.Context, ownerID, id int64, name, description string) (*model.Checklist, error)
	del           func(ctx context.Context, ownerID, id int64) error
	addItem       func(ctx context.Context, ownerID, checklistID int64, item usecase.NewItem) (*model.ChecklistItem, error)
}

var _ usecase.ChecklistUseCase = (*fakeChecklistUC)(nil)

func (f *fakeChecklistUC) Create(ctx context.Context, ownerID int64, name, description, language string, items []usecase.NewItem) (*usecase.ChecklistWithItems, error) {
	return f.create(ctx, ownerID, name, description, language, items)
}

func (f *fakeChecklistUC) List(ctx context.Context, ownerID int64) ([]*model.Checklist, error) {
	return f.list(ctx, ownerID)
}

func (f *fakeChecklistUC) ListTemplates(ctx context.Context) ([]*model.Checklist, error) {
	return f.listTemplates(ctx)
}

func (f *fakeChecklistUC) Get(ctx context.Context, ownerID, id int64) (*usecase.ChecklistWithItems, error) {
	return f.get(ctx, ownerID, id)
}

func (f *fakeChecklistUC) Update(ctx context.Context, ownerID, id int64, name, description string) (*model.Checklist, error) {
	return f.update(ctx, ownerID, id, name, description)
}

func (f *fakeChecklistUC) Delete(ctx context.Context, ownerID, id int64) error {
	return f.del(ctx, ownerID, id)
}

func (f *fakeChecklistUC) AddItem(ctx context.Context, ownerID, checklistID int64, item usecase.NewItem) (*model.ChecklistItem, error) {
	return f.addItem(ctx, ownerID, checklistID, item)
}

type fakeAnalysisUC struct {
	create     func(ctx context.Context, ownerID int64, name, aiModel string, checklistID int64, documentIDs []int64) (*model.Analysis, error)
	list       func(ctx context.Context, ownerID int64) ([]*model.Analysis, error)
	get        func(ctx context.Context, ownerID, id int64) (*usecase.AnalysisDetail, error)
	del        func(ctx context.Context, ownerID, id int64) error
	pending    int
	processing int
}

var _ usecase.AnalysisUseCase = (*fakeAnalysisUC)(nil)

func (f *fakeAnalysisUC) Create(ctx context.Context, ownerID int64, name, aiModel string, checklistID int64, documentIDs []int64) (*model.Analysis, error) {
	return f.create(ctx, ownerID, name, aiModel, checklistID, documentIDs)
}

func (f *fakeAnalysisUC) List(ctx context.Context, ownerID int64) ([]*model.Analysis, error) {
	return f.list(ctx, ownerID)
}

func (f *fakeAnalysisUC) Get(ctx context.Context, ownerID, id int64) (*usecase.AnalysisDetail, error) {
	return f.get(ctx, ownerID, id)
}

func (f *fakeAnalysisUC) Delete(ctx context.Context, ownerID, id int64) error {
	return f.del(ctx, ownerID, id)
}

func (f *fakeAnalysisUC) QueueDepth() (int, int) {
	return f.pending, f.processing
}

type serverFixture struct {
	server    *Server
	user      *fakeUserUC
	document  *fakeDocumentUC
	checklist *fakeChecklistUC
	analysis  *fakeAnalysisUC
	tokens    *TokenIssuer
}

func newServerFixture() *serverFixture {
	log := zerolog.Nop()
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Upload.MaxFileSize = 1 << 20

	user := &fakeUserUC{}
	document := &fakeDocumentUC{}
	checklist := &fakeChecklistUC{}
	analysis := &fakeAnalysisUC{}
	tokens := NewTokenIssuer("test-secret", time.Hour)
	hub := notify.NewHub(&log)

	return &serverFixture{
		server:    NewServer(cfg, user, document, checklist, analysis, hub, tokens, &log),
		user:      user,
		document:  document,
		checklist: checklist,
		analysis:  analysis,
		tokens:    tokens,
	}
}
