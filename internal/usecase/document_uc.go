package usecase

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
	"tender-analysis-service/internal/infra/extract"
	"tender-analysis-service/internal/infra/logging"
	redisinfra "tender-analysis-service/internal/infra/redis"
)

// Compile-time check
var _ DocumentUseCase = (*documentUC)(nil)

// DocumentUseCase covers the document lifecycle: upload with text
// extraction, listing, rename and delete.
type DocumentUseCase interface {
	Upload(ctx context.Context, ownerID int64, originalFilename, mimeType string, data []byte) (*model.Document, error)
	List(ctx context.Context, ownerID int64) ([]*model.Document, error)
	Get(ctx context.Context, ownerID, id int64) (*model.Document, error)
	Rename(ctx context.Context, ownerID, id int64, newName string) (*model.Document, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type documentUC struct {
	documents repository.DocumentRepository
	tm        repository.TransactionManager
	cache     *redisinfra.DocumentCache
	uploadDir string
	log       *zerolog.Logger
}

func NewDocumentUseCase(
	documents repository.DocumentRepository,
	tm repository.TransactionManager,
	cache *redisinfra.DocumentCache,
	uploadDir string,
	logger *zerolog.Logger,
) *documentUC {
	compLog := logger.With().Str("component", "DocumentUC").Logger()
	return &documentUC{
		documents: documents,
		tm:        tm,
		cache:     cache,
		uploadDir: uploadDir,
		log:       &compLog,
	}
}

func (d *documentUC) Upload(ctx context.Context, ownerID int64, originalFilename, mimeType string, data []byte) (*model.Document, error) {
	defer logging.TraceDuration(d.log, "DocumentUC.Upload")()

	if !strings.HasSuffix(strings.ToLower(originalFilename), ".pdf") {
		return nil, domain.ErrInvalidArgument
	}
	if len(data) == 0 {
		return nil, domain.ErrInvalidArgument
	}

	stored := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String() + ".pdf"
	path := filepath.Join(d.uploadDir, stored)
	if err := os.MkdirAll(d.uploadDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	doc := &model.Document{
		Filename:         stored,
		OriginalFilename: originalFilename,
		FilePath:         path,
		FileSize:         int64(len(data)),
		MimeType:         mimeType,
		Language:         "de",
		Status:           model.DocumentStatusUploaded,
		OwnerID:          ownerID,
	}

	content, err := extract.PDFText(data)
	if err != nil {
		d.log.Warn().Err(err).Str("filename", originalFilename).Msg("text extraction failed")
		doc.Status = model.DocumentStatusError
	} else {
		doc.Content = content
		doc.Language = extract.DetectLanguage(content)
		doc.Status = model.DocumentStatusProcessed
	}

	err = d.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return d.documents.Create(ctx, tx, doc)
	})
	if err != nil {
		// Do not leave orphaned files around.
		_ = os.Remove(path)
		return nil, err
	}

	if d.cache != nil && doc.Content != "" {
		if err := d.cache.StoreContent(ctx, doc.ID, doc.Content); err != nil {
			d.log.Warn().Err(err).Int64("document_id", doc.ID).Msg("content cache write failed")
		}
	}

	d.log.Info().Int64("document_id", doc.ID).Str("language", doc.Language).
		Int64("size", doc.FileSize).Msg("document uploaded")
	return doc, nil
}

func (d *documentUC) List(ctx context.Context, ownerID int64) ([]*model.Document, error) {
	defer logging.TraceDuration(d.log, "DocumentUC.List")()
	return d.documents.ListByOwner(ctx, repository.NoTX, ownerID)
}

func (d *documentUC) Get(ctx context.Context, ownerID, id int64) (*model.Document, error) {
	defer logging.TraceDuration(d.log, "DocumentUC.Get")()
	doc, err := d.documents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

func (d *documentUC) Rename(ctx context.Context, ownerID, id int64, newName string) (*model.Document, error) {
	defer logging.TraceDuration(d.log, "DocumentUC.Rename")()
	if strings.TrimSpace(newName) == "" {
		return nil, domain.ErrInvalidArgument
	}
	doc, err := d.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(newName), ".pdf") {
		newName += ".pdf"
	}
	if err := d.documents.Rename(ctx, repository.NoTX, id, newName); err != nil {
		return nil, err
	}
	doc.OriginalFilename = newName
	return doc, nil
}

func (d *documentUC) Delete(ctx context.Context, ownerID, id int64) error {
	defer logging.TraceDuration(d.log, "DocumentUC.Delete")()
	doc, err := d.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := d.documents.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
		d.log.Warn().Err(err).Str("path", doc.FilePath).Msg("stored file removal failed")
	}
	if d.cache != nil {
		if err := d.cache.DeleteContent(ctx, id); err != nil {
			d.log.Warn().Err(err).Int64("document_id", id).Msg("content cache delete failed")
		}
	}
	return nil
}
