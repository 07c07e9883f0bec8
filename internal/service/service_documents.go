package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/oakstead/careledger/internal/blob"
	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

// documentService implements [DocumentService]. The binary content goes to
// the object store first; the metadata row is written only after the upload
// succeeds, so the database never references bytes that do not exist.
type documentService struct {
	documents store.DocumentRepository
	blob      blob.Store
	cfg       config.Blob
	uuidGen   *utils.UUIDGenerator
	clock     Clock
	logger    *logger.Logger
}

// NewDocumentService constructs a [DocumentService].
func NewDocumentService(documents store.DocumentRepository, blobStore blob.Store, cfg config.Blob, uuidGen *utils.UUIDGenerator, clock Clock, log *logger.Logger) DocumentService {
	log.Debug().Msg("creating document service")
	return &documentService{
		documents: documents,
		blob:      blobStore,
		cfg:       cfg,
		uuidGen:   uuidGen,
		clock:     clock,
		logger:    log,
	}
}

func (s *documentService) Upload(ctx context.Context, principal models.Principal, doc *models.Document, content io.Reader) error {
	log := logger.FromContext(ctx)

	if doc.ClientID <= 0 {
		return fmt.Errorf("%w: clientId is required", ErrValidation)
	}
	if !doc.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, doc.Category)
	}
	if doc.FileName == "" {
		return fmt.Errorf("%w: fileName is required", ErrValidation)
	}
	if doc.ContentType == "" {
		return fmt.Errorf("%w: contentType is required", ErrValidation)
	}
	if doc.SizeBytes <= 0 {
		return fmt.Errorf("%w: empty upload", ErrValidation)
	}

	key, err := blob.ObjectKey(doc.Category, "client", strconv.FormatInt(doc.ClientID, 10), doc.ContentType, s.uuidGen)
	if err != nil {
		return err
	}
	doc.Key = key
	doc.UploadedBy = principal.UserID
	doc.UploadedAt = s.clock()

	if err := s.blob.Put(ctx, key, content, doc.SizeBytes, doc.ContentType); err != nil {
		return err
	}

	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		// best effort rollback of the orphaned object
		if removeErr := s.blob.Remove(ctx, key); removeErr != nil {
			log.Err(removeErr).
				Str("func", "documentService.Upload").
				Str("key", key).
				Msg("failed to remove orphaned object after metadata write failure")
		}
		return err
	}

	return nil
}

func (s *documentService) Get(ctx context.Context, id int64) (models.Document, error) {
	return s.documents.GetDocument(ctx, id)
}

func (s *documentService) List(ctx context.Context, clientID int64, category models.DocumentCategory) ([]models.Document, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return s.documents.ListDocuments(ctx, clientID, category)
}

func (s *documentService) DownloadURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}

	return s.blob.SignedURL(ctx, doc.Key, s.cfg.SignedURLTTL)
}

func (s *documentService) Delete(ctx context.Context, principal models.Principal, id int64) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}

	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}

	// the metadata row is authoritative; a failed object removal only
	// leaks storage
	if err := s.blob.Remove(ctx, doc.Key); err != nil {
		s.logger.Err(err).
			Str("func", "documentService.Delete").
			Str("key", doc.Key).
			Msg("failed to remove object for deleted document")
	}

	return nil
}
