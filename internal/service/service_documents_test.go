package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/oakstead/careledger/internal/blob"
	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDocumentRepository is a function-field test double for
// [store.DocumentRepository].
type mockDocumentRepository struct {
	saveDocumentFunc   func(ctx context.Context, doc *models.Document) error
	getDocumentFunc    func(ctx context.Context, id int64) (models.Document, error)
	listDocumentsFunc  func(ctx context.Context, clientID int64, category models.DocumentCategory) ([]models.Document, error)
	deleteDocumentFunc func(ctx context.Context, id int64) error
}

func (m *mockDocumentRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	return m.saveDocumentFunc(ctx, doc)
}

func (m *mockDocumentRepository) GetDocument(ctx context.Context, id int64) (models.Document, error) {
	return m.getDocumentFunc(ctx, id)
}

func (m *mockDocumentRepository) ListDocuments(ctx context.Context, clientID int64, category models.DocumentCategory) ([]models.Document, error) {
	return m.listDocumentsFunc(ctx, clientID, category)
}

func (m *mockDocumentRepository) DeleteDocument(ctx context.Context, id int64) error {
	return m.deleteDocumentFunc(ctx, id)
}

// mockBlobStore is a function-field test double for [blob.Store].
type mockBlobStore struct {
	putFunc       func(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
	signedURLFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	removeFunc    func(ctx context.Context, key string) error
}

func (m *mockBlobStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	return m.putFunc(ctx, key, content, size, contentType)
}

func (m *mockBlobStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return m.signedURLFunc(ctx, key, ttl)
}

func (m *mockBlobStore) Remove(ctx context.Context, key string) error {
	return m.removeFunc(ctx, key)
}

var testBlobConfig = config.Blob{SignedURLTTL: 15 * time.Minute}

func newDocumentServiceForTest(repo *mockDocumentRepository, blobStore *mockBlobStore) DocumentService {
	return NewDocumentService(repo, blobStore, testBlobConfig, utils.NewUUIDGenerator(), fixedClock, logger.Nop())
}

func TestUploadDocument(t *testing.T) {
	var putKey string
	var saved *models.Document
	blobStore := &mockBlobStore{
		putFunc: func(_ context.Context, key string, _ io.Reader, size int64, contentType string) error {
			putKey = key
			assert.Equal(t, int64(11), size)
			assert.Equal(t, "application/pdf", contentType)
			return nil
		},
	}
	repo := &mockDocumentRepository{
		saveDocumentFunc: func(_ context.Context, doc *models.Document) error {
			saved = doc
			return nil
		},
	}
	svc := newDocumentServiceForTest(repo, blobStore)

	doc := models.Document{
		ClientID:    42,
		Category:    models.CategoryDocument,
		FileName:    "support-plan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   11,
	}
	err := svc.Upload(context.Background(), staffPrincipal, &doc, strings.NewReader("pdf content"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(putKey, "documents/client_42_"), "key %q", putKey)
	assert.Equal(t, putKey, saved.Key)
	assert.Equal(t, staffPrincipal.UserID, saved.UploadedBy)
	assert.Equal(t, fixedNow, saved.UploadedAt)
}

func TestUploadDocument_RejectsDisallowedContentType(t *testing.T) {
	// nil function fields make any storage call panic; rejection must
	// happen before either collaborator is touched
	svc := newDocumentServiceForTest(&mockDocumentRepository{}, &mockBlobStore{})

	doc := models.Document{
		ClientID:    42,
		Category:    models.CategoryDocument,
		FileName:    "malware.exe",
		ContentType: "application/octet-stream",
		SizeBytes:   10,
	}
	err := svc.Upload(context.Background(), staffPrincipal, &doc, strings.NewReader("x"))

	assert.ErrorIs(t, err, blob.ErrUnsupportedMediaType)
}

func TestUploadDocument_ContentTypeGateIgnoresFileName(t *testing.T) {
	svc := newDocumentServiceForTest(&mockDocumentRepository{}, &mockBlobStore{})

	// an innocent-looking file name must not smuggle a disallowed type past
	// the gate
	doc := models.Document{
		ClientID:    42,
		Category:    models.CategoryPhoto,
		FileName:    "innocent.jpg",
		ContentType: "text/html",
		SizeBytes:   10,
	}
	err := svc.Upload(context.Background(), staffPrincipal, &doc, strings.NewReader("<html>"))

	assert.ErrorIs(t, err, blob.ErrUnsupportedMediaType)
}

func TestUploadDocument_KeyExtensionComesFromContentType(t *testing.T) {
	var putKey string
	blobStore := &mockBlobStore{
		putFunc: func(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
			putKey = key
			return nil
		},
	}
	repo := &mockDocumentRepository{
		saveDocumentFunc: func(context.Context, *models.Document) error { return nil },
	}
	svc := newDocumentServiceForTest(repo, blobStore)

	// misnamed but genuinely a jpeg; the declared type wins
	doc := models.Document{
		ClientID:    42,
		Category:    models.CategoryPhoto,
		FileName:    "notes.txt",
		ContentType: "image/jpeg",
		SizeBytes:   10,
	}
	err := svc.Upload(context.Background(), staffPrincipal, &doc, strings.NewReader("jpeg bytes"))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(putKey, ".jpg"), "key %q", putKey)
}

func TestUploadDocument_RequiresContentType(t *testing.T) {
	svc := newDocumentServiceForTest(&mockDocumentRepository{}, &mockBlobStore{})

	doc := models.Document{
		ClientID:  42,
		Category:  models.CategoryDocument,
		FileName:  "plan.pdf",
		SizeBytes: 10,
	}
	err := svc.Upload(context.Background(), staffPrincipal, &doc, strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUploadDocument_RemovesObjectWhenMetadataWriteFails(t *testing.T) {
	var removedKey string
	blobStore := &mockBlobStore{
		putFunc: func(context.Context, string, io.Reader, int64, string) error { return nil },
		removeFunc: func(_ context.Context, key string) error {
			removedKey = key
			return nil
		},
	}
	repo := &mockDocumentRepository{
		saveDocumentFunc: func(context.Context, *models.Document) error {
			return store.ErrClientNotFound
		},
	}
	svc := newDocumentServiceForTest(repo, blobStore)

	doc := models.Document{
		ClientID:    999,
		Category:    models.CategoryPhoto,
		FileName:    "outing.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   5,
	}
	err := svc.Upload(context.Background(), staffPrincipal, &doc, strings.NewReader("bytes"))

	assert.ErrorIs(t, err, store.ErrClientNotFound)
	assert.Equal(t, doc.Key, removedKey, "orphaned object must be removed")
}

func TestDownloadURL(t *testing.T) {
	repo := &mockDocumentRepository{
		getDocumentFunc: func(_ context.Context, id int64) (models.Document, error) {
			return models.Document{ID: id, Key: "photos/client_42_abc.jpg"}, nil
		},
	}
	blobStore := &mockBlobStore{
		signedURLFunc: func(_ context.Context, key string, ttl time.Duration) (string, error) {
			assert.Equal(t, "photos/client_42_abc.jpg", key)
			assert.Equal(t, 15*time.Minute, ttl)
			return "https://blobs.example/signed", nil
		},
	}
	svc := newDocumentServiceForTest(repo, blobStore)

	url, err := svc.DownloadURL(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, "https://blobs.example/signed", url)
}

func TestDeleteDocument_RequiresAdmin(t *testing.T) {
	svc := newDocumentServiceForTest(&mockDocumentRepository{}, &mockBlobStore{})

	err := svc.Delete(context.Background(), staffPrincipal, 9)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteDocument_RemovesMetadataAndObject(t *testing.T) {
	var removedKey string
	var deletedID int64
	repo := &mockDocumentRepository{
		getDocumentFunc: func(_ context.Context, id int64) (models.Document, error) {
			return models.Document{ID: id, Key: "documents/client_7_xyz.pdf"}, nil
		},
		deleteDocumentFunc: func(_ context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	blobStore := &mockBlobStore{
		removeFunc: func(_ context.Context, key string) error {
			removedKey = key
			return nil
		},
	}
	svc := newDocumentServiceForTest(repo, blobStore)

	err := svc.Delete(context.Background(), adminPrincipal, 9)

	require.NoError(t, err)
	assert.Equal(t, int64(9), deletedID)
	assert.Equal(t, "documents/client_7_xyz.pdf", removedKey)
}
