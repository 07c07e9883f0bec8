// Package blob stores uploaded binary content (client documents and photos)
// in an S3-compatible object store and hands out time-limited signed URLs
// for retrieval. Only metadata lives in PostgreSQL; the bytes never pass
// through the database.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

// ErrUnsupportedMediaType is returned when an upload's content type is not
// on the allow-list.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Store is the object-store abstraction used by the document service.
type Store interface {
	// Put uploads content under key with the given content type and size.
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error

	// SignedURL returns a presigned GET URL for key, valid for ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Remove deletes the object stored under key.
	Remove(ctx context.Context, key string) error
}

// contentTypeExtensions maps the allowed upload content types to the
// extension used in object keys. The gate is the declared content type, not
// the uploaded file name; a file name is display metadata only.
var contentTypeExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"application/pdf": "pdf",
}

// ExtensionForContentType returns the object-key extension for an allowed
// upload content type. Media-type parameters ("; charset=...") are ignored.
// Returns [ErrUnsupportedMediaType] for anything off the allow-list.
func ExtensionForContentType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	ext, ok := contentTypeExtensions[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
	return ext, nil
}

// ObjectKey builds the storage key for an upload:
//
//	<category>/<prefix>_<identifier>_<uuid>.<ext>
//
// The category segments the bucket, the prefix and identifier tie the object
// back to its owning client, and the uuid makes collisions impossible even
// when the same file is uploaded twice. The extension is derived from
// contentType; a disallowed content type returns [ErrUnsupportedMediaType].
func ObjectKey(category models.DocumentCategory, prefix, identifier, contentType string, gen *utils.UUIDGenerator) (string, error) {
	ext, err := ExtensionForContentType(contentType)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s_%s_%s.%s", category, prefix, identifier, gen.Generate(), ext), nil
}
