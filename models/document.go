package models

import "time"

// DocumentCategory groups uploaded binary content. The category is the first
// path segment of the generated blob key.
type DocumentCategory string

const (
	CategoryDocument DocumentCategory = "documents"
	CategoryPhoto    DocumentCategory = "photos"
)

// Valid reports whether c is one of the known categories.
func (c DocumentCategory) Valid() bool {
	return c == CategoryDocument || c == CategoryPhoto
}

// Document is the metadata row for an uploaded document or photo. The binary
// content itself lives in the blob store under Key; retrieval goes through a
// time-limited signed URL.
type Document struct {
	ID          int64            `json:"id"`
	ClientID    int64            `json:"clientId"`
	Category    DocumentCategory `json:"category"`
	FileName    string           `json:"fileName"`
	Key         string           `json:"-"`
	ContentType string           `json:"contentType"`
	SizeBytes   int64            `json:"sizeBytes"`
	UploadedBy  int64            `json:"uploadedBy"`
	UploadedAt  time.Time        `json:"uploadedAt"`
}
