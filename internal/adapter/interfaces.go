// Package adapter provides a typed HTTP client for the careledger server.
//
// The primary abstraction is [ServerAdapter], which decouples integrations
// (CLI tooling, migration scripts, other services) from the REST transport.
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for a stale-watermark rejection).
package adapter

import (
	"context"
	"time"

	"github.com/oakstead/careledger/models"
)

// ServerAdapter is a client for the careledger REST API. Implementations
// manage serialisation, the Authorization header, and mapping of HTTP status
// codes to the sentinel errors in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Called automatically after a successful Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if none has been set.
	Token() string

	// Login authenticates against the server and stores the returned bearer
	// token via SetToken.
	Login(ctx context.Context, email, password string) error

	CreateBowelNote(ctx context.Context, note models.BowelNote) (models.BowelNote, error)
	GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error)
	ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error)

	// UpdateBowelNote submits a partial update together with the watermark
	// the caller last observed. Returns [ErrConflict] (wrapped) when the
	// record changed since that read.
	UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error)

	CreateCaseNote(ctx context.Context, note models.CaseNote) (models.CaseNote, error)
	GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error)

	// UpdateCaseNote follows the same stale-watermark contract as
	// UpdateBowelNote.
	UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, observed time.Time) (models.CaseNote, error)

	// DeleteCaseNote soft-deletes a case note, guarded by the observed
	// watermark. Returns [ErrConflict] (wrapped) on a stale watermark.
	DeleteCaseNote(ctx context.Context, id int64, observed time.Time) error

	// DocumentURL fetches a short-lived signed download URL for a stored
	// document.
	DocumentURL(ctx context.Context, id int64) (string, error)
}
