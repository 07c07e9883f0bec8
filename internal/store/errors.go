package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to create a user
	// fails because an account with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when a query targets a user record that
	// does not exist.
	ErrUserNotFound = errors.New("user was not found")

	// ErrHouseNotFound is returned when a query targets a house record that
	// does not exist.
	ErrHouseNotFound = errors.New("house was not found")

	// ErrClientNotFound is returned when a query targets a client record
	// that does not exist, or when a foreign key to a client cannot be
	// satisfied.
	ErrClientNotFound = errors.New("client was not found")

	// ErrHouseHasClients is returned when a house cannot be deleted because
	// clients are still assigned to it.
	ErrHouseHasClients = errors.New("house still has assigned clients")

	// ErrHouseHasUsers is returned when a house cannot be deleted because
	// staff accounts are still attached to it.
	ErrHouseHasUsers = errors.New("house still has assigned staff")

	// ErrIncidentNotFound is returned when a query targets an incident
	// record that does not exist.
	ErrIncidentNotFound = errors.New("incident was not found")

	// ErrIncidentClosed is returned when a transition is attempted on an
	// incident that has already been closed.
	ErrIncidentClosed = errors.New("incident is already closed")

	// ErrIncidentNotClosed is returned when a review is attached to an
	// incident that is still active.
	ErrIncidentNotClosed = errors.New("incident is not closed yet")

	// ErrIncidentAlreadyReviewed is returned when a second review is
	// attached to an incident that already has one.
	ErrIncidentAlreadyReviewed = errors.New("incident already has a review")

	// ErrNoteNotFound is returned when a note mutation targets an id that
	// does not exist (or has been soft-deleted).
	ErrNoteNotFound = errors.New("note was not found")

	// ErrWatermarkConflict is returned when the optimistic update guard
	// fails: the lastUpdatedAt watermark supplied by the caller does not
	// match the value currently stored, meaning another caregiver has
	// modified the note since the caller last read it.
	ErrWatermarkConflict = errors.New("note was updated by someone else")

	// ErrDuplicateNote is returned when an INSERT violates a per-type
	// uniqueness invariant (e.g. a second food diary entry for the same
	// client, date and meal type).
	ErrDuplicateNote = errors.New("note already exists for this client and date")

	// ErrDocumentNotFound is returned when a query targets a document
	// record that does not exist.
	ErrDocumentNotFound = errors.New("document was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
