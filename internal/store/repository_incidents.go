package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/models"
)

// incidentRepository is the PostgreSQL-backed implementation of
// [IncidentRepository]. Incident transitions are linear and one-way; each
// transition is a conditional UPDATE so a stale caller cannot re-open or
// re-close an incident.
type incidentRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewIncidentRepository constructs an [IncidentRepository] backed by the
// provided database connection and logger.
func NewIncidentRepository(db *DB, logger *logger.Logger) IncidentRepository {
	logger.Debug().Msg("creating incident repository")
	return &incidentRepository{
		db:     db,
		logger: logger,
	}
}

const saveIncident = `INSERT INTO incidents (raised_for, client_id, staff_name, occurred_at, location, description, reported_by, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	RETURNING id;`

const escalateIncident = `UPDATE incidents
	SET escalated = TRUE, escalated_to = $2, last_updated_at = $3
	WHERE id = $1 AND NOT closed;`

const closeIncident = `UPDATE incidents
	SET closed = TRUE, closed_by = $2, last_updated_at = $3
	WHERE id = $1 AND NOT closed;`

const saveIncidentReview = `INSERT INTO incident_reviews (incident_id, reviewed_by, outcome, reviewed_at)
	SELECT $1, $2, $3, $4
	WHERE EXISTS (SELECT 1 FROM incidents WHERE id = $1 AND closed)
	RETURNING id;`

const incidentColumns = `i.id, i.raised_for, i.client_id, i.staff_name, i.occurred_at, i.location,
	i.description, i.reported_by, i.escalated, i.escalated_to, i.closed, i.closed_by,
	i.created_at, i.last_updated_at,
	r.id, r.reviewed_by, r.outcome, r.reviewed_at`

func (r *incidentRepository) SaveIncident(ctx context.Context, incident *models.Incident) error {
	log := logger.FromContext(ctx)

	incident.CreatedAt = models.TruncWatermark(incident.CreatedAt)
	incident.LastUpdatedAt = incident.CreatedAt

	err := r.db.QueryRowContext(ctx, saveIncident,
		incident.RaisedFor, incident.ClientID, incident.StaffName,
		incident.OccurredAt, incident.Location, incident.Description,
		incident.ReportedBy, incident.CreatedAt,
	).Scan(&incident.ID)
	if err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: id %v", ErrClientNotFound, incident.ClientID)
		}
		log.Err(err).
			Str("func", "incidentRepository.SaveIncident").
			Str("raised_for", string(incident.RaisedFor)).
			Msg("failed to save incident")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *incidentRepository) GetIncident(ctx context.Context, id int64) (models.Incident, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(`SELECT %s
	FROM incidents i
	LEFT JOIN incident_reviews r ON r.incident_id = i.id
	WHERE i.id = $1;`, incidentColumns)

	incident, scanErr := scanIncident(r.db.QueryRowContext(ctx, query, id))
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Incident{}, fmt.Errorf("%w: id %d", ErrIncidentNotFound, id)
		}
		log.Err(scanErr).
			Str("func", "incidentRepository.GetIncident").
			Int64("id", id).
			Msg("failed to read incident row")
		return models.Incident{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return incident, nil
}

func (r *incidentRepository) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(`SELECT %s
	FROM incidents i
	LEFT JOIN incident_reviews r ON r.incident_id = i.id
	ORDER BY i.occurred_at DESC;`, incidentColumns)

	rows, queryErr := r.db.QueryContext(ctx, query)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "incidentRepository.ListIncidents").
			Msg("failed to execute query for listing incidents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0, 20)
	for rows.Next() {
		incident, scanErr := scanIncident(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		incidents = append(incidents, incident)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return incidents, nil
}

func (r *incidentRepository) EscalateIncident(ctx context.Context, id int64, escalatedTo string, stamp time.Time) error {
	return r.execTransition(ctx, escalateIncident, "incidentRepository.EscalateIncident", id, escalatedTo, stamp)
}

func (r *incidentRepository) CloseIncident(ctx context.Context, id int64, closedBy string, stamp time.Time) error {
	return r.execTransition(ctx, closeIncident, "incidentRepository.CloseIncident", id, closedBy, stamp)
}

// execTransition runs a guarded incident UPDATE. Zero affected rows means
// either the incident does not exist or it is already closed; a follow-up
// read disambiguates the two.
func (r *incidentRepository) execTransition(ctx context.Context, query, funcName string, id int64, actor string, stamp time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, id, actor, models.TruncWatermark(stamp))
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Int64("id", id).
			Msg("failed to execute incident transition")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}
	if affected == 0 {
		if _, getErr := r.GetIncident(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: id %d", ErrIncidentClosed, id)
	}

	return nil
}

func (r *incidentRepository) SaveIncidentReview(ctx context.Context, review *models.IncidentReview) error {
	log := logger.FromContext(ctx)

	review.ReviewedAt = models.TruncWatermark(review.ReviewedAt)

	err := r.db.QueryRowContext(ctx, saveIncidentReview,
		review.IncidentID, review.ReviewedBy, review.Outcome, review.ReviewedAt,
	).Scan(&review.ID)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: incident id %d", ErrIncidentAlreadyReviewed, review.IncidentID)
		}
		// the guarded INSERT produces no row when the incident is missing
		// or still active
		if errors.Is(err, sql.ErrNoRows) {
			incident, getErr := r.GetIncident(ctx, review.IncidentID)
			if getErr != nil {
				return getErr
			}
			if !incident.Closed {
				return fmt.Errorf("%w: id %d", ErrIncidentNotClosed, review.IncidentID)
			}
			return fmt.Errorf("%w: id %d", ErrIncidentNotFound, review.IncidentID)
		}
		log.Err(err).
			Str("func", "incidentRepository.SaveIncidentReview").
			Int64("incident_id", review.IncidentID).
			Msg("failed to save incident review")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (models.Incident, error) {
	var incident models.Incident
	var reviewID *int64
	var reviewedBy, outcome *string
	var reviewedAt *time.Time

	err := row.Scan(
		&incident.ID, &incident.RaisedFor, &incident.ClientID, &incident.StaffName,
		&incident.OccurredAt, &incident.Location, &incident.Description,
		&incident.ReportedBy, &incident.Escalated, &incident.EscalatedTo,
		&incident.Closed, &incident.ClosedBy,
		&incident.CreatedAt, &incident.LastUpdatedAt,
		&reviewID, &reviewedBy, &outcome, &reviewedAt,
	)
	if err != nil {
		return models.Incident{}, err
	}

	if reviewID != nil {
		incident.Review = &models.IncidentReview{
			ID:         *reviewID,
			IncidentID: incident.ID,
			ReviewedBy: *reviewedBy,
			Outcome:    *outcome,
			ReviewedAt: *reviewedAt,
		}
	}

	return incident, nil
}
