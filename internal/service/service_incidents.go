package service

import (
	"context"
	"fmt"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
)

// incidentService implements [IncidentService]. The incident lifecycle is
// linear: ACTIVE, optionally escalated, then CLOSED, then at most one review.
// The storage layer enforces the transitions; this layer validates the
// conditional shape of the payload.
type incidentService struct {
	incidents store.IncidentRepository
	clock     Clock
	logger    *logger.Logger
}

// NewIncidentService constructs an [IncidentService].
func NewIncidentService(incidents store.IncidentRepository, clock Clock, log *logger.Logger) IncidentService {
	log.Debug().Msg("creating incident service")
	return &incidentService{
		incidents: incidents,
		clock:     clock,
		logger:    log,
	}
}

func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident) error {
	switch incident.RaisedFor {
	case models.RaisedForClient:
		if incident.ClientID == nil || *incident.ClientID <= 0 {
			return fmt.Errorf("%w: clientId is required for client incidents", ErrValidation)
		}
		incident.StaffName = ""
	case models.RaisedForStaff:
		if incident.StaffName == "" {
			return fmt.Errorf("%w: staffName is required for staff incidents", ErrValidation)
		}
		incident.ClientID = nil
	default:
		return fmt.Errorf("%w: raisedFor must be CLIENT or STAFF", ErrValidation)
	}

	if incident.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurredAt is required", ErrValidation)
	}
	if incident.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if incident.ReportedBy == "" {
		return fmt.Errorf("%w: reportedBy is required", ErrValidation)
	}

	// incidents are always born active and unescalated
	incident.Escalated = false
	incident.EscalatedTo = ""
	incident.Closed = false
	incident.ClosedBy = ""
	incident.Review = nil

	incident.CreatedAt = s.clock()
	return s.incidents.SaveIncident(ctx, incident)
}

func (s *incidentService) GetIncident(ctx context.Context, id int64) (models.Incident, error) {
	return s.incidents.GetIncident(ctx, id)
}

func (s *incidentService) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return s.incidents.ListIncidents(ctx)
}

func (s *incidentService) EscalateIncident(ctx context.Context, id int64, escalatedTo string) error {
	if escalatedTo == "" {
		return fmt.Errorf("%w: escalatedTo is required", ErrValidation)
	}

	return s.incidents.EscalateIncident(ctx, id, escalatedTo, s.clock())
}

func (s *incidentService) CloseIncident(ctx context.Context, id int64, closedBy string) error {
	if closedBy == "" {
		return fmt.Errorf("%w: closedBy is required", ErrValidation)
	}

	return s.incidents.CloseIncident(ctx, id, closedBy, s.clock())
}

func (s *incidentService) ReviewIncident(ctx context.Context, principal models.Principal, review *models.IncidentReview) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if review.ReviewedBy == "" {
		return fmt.Errorf("%w: reviewedBy is required", ErrValidation)
	}
	if review.Outcome == "" {
		return fmt.Errorf("%w: outcome is required", ErrValidation)
	}

	review.ReviewedAt = s.clock()
	return s.incidents.SaveIncidentReview(ctx, review)
}
