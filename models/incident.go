package models

import "time"

// IncidentStatus is the lifecycle state of an incident. Transitions are
// linear and one-way: ACTIVE → CLOSED, with an optional escalation while
// active. REVIEWED is a projection: a closed incident with a review attached
// reports itself as reviewed.
type IncidentStatus string

const (
	IncidentActive   IncidentStatus = "ACTIVE"
	IncidentClosed   IncidentStatus = "CLOSED"
	IncidentReviewed IncidentStatus = "REVIEWED"
)

// RaisedFor distinguishes the two incident shapes: incidents raised for a
// client carry a client reference, incidents raised for staff carry the
// affected staff member's name instead.
type RaisedFor string

const (
	RaisedForClient RaisedFor = "CLIENT"
	RaisedForStaff  RaisedFor = "STAFF"
)

// Incident is a reported event requiring follow-up. The entity shape depends
// on RaisedFor: ClientID is set only for client incidents, StaffName only for
// staff incidents.
type Incident struct {
	ID          int64     `json:"id"`
	RaisedFor   RaisedFor `json:"raisedFor"`
	ClientID    *int64    `json:"clientId,omitempty"`
	StaffName   string    `json:"staffName,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	ReportedBy  string    `json:"reportedBy"`

	Escalated   bool   `json:"escalated"`
	EscalatedTo string `json:"escalatedTo,omitempty"`

	Closed   bool   `json:"closed"`
	ClosedBy string `json:"closedBy,omitempty"`

	Review *IncidentReview `json:"review,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// IncidentReview is the one-to-one review record attached to a closed
// incident. At most one review exists per incident.
type IncidentReview struct {
	ID         int64     `json:"id"`
	IncidentID int64     `json:"incidentId"`
	ReviewedBy string    `json:"reviewedBy"`
	Outcome    string    `json:"outcome"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// Status derives the reported lifecycle state from the stored fields.
func (i Incident) Status() IncidentStatus {
	switch {
	case i.Closed && i.Review != nil:
		return IncidentReviewed
	case i.Closed:
		return IncidentClosed
	default:
		return IncidentActive
	}
}
