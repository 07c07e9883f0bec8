package http

import (
	"net/http"

	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

func (h *Handler) reportIncident(w http.ResponseWriter, r *http.Request) {
	var incident models.Incident
	if !decodeJSON(w, r, &incident) {
		return
	}

	if err := h.services.Incidents.ReportIncident(r.Context(), &incident); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, incidentResponse(incident), http.StatusCreated)
}

func (h *Handler) getIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "incidentID")
	if !ok {
		return
	}

	incident, err := h.services.Incidents.GetIncident(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, incidentResponse(incident), http.StatusOK)
}

func (h *Handler) listIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.services.Incidents.ListIncidents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]incidentWithStatus, 0, len(incidents))
	for _, incident := range incidents {
		out = append(out, incidentResponse(incident))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

type escalateRequest struct {
	EscalatedTo string `json:"escalatedTo"`
}

func (h *Handler) escalateIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "incidentID")
	if !ok {
		return
	}

	var req escalateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.services.Incidents.EscalateIncident(r.Context(), id, req.EscalatedTo); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type closeRequest struct {
	ClosedBy string `json:"closedBy"`
}

func (h *Handler) closeIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "incidentID")
	if !ok {
		return
	}

	var req closeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.services.Incidents.CloseIncident(r.Context(), id, req.ClosedBy); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reviewIncident(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "incidentID")
	if !ok {
		return
	}

	var review models.IncidentReview
	if !decodeJSON(w, r, &review) {
		return
	}
	review.IncidentID = id

	if err := h.services.Incidents.ReviewIncident(r.Context(), principal, &review); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, review, http.StatusCreated)
}

// incidentWithStatus adds the derived lifecycle status to the wire shape;
// clients should not have to re-derive it from the closed/review fields.
type incidentWithStatus struct {
	models.Incident
	Status models.IncidentStatus `json:"status"`
}

func incidentResponse(incident models.Incident) incidentWithStatus {
	return incidentWithStatus{
		Incident: incident,
		Status:   incident.Status(),
	}
}
