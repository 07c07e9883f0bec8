// Package metrics exposes Prometheus counters for the note update guard and
// general HTTP traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the application's Prometheus collectors. A fresh registry
// is created per instance so tests never trip over duplicate registration.
type Metrics struct {
	registry *prometheus.Registry

	// NoteUpdates counts guarded note mutations by note type and outcome
	// (accepted, conflict, not_found).
	NoteUpdates *prometheus.CounterVec

	// RequestsTotal counts handled HTTP requests by method and status code.
	RequestsTotal *prometheus.CounterVec
}

// Outcome labels for NoteUpdates.
const (
	OutcomeAccepted = "accepted"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
)

// New constructs the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		NoteUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careledger",
			Name:      "note_updates_total",
			Help:      "Guarded note mutations by note type and outcome.",
		}, []string{"note_type", "outcome"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careledger",
			Name:      "http_requests_total",
			Help:      "Handled HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
