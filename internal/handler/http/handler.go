// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, tracing and compression are
// handled at this layer before requests reach the service layer.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/metrics"
	"github.com/oakstead/careledger/internal/service"
)

type Handler struct {
	services *service.Services
	metrics  *metrics.Metrics
	version  string

	logger *logger.Logger
}

func NewHandler(services *service.Services, m *metrics.Metrics, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		metrics:  m,
		version:  version,
		logger:   logger,
	}
}

// pathID parses the named chi URL parameter as an int64 id. A false return
// means the response has already been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryWatermark parses the currentLastUpdatedAt query parameter used by
// DELETE requests, which carry no body. A false return means the response
// has already been written.
func queryWatermark(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("currentLastUpdatedAt")
	if raw == "" {
		http.Error(w, "currentLastUpdatedAt query parameter is required", http.StatusBadRequest)
		return time.Time{}, false
	}

	watermark, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		http.Error(w, "currentLastUpdatedAt must be an RFC 3339 timestamp", http.StatusBadRequest)
		return time.Time{}, false
	}
	return watermark, true
}
