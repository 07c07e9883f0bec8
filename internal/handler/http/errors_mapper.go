package http

import (
	"errors"
	"net/http"

	"github.com/oakstead/careledger/internal/blob"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/service"
	"github.com/oakstead/careledger/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:         http.StatusBadRequest,
	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrInvalidToken:       http.StatusUnauthorized,
	service.ErrForbidden:          http.StatusForbidden,
	service.ErrResetTokenInvalid:  http.StatusBadRequest,

	blob.ErrUnsupportedMediaType: http.StatusUnsupportedMediaType,

	store.ErrEmailAlreadyExists:      http.StatusConflict,
	store.ErrUserNotFound:            http.StatusNotFound,
	store.ErrHouseNotFound:           http.StatusNotFound,
	store.ErrHouseHasClients:         http.StatusConflict,
	store.ErrHouseHasUsers:           http.StatusConflict,
	store.ErrClientNotFound:          http.StatusNotFound,
	store.ErrIncidentNotFound:        http.StatusNotFound,
	store.ErrIncidentClosed:          http.StatusConflict,
	store.ErrIncidentNotClosed:       http.StatusConflict,
	store.ErrIncidentAlreadyReviewed: http.StatusConflict,
	store.ErrNoteNotFound:            http.StatusNotFound,
	store.ErrWatermarkConflict:       http.StatusConflict,
	store.ErrDuplicateNote:           http.StatusConflict,
	store.ErrDocumentNotFound:        http.StatusNotFound,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
	store.ErrScanningRows:     http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped status with the sentinel's
// message as the body. Internal errors never leak their details.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}

	log.Warn().Err(err).Int("status", status).Send()
	http.Error(w, err.Error(), status)
}
