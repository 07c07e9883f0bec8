package utils

import (
	"encoding/json"
	"net/http"
)

// WriteJSON marshals data and writes it as an application/json response with
// the given status code.
//
// Marshal failures are reported to the client as 500 Internal Server Error;
// the returned error carries the details for the caller's log. Encoding
// happens before the status line is written so a failure never produces a
// half-sent success response.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return 0, err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(body)
}
