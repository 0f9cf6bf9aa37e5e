// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httpapi

import (
	"encoding/json"
	"net/http"
)

// apiError is an error with an HTTP status code, the wire-level shape
// every handler error gets mapped to.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func newAPIError(status int, message string) *apiError {
	return &apiError{Status: status, Message: message}
}

var (
	errMissingMyID       = newAPIError(http.StatusBadRequest, "missing my_id")
	errMissingTransferID = newAPIError(http.StatusBadRequest, "missing transfer_id")
	errBadJSON           = newAPIError(http.StatusBadRequest, "malformed JSON")
	errNotFound          = newAPIError(http.StatusNotFound, "not found")
)

// errorEnvelope is the wire shape for every error response: {"error": "..."}.
type errorEnvelope struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *apiError) {
	writeJSON(w, err.Status, errorEnvelope{Error: err.Message})
}
