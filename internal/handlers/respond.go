package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/physiotrack/physio-sync/internal/docstore"
	"github.com/physiotrack/physio-sync/internal/identity"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeFieldError reports a local validation failure next to its field
func writeFieldError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, struct {
		Field string `json:"field"`
		Error string `json:"error"`
	}{Field: field, Error: message})
}

// writeError maps a failure from the gateway or the stores onto the HTTP
// surface. Every failure is surfaced to the client; none are log-only.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, docstore.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Error: "Document not found."})
		return
	}
	if errors.Is(err, docstore.ErrConflict) {
		writeJSON(w, http.StatusConflict, errorResponse{Code: "conflict", Error: "Document already exists."})
		return
	}

	var authErr *identity.Error
	if errors.As(err, &authErr) {
		writeJSON(w, statusForCode(authErr.Code), errorResponse{
			Code:  string(authErr.Code),
			Error: authErr.Error(),
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:  string(identity.CodeUnknown),
		Error: "An unknown error occurred. Please try again.",
	})
}

func statusForCode(code identity.Code) int {
	switch code {
	case identity.CodeNoCurrentUser, identity.CodeWrongPassword, identity.CodeWrongCredential:
		return http.StatusUnauthorized
	case identity.CodeInvalidEmail, identity.CodeMissingIDToken,
		identity.CodeMissingName, identity.CodeMissingSurname:
		return http.StatusBadRequest
	case identity.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case identity.CodeUserNotFound:
		return http.StatusNotFound
	case identity.CodeBadServerResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
