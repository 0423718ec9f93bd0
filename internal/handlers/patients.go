package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/physiotrack/physio-sync/internal/identity"
	"github.com/physiotrack/physio-sync/internal/middleware"
	"github.com/physiotrack/physio-sync/internal/models"
	"github.com/physiotrack/physio-sync/internal/services"
)

type PatientHandler struct {
	patientService *services.PatientService
}

func NewPatientHandler(patientService *services.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Create registers a new patient under the current user
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	var req models.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.patientService.Add(r.Context(), id.UID, &req)
	if err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Patient creation failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, patient)
}

// List returns the current user's patients
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	patients, err := h.patientService.List(r.Context(), id.UID)
	if err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Patient list failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, patients)
}

// Delete removes one patient
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "Patient ID is required", http.StatusBadRequest)
		return
	}

	if err := h.patientService.Delete(r.Context(), id.UID, patientID); err != nil {
		log.Error().Err(err).Str("uid", id.UID).Str("patient_id", patientID).Msg("Patient deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
