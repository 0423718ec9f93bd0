package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/physiotrack/physio-sync/internal/identity"
	"github.com/physiotrack/physio-sync/internal/middleware"
	"github.com/physiotrack/physio-sync/internal/models"
	"github.com/physiotrack/physio-sync/internal/services"
)

type MeasurementHandler struct {
	measurementService *services.MeasurementService
}

func NewMeasurementHandler(measurementService *services.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

// testTypeParam resolves the {testType} URL segment against the closed set
// of recognized test types. Unknown types are a client error; they never
// create a new collection silently.
func testTypeParam(r *http.Request) (models.TestType, bool) {
	raw := chi.URLParam(r, "testType")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	t := models.TestType(raw)
	return t, t.Valid()
}

// List returns a patient's series for one test type, ascending by date
func (h *MeasurementHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	testType, ok := testTypeParam(r)
	if patientID == "" || !ok {
		http.Error(w, "Patient ID and a recognized test type are required", http.StatusBadRequest)
		return
	}

	records, err := h.measurementService.Fetch(r.Context(), id.UID, patientID, testType)
	if err != nil {
		log.Error().Err(err).
			Str("uid", id.UID).
			Str("patient_id", patientID).
			Str("test_type", string(testType)).
			Msg("Measurement fetch failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Create appends one measurement to a patient's series
func (h *MeasurementHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	testType, ok := testTypeParam(r)
	if patientID == "" || !ok {
		http.Error(w, "Patient ID and a recognized test type are required", http.StatusBadRequest)
		return
	}

	var req models.MeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.measurementService.Add(r.Context(), id.UID, patientID, testType, &req)
	if err != nil {
		log.Error().Err(err).
			Str("uid", id.UID).
			Str("patient_id", patientID).
			Str("test_type", string(testType)).
			Msg("Measurement append failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// Delete removes one measurement by id
func (h *MeasurementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	recordID := chi.URLParam(r, "recordID")
	testType, ok := testTypeParam(r)
	if patientID == "" || recordID == "" || !ok {
		http.Error(w, "Patient ID, record ID, and a recognized test type are required", http.StatusBadRequest)
		return
	}

	if err := h.measurementService.Delete(r.Context(), id.UID, patientID, testType, recordID); err != nil {
		log.Error().Err(err).
			Str("uid", id.UID).
			Str("patient_id", patientID).
			Str("record_id", recordID).
			Msg("Measurement deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Series returns the series grouped by side with its chart legend
func (h *MeasurementHandler) Series(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	testType, ok := testTypeParam(r)
	if patientID == "" || !ok {
		http.Error(w, "Patient ID and a recognized test type are required", http.StatusBadRequest)
		return
	}

	chart, err := h.measurementService.Series(r.Context(), id.UID, patientID, testType)
	if err != nil {
		log.Error().Err(err).
			Str("uid", id.UID).
			Str("patient_id", patientID).
			Str("test_type", string(testType)).
			Msg("Series aggregation failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chart)
}
