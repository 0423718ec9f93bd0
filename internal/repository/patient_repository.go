package repository

import (
	"context"
	"fmt"

	"github.com/physiotrack/physio-sync/internal/docstore"
	"github.com/physiotrack/physio-sync/internal/models"
)

// PatientRepository handles the per-user patient documents
type PatientRepository struct {
	store docstore.Store
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(store docstore.Store) *PatientRepository {
	return &PatientRepository{store: store}
}

// Add appends a patient under the owner and returns the store-assigned id
func (r *PatientRepository) Add(ctx context.Context, ownerUID string, patient *models.Patient) (string, error) {
	data, err := docstore.Encode(patient)
	if err != nil {
		return "", fmt.Errorf("failed to encode patient: %w", err)
	}

	id, err := r.store.Add(ctx, patientsPath(ownerUID), data)
	if err != nil {
		return "", fmt.Errorf("failed to add patient: %w", err)
	}
	return id, nil
}

// Delete removes a patient document. Measurement sub-collections are NOT
// cascade-deleted; they stay addressable under the old patient id.
func (r *PatientRepository) Delete(ctx context.Context, ownerUID, patientID string) error {
	if err := r.store.Delete(ctx, patientsPath(ownerUID), patientID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// List returns the owner's patients in store order
func (r *PatientRepository) List(ctx context.Context, ownerUID string) ([]models.Patient, error) {
	docs, err := r.store.Query(ctx, patientsPath(ownerUID), "")
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	patients := make([]models.Patient, 0, len(docs))
	for _, doc := range docs {
		var patient models.Patient
		if err := docstore.Decode(doc.Data, &patient); err != nil {
			return nil, fmt.Errorf("failed to decode patient %s: %w", doc.ID, err)
		}
		patient.ID = doc.ID
		patients = append(patients, patient)
	}
	return patients, nil
}
