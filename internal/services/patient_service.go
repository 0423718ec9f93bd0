package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/physiotrack/physio-sync/internal/models"
	"github.com/physiotrack/physio-sync/internal/repository"
)

// PatientService handles business logic for patient records
type PatientService struct {
	patients *repository.PatientRepository
}

// NewPatientService creates a new patient service
func NewPatientService(patients *repository.PatientRepository) *PatientService {
	return &PatientService{patients: patients}
}

// Add registers a patient under the owner and returns it with its id
func (s *PatientService) Add(ctx context.Context, ownerUID string, req *models.PatientRequest) (*models.Patient, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Surname) == "" {
		return nil, fmt.Errorf("patient name and surname are required")
	}

	patient := &models.Patient{
		Name:         req.Name,
		Surname:      req.Surname,
		BirthDate:    req.BirthDate,
		Height:       req.Height,
		Weight:       req.Weight,
		Observations: req.Observations,
	}

	id, err := s.patients.Add(ctx, ownerUID, patient)
	if err != nil {
		return nil, err
	}
	patient.ID = id
	return patient, nil
}

// List returns the owner's patients
func (s *PatientService) List(ctx context.Context, ownerUID string) ([]models.Patient, error) {
	return s.patients.List(ctx, ownerUID)
}

// Delete removes one patient. The patient's measurement series are left in
// place rather than cascade-deleted.
func (s *PatientService) Delete(ctx context.Context, ownerUID, patientID string) error {
	return s.patients.Delete(ctx, ownerUID, patientID)
}
