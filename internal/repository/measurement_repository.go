package repository

import (
	"context"
	"fmt"

	"github.com/physiotrack/physio-sync/internal/docstore"
	"github.com/physiotrack/physio-sync/internal/models"
)

// MeasurementRepository handles the per-test-type measurement series under
// a patient. The series is append-only from the app's perspective: records
// are added and deleted, never updated.
type MeasurementRepository struct {
	store docstore.Store
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(store docstore.Store) *MeasurementRepository {
	return &MeasurementRepository{store: store}
}

// Fetch returns the patient's series for one test type, ascending by test
// date. A patient with no records yields an empty slice, not an error.
func (r *MeasurementRepository) Fetch(ctx context.Context, ownerUID, patientID string, testType models.TestType) ([]models.MeasurementRecord, error) {
	docs, err := r.store.Query(ctx, seriesPath(ownerUID, patientID, testType), "test_date")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s series: %w", testType, err)
	}

	records := make([]models.MeasurementRecord, 0, len(docs))
	for _, doc := range docs {
		var rec models.MeasurementRecord
		if err := docstore.Decode(doc.Data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", doc.ID, err)
		}
		rec.ID = doc.ID
		records = append(records, rec)
	}
	return records, nil
}

// Add appends one record and returns the store-assigned id
func (r *MeasurementRepository) Add(ctx context.Context, ownerUID, patientID string, testType models.TestType, record *models.MeasurementRecord) (string, error) {
	data, err := docstore.Encode(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	id, err := r.store.Add(ctx, seriesPath(ownerUID, patientID, testType), data)
	if err != nil {
		return "", fmt.Errorf("failed to add record: %w", err)
	}
	return id, nil
}

// Delete removes one record by id
func (r *MeasurementRepository) Delete(ctx context.Context, ownerUID, patientID string, testType models.TestType, recordID string) error {
	if err := r.store.Delete(ctx, seriesPath(ownerUID, patientID, testType), recordID); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// WithoutRecord filters a locally cached list after a delete. Filtering an
// id that is not present leaves the list unchanged.
func WithoutRecord(records []models.MeasurementRecord, recordID string) []models.MeasurementRecord {
	out := records[:0:0]
	for _, rec := range records {
		if rec.ID != recordID {
			out = append(out, rec)
		}
	}
	return out
}
