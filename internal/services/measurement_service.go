package services

import (
	"context"

	"github.com/physiotrack/physio-sync/internal/models"
	"github.com/physiotrack/physio-sync/internal/repository"
	"github.com/physiotrack/physio-sync/internal/series"
)

// MeasurementService handles per-test-type measurement series
type MeasurementService struct {
	measurements *repository.MeasurementRepository
}

// NewMeasurementService creates a new measurement service
func NewMeasurementService(measurements *repository.MeasurementRepository) *MeasurementService {
	return &MeasurementService{measurements: measurements}
}

// ChartSeries is a fetched series grouped for charting
type ChartSeries struct {
	Groups map[models.Side][]series.Point `json:"groups"`
	Legend []series.LegendEntry           `json:"legend"`
}

// Fetch returns the series ordered ascending by test date
func (s *MeasurementService) Fetch(ctx context.Context, ownerUID, patientID string, testType models.TestType) ([]models.MeasurementRecord, error) {
	return s.measurements.Fetch(ctx, ownerUID, patientID, testType)
}

// Add appends one measurement and returns its record with the assigned id
func (s *MeasurementService) Add(ctx context.Context, ownerUID, patientID string, testType models.TestType, req *models.MeasurementRequest) (*models.MeasurementRecord, error) {
	record := &models.MeasurementRecord{
		Side:     req.Side,
		TestDate: req.TestDate,
		Value:    req.Value,
	}

	id, err := s.measurements.Add(ctx, ownerUID, patientID, testType, record)
	if err != nil {
		return nil, err
	}
	record.ID = id
	return record, nil
}

// Delete removes one measurement by id
func (s *MeasurementService) Delete(ctx context.Context, ownerUID, patientID string, testType models.TestType, recordID string) error {
	return s.measurements.Delete(ctx, ownerUID, patientID, testType, recordID)
}

// Series fetches a test-type series and groups it by side with its legend
func (s *MeasurementService) Series(ctx context.Context, ownerUID, patientID string, testType models.TestType) (*ChartSeries, error) {
	records, err := s.measurements.Fetch(ctx, ownerUID, patientID, testType)
	if err != nil {
		return nil, err
	}

	groups := series.GroupBySide(records)
	return &ChartSeries{
		Groups: groups,
		Legend: series.Legend(groups),
	}, nil
}
