package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiotrack/physio-sync/internal/models"
)

func record(side string, day int, value float64) models.MeasurementRecord {
	return models.MeasurementRecord{
		Side:     side,
		TestDate: time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
		Value:    value,
	}
}

func TestGroupBySideRoutesRecords(t *testing.T) {
	records := []models.MeasurementRecord{
		record("S", 1, 10),
		record("R", 2, 20),
		record("L", 3, 30),
		record("Z", 4, 40), // unrecognized tag falls back to the Single bucket
	}

	groups := GroupBySide(records)

	require.Len(t, groups[models.SideSingle], 2)
	assert.Equal(t, 10.0, groups[models.SideSingle][0].Value)
	assert.Equal(t, 40.0, groups[models.SideSingle][1].Value)
	require.Len(t, groups[models.SideRight], 1)
	assert.Equal(t, 20.0, groups[models.SideRight][0].Value)
	require.Len(t, groups[models.SideLeft], 1)
	assert.Equal(t, 30.0, groups[models.SideLeft][0].Value)
}

func TestGroupBySideAllBucketsPresent(t *testing.T) {
	groups := GroupBySide(nil)

	assert.Len(t, groups, len(models.SideOrder))
	for _, side := range models.SideOrder {
		bucket, ok := groups[side]
		assert.True(t, ok, "missing bucket %s", side)
		assert.Empty(t, bucket)
	}
}

func TestGroupBySideCountsSumToInput(t *testing.T) {
	records := []models.MeasurementRecord{
		record("Ri", 1, 1), record("Li", 2, 2), record("Re", 3, 3),
		record("Le", 4, 4), record("R", 5, 5), record("??", 6, 6),
	}

	groups := GroupBySide(records)

	total := 0
	for _, bucket := range groups {
		total += len(bucket)
	}
	assert.Equal(t, len(records), total)
}

func TestLegendOrderAndColors(t *testing.T) {
	records := []models.MeasurementRecord{
		record("Le", 1, 1),
		record("L", 2, 2),
		record("R", 3, 3),
	}

	legend := Legend(GroupBySide(records))

	// Fixed presentation order regardless of input order.
	require.Len(t, legend, 3)
	assert.Equal(t, LegendEntry{Label: "Right", Color: "green"}, legend[0])
	assert.Equal(t, LegendEntry{Label: "Left", Color: "red"}, legend[1])
	assert.Equal(t, LegendEntry{Label: "Left External Rotation", Color: "orange"}, legend[2])
}

func TestLegendSkipsEmptyBuckets(t *testing.T) {
	legend := Legend(GroupBySide(nil))
	assert.Empty(t, legend)

	legend = Legend(GroupBySide([]models.MeasurementRecord{record("S", 1, 5)}))
	require.Len(t, legend, 1)
	assert.Equal(t, LegendEntry{Label: "Single", Color: "blue"}, legend[0])
}
