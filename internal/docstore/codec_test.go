package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiotrack/physio-sync/internal/models"
)

func TestEncodeProfile(t *testing.T) {
	created := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	profile := &models.UserProfile{
		UserID:      "uid-1",
		Email:       "ana@example.com",
		Name:        "Ana",
		Surname:     "Silva",
		DateCreated: &created,
	}

	data, err := Encode(profile)
	require.NoError(t, err)

	assert.Equal(t, "uid-1", data["user_id"])
	assert.Equal(t, "ana@example.com", data["email"])
	assert.Equal(t, "Ana", data["name"])
	assert.Equal(t, "Silva", data["surname"])
	assert.Equal(t, "2026-02-14T09:30:00.000000000Z", data["date_created"])
}

func TestEncodeSkipsIDAndNilPointers(t *testing.T) {
	rec := &models.MeasurementRecord{
		ID:       "should-not-appear",
		Side:     "R",
		TestDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Value:    42.5,
	}
	data, err := Encode(rec)
	require.NoError(t, err)
	assert.NotContains(t, data, "id")
	assert.Equal(t, "R", data["side"])
	assert.Equal(t, 42.5, data["value"])

	profile := &models.UserProfile{UserID: "uid-2"}
	data, err = Encode(profile)
	require.NoError(t, err)
	assert.NotContains(t, data, "date_created")
}

func TestDecodeRoundTrip(t *testing.T) {
	original := &models.MeasurementRecord{
		Side:     "Li",
		TestDate: time.Date(2026, 5, 6, 17, 45, 30, 123456789, time.UTC),
		Value:    18.25,
	}

	data, err := Encode(original)
	require.NoError(t, err)

	var decoded models.MeasurementRecord
	require.NoError(t, Decode(data, &decoded))

	assert.Equal(t, original.Side, decoded.Side)
	assert.True(t, original.TestDate.Equal(decoded.TestDate))
	assert.Equal(t, original.Value, decoded.Value)
}

func TestDecodeAcceptsJSONNumbers(t *testing.T) {
	// json.Unmarshal delivers every number as float64; ints must survive.
	data := map[string]any{
		"name":       "Bruno",
		"surname":    "Costa",
		"birth_date": "1990-06-15T00:00:00.000000000Z",
		"height":     float64(181),
		"weight":     "82kg",
	}

	var patient models.Patient
	require.NoError(t, Decode(data, &patient))

	assert.Equal(t, 181, patient.Height)
	assert.Equal(t, "82kg", patient.Weight)
	assert.Equal(t, 1990, patient.BirthDate.Year())
}

func TestDecodeMissingFieldsLeftZero(t *testing.T) {
	var profile models.UserProfile
	require.NoError(t, Decode(map[string]any{"name": "Ana"}, &profile))

	assert.Equal(t, "Ana", profile.Name)
	assert.Empty(t, profile.Email)
	assert.Nil(t, profile.DateCreated)
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"UserID":      "user_id",
		"TestDate":    "test_date",
		"DateCreated": "date_created",
		"Email":       "email",
		"ID":          "id",
		"HTTPStatus":  "http_status",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), "snakeCase(%q)", in)
	}
}

func TestTimeLayoutSortsLexicographically(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 5, time.UTC).Format(timeLayout)
	later := time.Date(2026, 1, 1, 0, 0, 0, 40, time.UTC).Format(timeLayout)

	// Fixed-width fractions keep string order equal to time order.
	assert.Less(t, earlier, later)
}
