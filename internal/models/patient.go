package models

import (
	"time"
)

// Patient is a record managed by a clinician-user for the person being
// measured. Patients live under their owning user and are only reachable
// through that user's identity.
type Patient struct {
	ID           string    `json:"id,omitempty" doc:"-"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	BirthDate    time.Time `json:"birth_date"`
	Height       int       `json:"height"` // cm
	Weight       string    `json:"weight"`
	Observations string    `json:"observations"`
}

// PatientRequest is the payload for creating a patient
type PatientRequest struct {
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	BirthDate    time.Time `json:"birth_date"`
	Height       int       `json:"height"`
	Weight       string    `json:"weight"`
	Observations string    `json:"observations"`
}
