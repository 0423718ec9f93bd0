package models

import (
	"time"
)

// Side tags which body side or rotation direction a measurement belongs to.
// The codes are a closed set; anything else decodes to SideSingle.
type Side string

const (
	SideSingle        Side = "S"
	SideRight         Side = "R"
	SideLeft          Side = "L"
	SideRightInternal Side = "Ri"
	SideLeftInternal  Side = "Li"
	SideRightExternal Side = "Re"
	SideLeftExternal  Side = "Le"
)

// SideOrder is the fixed presentation order of the side buckets
var SideOrder = []Side{
	SideSingle,
	SideRight,
	SideLeft,
	SideRightInternal,
	SideLeftInternal,
	SideRightExternal,
	SideLeftExternal,
}

// ParseSide maps a raw tag to a recognized side. Unrecognized tags fall back
// to SideSingle rather than failing.
func ParseSide(raw string) Side {
	switch Side(raw) {
	case SideSingle, SideRight, SideLeft,
		SideRightInternal, SideLeftInternal,
		SideRightExternal, SideLeftExternal:
		return Side(raw)
	default:
		return SideSingle
	}
}

// TestType is the category of physical test partitioning measurement series.
// Each test type is a distinct sub-collection under the patient.
type TestType string

const (
	TestSitAndReach TestType = "Sit and Reach"
	TestLunge       TestType = "Lunge"
	TestHipRotation TestType = "Hip Rotation"
)

// AllTestTypes lists every recognized test type
var AllTestTypes = []TestType{TestSitAndReach, TestLunge, TestHipRotation}

// Valid reports whether t is one of the recognized test types
func (t TestType) Valid() bool {
	for _, known := range AllTestTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MeasurementRecord is one angle-degree observation for a patient
type MeasurementRecord struct {
	ID       string    `json:"id,omitempty" doc:"-"`
	Side     string    `json:"side"`
	TestDate time.Time `json:"test_date"`
	Value    float64   `json:"value"` // degrees
}

// MeasurementRequest is the payload for appending a measurement
type MeasurementRequest struct {
	Side     string    `json:"side"`
	TestDate time.Time `json:"test_date"`
	Value    float64   `json:"value"`
}
