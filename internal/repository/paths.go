package repository

import (
	"github.com/physiotrack/physio-sync/internal/models"
)

// Document paths mirror the ownership hierarchy: everything a user owns
// lives under the user's key, so ownership is structural.
//
//	users/{uid}
//	users/{uid}/patients/{patientID}
//	users/{uid}/patients/{patientID}/{testType}/{recordID}

const usersCollection = "users"

func patientsPath(ownerUID string) string {
	return usersCollection + "/" + ownerUID + "/patients"
}

func seriesPath(ownerUID, patientID string, testType models.TestType) string {
	return patientsPath(ownerUID) + "/" + patientID + "/" + string(testType)
}
