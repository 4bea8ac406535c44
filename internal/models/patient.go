package models

import (
	"time"
)

// Patient represents a registered patient.
// PatientID is the external business identifier (hospital card number,
// national id, etc.) and is what bulk imports key on; the row ID from
// BaseModel stays internal.
type Patient struct {
	BaseModel
	PatientID   string     `gorm:"uniqueIndex;size:64;not null" json:"patientId"`
	Name        string     `gorm:"size:255" json:"name"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Diagnosis   string     `gorm:"type:text" json:"diagnosis,omitempty"`

	// Relations (not always preloaded)
	Visits       []PatientVisit `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	QueueEntries []QueueEntry   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}
