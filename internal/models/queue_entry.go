package models

import (
	"time"
)

// QueueStatus represents the status of a queue entry
type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "waiting"
	QueueStatusCalled    QueueStatus = "called"
	QueueStatusDone      QueueStatus = "done"
	QueueStatusCancelled QueueStatus = "cancelled"
)

// QueueEntry represents a checked-in patient waiting to be seen.
type QueueEntry struct {
	BaseModel
	PatientID    string      `gorm:"size:36;index;not null" json:"patientId"`
	DepartmentID string      `gorm:"size:36;index" json:"departmentId,omitempty"`
	Status       QueueStatus `gorm:"size:20;default:'waiting'" json:"status"`
	CheckedInAt  time.Time   `json:"checkedInAt"`
	Reason       string      `gorm:"size:255" json:"reason,omitempty"`

	// Position among waiting entries, computed at read time; never stored.
	Position int `gorm:"-" json:"position,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient"`
}
