package models

// PatientVisit represents one hospital visit for a patient.
// Visits reference the Patient row ID (not the external PatientID),
// so a visit can never outlive or precede its patient record.
type PatientVisit struct {
	BaseModel
	PatientID string `gorm:"size:36;index;not null" json:"patientId"`
	// DepartmentID is optional, so it stays a plain indexed column
	// rather than an enforced foreign key.
	DepartmentID string `gorm:"size:36;index" json:"departmentId,omitempty"`
	Diagnosis    string `gorm:"type:text" json:"diagnosis,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
