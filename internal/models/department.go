package models

// Department represents a hospital department patients queue for.
type Department struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}
