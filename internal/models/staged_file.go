package models

// StagedFile holds an uploaded file between the upload step and a later
// import call. Filename is the only lookup key; re-uploading the same
// name overwrites the previous content (last write wins).
type StagedFile struct {
	BaseModel
	Filename    string `gorm:"uniqueIndex;size:255;not null" json:"filename"`
	ContentType string `gorm:"size:100" json:"contentType"`
	Content     []byte `gorm:"type:longblob;not null" json:"-"` // File content as binary data (longblob for MySQL)
}
