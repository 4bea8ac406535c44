package staging

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hospital-queue-server/internal/models"
)

// ErrNotFound is returned by Get when no file was staged under the
// requested filename.
var ErrNotFound = errors.New("staged file not found")

// Store holds uploaded files between the upload step and a later import
// call, keyed by filename. It is passed to the import orchestrator as an
// explicit dependency rather than reached through package-level state.
type Store interface {
	Put(filename string, content []byte, contentType string) error
	Get(filename string) (*models.StagedFile, error)
}

type dbStore struct {
	db *gorm.DB
}

// NewStore creates a database-backed staging store.
func NewStore(db *gorm.DB) Store {
	return &dbStore{db: db}
}

// Put stages content under filename. Re-uploading the same filename
// overwrites the previous content and content type (last write wins).
func (s *dbStore) Put(filename string, content []byte, contentType string) error {
	file := models.StagedFile{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filename"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "content_type", "updated_at"}),
	}).Create(&file).Error
}

// Get returns the staged file for filename, or ErrNotFound.
func (s *dbStore) Get(filename string) (*models.StagedFile, error) {
	var file models.StagedFile
	if err := s.db.First(&file, "filename = ?", filename).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}
