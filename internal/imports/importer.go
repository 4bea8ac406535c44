package imports

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hospital-queue-server/internal/models"
	"hospital-queue-server/internal/staging"
)

// Importer orchestrates bulk patient/visit imports from staged files.
//
// A real run is all-or-nothing: every row of the file must validate, and
// all inserts happen inside a single transaction. A file with even one
// bad row persists nothing.
type Importer struct {
	db      *gorm.DB
	staging staging.Store
}

// NewImporter creates an Importer writing through db and reading staged
// files from store.
func NewImporter(db *gorm.DB, store staging.Store) *Importer {
	return &Importer{db: db, staging: store}
}

// Import validates the staged file named filename and, unless dryRun is
// set, applies it. Returns staging.ErrNotFound when no such file was
// staged. The returned report is non-nil whenever the file was found,
// including when the commit phase itself fails.
func (im *Importer) Import(filename string, dryRun bool) (*ImportReport, error) {
	file, err := im.staging.Get(filename)
	if err != nil {
		return nil, err
	}

	// Always re-parse the staged bytes so the import sees whatever was
	// uploaded last, not a parse cached at upload time.
	rows, err := ParseRows(file.Content, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing staged file %s: %w", filename, err)
	}

	report := &ImportReport{
		TotalRows: len(rows),
		Errors:    []RowError{},
		DryRun:    dryRun,
	}

	if len(rows) == 0 {
		report.Errors = append(report.Errors, RowError{RowIndex: 0, Errors: []string{"no rows found"}})
		return report, nil
	}

	results := ValidateRows(rows)
	for _, result := range results {
		if result.Valid {
			report.ValidRows++
			continue
		}
		report.InvalidRows++
		report.Errors = append(report.Errors, RowError{RowIndex: result.RowIndex, Errors: result.Errors})
	}

	if dryRun || report.InvalidRows > 0 {
		return report, nil
	}

	// Single transaction for the whole file: committed only after every
	// row went through, rolled back in full on any failure.
	err = im.db.Transaction(func(tx *gorm.DB) error {
		for _, result := range results {
			if err := applyRow(tx, result.Fields); err != nil {
				return fmt.Errorf("row %d: %w", result.RowIndex, err)
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	report.Committed = true
	return report, nil
}

// applyRow resolves the row's patient by external patient_id, creating
// one when absent, then records one visit for it. Reuse of an existing
// patient is how repeated ids (within a file or across imports) end up
// as extra visits instead of duplicate patient rows.
func applyRow(tx *gorm.DB, fields NormalizedFields) error {
	var patient models.Patient
	err := tx.Where("patient_id = ?", fields.PatientID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		patient = models.Patient{
			PatientID:   fields.PatientID,
			Name:        fields.Name,
			DateOfBirth: fields.DateOfBirth,
			Diagnosis:   fields.Diagnosis,
		}
		if err := tx.Create(&patient).Error; err != nil {
			return fmt.Errorf("creating patient %s: %w", fields.PatientID, err)
		}
	} else if err != nil {
		return fmt.Errorf("looking up patient %s: %w", fields.PatientID, err)
	}

	visit := models.PatientVisit{
		PatientID:    patient.ID,
		DepartmentID: fields.DepartmentID,
		Diagnosis:    fields.Diagnosis,
	}
	if err := tx.Create(&visit).Error; err != nil {
		return fmt.Errorf("creating visit for patient %s: %w", fields.PatientID, err)
	}
	return nil
}
