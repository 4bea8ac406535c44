package imports

import (
	"fmt"
	"strings"
	"time"
)

// dobLayout is the only accepted date-of-birth format.
const dobLayout = "2006-01-02"

// NormalizedFields holds a valid row's values trimmed and typed, ready
// for entity construction at commit time.
type NormalizedFields struct {
	PatientID    string
	Name         string
	DateOfBirth  *time.Time
	Diagnosis    string
	DepartmentID string
}

// RowValidationResult is the per-row outcome of validation.
// Valid is true exactly when Errors is empty.
type RowValidationResult struct {
	RowIndex int
	Valid    bool
	Errors   []string
	Fields   NormalizedFields
}

// ValidateRows applies the row rules to every parsed row, in order:
// rows that failed to parse are reported as-is; then patient_id must be
// non-empty after trimming; then dob, when present, must be a calendar
// date in YYYY-MM-DD form. A patient_id appearing in several rows of the
// same file is not an error: later rows add visits for the same patient.
//
// ValidateRows is a pure function of the batch. It never touches the
// database, so a dry run can call it any number of times without side
// effects; patient existence is resolved at commit time.
func ValidateRows(rows []ParsedRow) []RowValidationResult {
	results := make([]RowValidationResult, 0, len(rows))
	for _, row := range rows {
		result := RowValidationResult{RowIndex: row.RowIndex}

		if row.ParseError != "" {
			result.Errors = append(result.Errors, row.ParseError)
			results = append(results, result)
			continue
		}

		patientID := strings.TrimSpace(row.PatientID)
		if patientID == "" {
			result.Errors = append(result.Errors, "missing required field patient_id")
			results = append(results, result)
			continue
		}

		fields := NormalizedFields{
			PatientID:    patientID,
			Name:         strings.TrimSpace(row.Name),
			Diagnosis:    strings.TrimSpace(row.Diagnosis),
			DepartmentID: strings.TrimSpace(row.DepartmentID),
		}

		if dob := strings.TrimSpace(row.DOB); dob != "" {
			parsed, err := time.Parse(dobLayout, dob)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("invalid dob %q: expected YYYY-MM-DD", dob))
			} else {
				fields.DateOfBirth = &parsed
			}
		}

		result.Valid = len(result.Errors) == 0
		result.Fields = fields
		results = append(results, result)
	}
	return results
}
