package imports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Canonical field names a source column can map to. Columns that map to
// nothing are ignored.
const (
	FieldPatientID    = "patient_id"
	FieldName         = "name"
	FieldDOB          = "dob"
	FieldDiagnosis    = "diagnosis"
	FieldDepartmentID = "department_id"
)

// ParsedRow is one data row of an uploaded file, addressed by its 1-based
// position among data rows (header excluded). Fields hold the raw string
// values; normalization and validation happen later.
type ParsedRow struct {
	RowIndex     int
	PatientID    string
	Name         string
	DOB          string
	Diagnosis    string
	DepartmentID string

	// ParseError is set when the row could not be lined up with the
	// header (wrong column count or a CSV syntax problem). The row is
	// kept so the validator can report it at a stable index.
	ParseError string
}

// ParseRows turns raw CSV bytes into an ordered sequence of ParsedRow.
// The first non-empty record is the header. An explicit mapping
// (source column name -> canonical field) takes precedence; without one,
// header names are matched to canonical fields case-insensitively.
//
// ParseRows never aborts on a bad row: malformed rows come back with
// ParseError set and parsing continues. An empty file yields zero rows
// and no error; "no rows" is a validation concern, not a parse failure.
func ParseRows(data []byte, mapping map[string]string) ([]ParsedRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // column counts are checked per row below
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	// Normalize mapping keys once; header matching is case-insensitive
	// either way.
	normMapping := make(map[string]string, len(mapping))
	for src, canonical := range mapping {
		normMapping[strings.ToLower(strings.TrimSpace(src))] = canonical
	}

	var rows []ParsedRow
	var fieldPos map[string]int // canonical field -> column position
	headerWidth := 0
	rowIndex := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if fieldPos == nil {
				// Can't even establish a header; nothing to report per-row.
				return nil, fmt.Errorf("reading csv header: %w", err)
			}
			rowIndex++
			rows = append(rows, ParsedRow{
				RowIndex:   rowIndex,
				ParseError: fmt.Sprintf("malformed row: %v", err),
			})
			continue
		}

		if isEmptyRecord(record) {
			continue
		}

		if fieldPos == nil {
			fieldPos = make(map[string]int, len(record))
			headerWidth = len(record)
			for i, h := range record {
				key := strings.ToLower(strings.TrimSpace(h))
				if canonical, ok := normMapping[key]; ok {
					key = canonical
				}
				switch key {
				case FieldPatientID, FieldName, FieldDOB, FieldDiagnosis, FieldDepartmentID:
					fieldPos[key] = i
				}
			}
			continue
		}

		rowIndex++
		row := ParsedRow{RowIndex: rowIndex}
		if len(record) != headerWidth {
			row.ParseError = fmt.Sprintf("row has %d columns, expected %d", len(record), headerWidth)
			rows = append(rows, row)
			continue
		}

		row.PatientID = fieldAt(record, fieldPos, FieldPatientID)
		row.Name = fieldAt(record, fieldPos, FieldName)
		row.DOB = fieldAt(record, fieldPos, FieldDOB)
		row.Diagnosis = fieldAt(record, fieldPos, FieldDiagnosis)
		row.DepartmentID = fieldAt(record, fieldPos, FieldDepartmentID)
		rows = append(rows, row)
	}

	return rows, nil
}

func fieldAt(record []string, fieldPos map[string]int, field string) string {
	pos, ok := fieldPos[field]
	if !ok || pos >= len(record) {
		return ""
	}
	return record[pos]
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
