package imports

// RowError pairs a 1-based data-row position with the reasons the row
// was rejected.
type RowError struct {
	RowIndex int      `json:"row_index"`
	Errors   []string `json:"errors"`
}

// ImportReport is the outcome of one import call. It is built fresh on
// every call and never persisted.
type ImportReport struct {
	TotalRows   int        `json:"total_rows"`
	ValidRows   int        `json:"valid_rows"`
	InvalidRows int        `json:"invalid_rows"`
	Errors      []RowError `json:"errors"`
	DryRun      bool       `json:"dry_run"`
	Committed   bool       `json:"committed"`
}

// HasErrors reports whether anything in the file would block a commit,
// including the file-level "no rows found" case.
func (r *ImportReport) HasErrors() bool {
	return len(r.Errors) > 0
}
