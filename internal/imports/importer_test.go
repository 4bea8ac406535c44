package imports

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hospital-queue-server/internal/models"
	"hospital-queue-server/internal/staging"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Named in-memory database so the connection pool shares one instance
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return n
}

func stageFile(t *testing.T, store staging.Store, filename, content string) {
	t.Helper()
	if err := store.Put(filename, []byte(content), "text/csv"); err != nil {
		t.Fatalf("staging %s: %v", filename, err)
	}
}

func TestImportUnstagedFile(t *testing.T) {
	db := newTestDB(t)
	importer := NewImporter(db, staging.NewStore(db))

	if _, err := importer.Import("never-uploaded.csv", false); err != staging.ErrNotFound {
		t.Errorf("Import of unstaged file: err = %v, want staging.ErrNotFound", err)
	}
}

func TestImportAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "mixed.csv",
		"patient_id,name,dob,diagnosis\nP-TST1,Atomic Test,1990-01-01,Test\n,Bad Row,1980-02-02,MissingID\n")

	report, err := importer.Import("mixed.csv", false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if report.Committed {
		t.Error("report.Committed = true, want false")
	}
	if report.TotalRows != 2 || report.ValidRows != 1 || report.InvalidRows != 1 {
		t.Errorf("report counts = %d/%d/%d, want 2/1/1", report.TotalRows, report.ValidRows, report.InvalidRows)
	}
	if len(report.Errors) != 1 || report.Errors[0].RowIndex != 2 {
		t.Errorf("report.Errors = %+v, want single entry at row 2", report.Errors)
	}
	if n := countRows(t, db, &models.Patient{}); n != 0 {
		t.Errorf("patient count = %d, want 0 (one bad row must block the whole file)", n)
	}
	if n := countRows(t, db, &models.PatientVisit{}); n != 0 {
		t.Errorf("visit count = %d, want 0", n)
	}
}

func TestImportCommitsValidFile(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "ok.csv",
		"patient_id,name,dob,diagnosis\nP-TST2,Real Test,1991-02-02,OK\nP-TST3,Second,1992-03-03,Checkup\n")

	report, err := importer.Import("ok.csv", false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if !report.Committed {
		t.Error("report.Committed = false, want true")
	}
	if len(report.Errors) != 0 {
		t.Errorf("report.Errors = %+v, want empty", report.Errors)
	}
	if n := countRows(t, db, &models.Patient{}); n != 2 {
		t.Errorf("patient count = %d, want 2", n)
	}
	if n := countRows(t, db, &models.PatientVisit{}); n != 2 {
		t.Errorf("visit count = %d, want 2", n)
	}

	var patient models.Patient
	if err := db.Where("patient_id = ?", "P-TST2").First(&patient).Error; err != nil {
		t.Fatalf("imported patient missing: %v", err)
	}
	if patient.Name != "Real Test" || patient.DateOfBirth == nil {
		t.Errorf("patient fields not persisted: %+v", patient)
	}
	var visit models.PatientVisit
	if err := db.Where("patient_id = ?", patient.ID).First(&visit).Error; err != nil {
		t.Fatalf("visit for imported patient missing: %v", err)
	}
	if visit.Diagnosis != "OK" {
		t.Errorf("visit diagnosis = %q, want %q", visit.Diagnosis, "OK")
	}
}

func TestImportReusesExistingPatient(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "first.csv", "patient_id,name,dob,diagnosis\nP-7,Returning,1960-06-06,Admission\n")
	stageFile(t, store, "second.csv", "patient_id,name,dob,diagnosis\nP-7,Returning,1960-06-06,Follow-up\n")

	for _, filename := range []string{"first.csv", "second.csv"} {
		report, err := importer.Import(filename, false)
		if err != nil {
			t.Fatalf("Import(%s) returned error: %v", filename, err)
		}
		if !report.Committed {
			t.Fatalf("Import(%s) not committed: %+v", filename, report)
		}
	}

	if n := countRows(t, db, &models.Patient{}); n != 1 {
		t.Errorf("patient count = %d, want 1 (same patient_id must not duplicate)", n)
	}
	if n := countRows(t, db, &models.PatientVisit{}); n != 2 {
		t.Errorf("visit count = %d, want 2 (one per import)", n)
	}
}

func TestImportDuplicateIDWithinFile(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "dupes.csv",
		"patient_id,name,dob,diagnosis\nP-8,Twice,1955-05-05,First\nP-8,Twice,1955-05-05,Second\n")

	report, err := importer.Import("dupes.csv", false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if !report.Committed {
		t.Fatalf("import not committed: %+v", report)
	}
	if n := countRows(t, db, &models.Patient{}); n != 1 {
		t.Errorf("patient count = %d, want 1", n)
	}
	if n := countRows(t, db, &models.PatientVisit{}); n != 2 {
		t.Errorf("visit count = %d, want 2", n)
	}
}

func TestImportDryRunHasNoSideEffects(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "valid.csv", "patient_id,name,dob,diagnosis\nP-1,Alice,1990-01-01,Flu\n")
	stageFile(t, store, "invalid.csv", "patient_id,name,dob,diagnosis\n,NoID,1990-01-01,Flu\n")

	for _, filename := range []string{"valid.csv", "invalid.csv"} {
		for i := 0; i < 3; i++ {
			report, err := importer.Import(filename, true)
			if err != nil {
				t.Fatalf("dry run %d of %s returned error: %v", i, filename, err)
			}
			if !report.DryRun || report.Committed {
				t.Errorf("dry run report = %+v, want DryRun=true Committed=false", report)
			}
		}
	}

	if n := countRows(t, db, &models.Patient{}); n != 0 {
		t.Errorf("patient count = %d after dry runs, want 0", n)
	}
	if n := countRows(t, db, &models.PatientVisit{}); n != 0 {
		t.Errorf("visit count = %d after dry runs, want 0", n)
	}
}

func TestImportEmptyFile(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "empty.csv", "")

	report, err := importer.Import("empty.csv", false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if report.Committed {
		t.Error("empty file must not commit")
	}
	if !report.HasErrors() {
		t.Errorf("empty file should report 'no rows found', got %+v", report)
	}
}

func TestImportSeesLatestStagedContent(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "report.csv", "patient_id,name\n,NoID\n")
	stageFile(t, store, "report.csv", "patient_id,name\nP-1,Alice\n")

	report, err := importer.Import("report.csv", false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if !report.Committed {
		t.Errorf("re-uploaded content should win, got %+v", report)
	}
}

func TestImportRollsBackOnPersistenceFailure(t *testing.T) {
	db := newTestDB(t)
	store := staging.NewStore(db)
	importer := NewImporter(db, store)

	stageFile(t, store, "ok.csv", "patient_id,name,dob,diagnosis\nP-1,Alice,1990-01-01,Flu\n")

	// Sabotage the visit table so the commit phase fails after the
	// patient insert succeeded.
	if err := db.Migrator().DropTable(&models.PatientVisit{}); err != nil {
		t.Fatalf("dropping visit table: %v", err)
	}

	report, err := importer.Import("ok.csv", false)
	if err == nil {
		t.Fatal("Import should fail when the visit insert fails")
	}
	if report == nil || report.Committed {
		t.Errorf("failure report = %+v, want non-nil with Committed=false", report)
	}
	if n := countRows(t, db, &models.Patient{}); n != 0 {
		t.Errorf("patient count = %d, want 0 (patient insert must roll back)", n)
	}
}
