package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-queue-server/internal/imports"
	"hospital-queue-server/internal/staging"
	"hospital-queue-server/internal/utils"
)

// UploadHandler handles staging uploaded files and running imports.
type UploadHandler struct {
	Staging        staging.Store
	Importer       *imports.Importer
	MaxUploadBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store staging.Store, importer *imports.Importer, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		Staging:        store,
		Importer:       importer,
		MaxUploadBytes: maxUploadBytes,
	}
}

// Upload stages a multipart file under its filename for a later import.
// Uploading succeeds even for an empty or invalid file: all row-level
// problems are reported at import time, not here.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "No file provided in 'file' form field: "+err.Error())
		return
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		utils.BadRequest(c, fmt.Sprintf("File exceeds maximum upload size of %d bytes", h.MaxUploadBytes))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to open uploaded file: "+err.Error())
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.Staging.Put(fileHeader.Filename, content, contentType); err != nil {
		utils.InternalServerError(c, "Failed to stage uploaded file: "+err.Error())
		return
	}

	// Parse once here just to tell the client how many data rows were
	// detected; the import itself re-parses the staged content.
	rows, err := imports.ParseRows(content, nil)
	if err != nil {
		rows = nil
	}

	utils.Success(c, "File staged successfully", gin.H{
		"filename":      fileHeader.Filename,
		"rows_detected": len(rows),
	})
}

// ImportRequest represents the form fields for running an import.
type ImportRequest struct {
	Filename string `form:"filename" binding:"required"`
	DryRun   string `form:"dry_run" binding:"required,oneof=true false"`
}

// Import validates a previously staged file and either previews the
// result (dry_run=true) or applies it as one all-or-nothing transaction.
func (h *UploadHandler) Import(c *gin.Context) {
	var req ImportRequest
	if !utils.BindFormAndValidate(c, &req) {
		return
	}
	dryRun := req.DryRun == "true"

	report, err := h.Importer.Import(req.Filename, dryRun)
	if err != nil {
		if err == staging.ErrNotFound {
			utils.NotFound(c, "No staged file found for filename: "+req.Filename)
			return
		}
		// Commit-phase failure: everything was rolled back, report the
		// failure without pretending any rows went through.
		if report != nil {
			utils.ErrorWithData(c, http.StatusInternalServerError, "Import failed and was rolled back: "+err.Error(), report)
			return
		}
		utils.InternalServerError(c, "Import failed: "+err.Error())
		return
	}

	if report.HasErrors() {
		utils.ErrorWithData(c, http.StatusBadRequest,
			fmt.Sprintf("Import rejected: %d of %d rows invalid, nothing was persisted", report.InvalidRows, report.TotalRows),
			report)
		return
	}

	if dryRun {
		utils.Success(c, "Dry run complete, no changes persisted", report)
		return
	}
	utils.Created(c, fmt.Sprintf("Imported %d rows successfully", report.ValidRows), report)
}
