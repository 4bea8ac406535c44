package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-queue-server/internal/models"
	"hospital-queue-server/internal/utils"
)

// VisitHandler handles patient visit records.
type VisitHandler struct {
	DB *gorm.DB
}

// NewVisitHandler creates a new VisitHandler.
func NewVisitHandler(db *gorm.DB) *VisitHandler {
	return &VisitHandler{DB: db}
}

// CreateVisitRequest represents the request body for recording a visit.
type CreateVisitRequest struct {
	PatientID    string `json:"patientId" binding:"required"` // external patient id
	DepartmentID string `json:"departmentId"`
	Diagnosis    string `json:"diagnosis"`
}

// CreateVisit handles recording a single visit for an existing patient.
func (h *VisitHandler) CreateVisit(c *gin.Context) {
	var req CreateVisitRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Verify patient exists
	var patient models.Patient
	if err := h.DB.Where("patient_id = ?", req.PatientID).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	if req.DepartmentID != "" {
		var department models.Department
		if err := h.DB.First(&department, "id = ?", req.DepartmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Department not found")
			} else {
				utils.InternalServerError(c, "Database error verifying department: "+err.Error())
			}
			return
		}
	}

	visit := models.PatientVisit{
		PatientID:    patient.ID,
		DepartmentID: req.DepartmentID,
		Diagnosis:    req.Diagnosis,
	}
	if err := h.DB.Create(&visit).Error; err != nil {
		utils.InternalServerError(c, "Failed to create visit: "+err.Error())
		return
	}

	utils.Created(c, "Visit recorded successfully", visit)
}

// GetVisits handles fetching visits, optionally filtered by external patient id.
func (h *VisitHandler) GetVisits(c *gin.Context) {
	query := h.DB.Order("created_at desc")

	if patientID := c.Query("patient_id"); patientID != "" {
		var patient models.Patient
		if err := h.DB.Where("patient_id = ?", patientID).First(&patient).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Patient not found")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		query = query.Where("patient_id = ?", patient.ID)
	}

	var visits []models.PatientVisit
	if err := query.Find(&visits).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch visits: "+err.Error())
		return
	}
	utils.Success(c, "Visits fetched successfully", visits)
}

// GetVisitByID handles fetching a single visit by ID.
func (h *VisitHandler) GetVisitByID(c *gin.Context) {
	id := c.Param("id")

	var visit models.PatientVisit
	if err := h.DB.First(&visit, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Visit not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Visit fetched successfully", visit)
}
