package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-queue-server/internal/models"
	"hospital-queue-server/internal/utils"
)

// PatientHandler handles patient registration and lookups.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// CreatePatientRequest represents the request body for registering a patient.
type CreatePatientRequest struct {
	PatientID   string `json:"patientId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Diagnosis   string `json:"diagnosis"`
}

// CreatePatient handles registering a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Patient
	if err := h.DB.Where("patient_id = ?", req.PatientID).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Patient with this patient ID already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	patient := models.Patient{
		PatientID: req.PatientID,
		Name:      req.Name,
		Diagnosis: req.Diagnosis,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "Invalid date of birth format. Please use YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = &dob
	}

	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}

	utils.Created(c, "Patient registered successfully", patient)
}

// GetPatients handles fetching all patients.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Order("created_at desc").Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles fetching a single patient by row ID or external patient ID.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id := c.Param("id")

	var patient models.Patient
	if err := h.DB.Where("id = ? OR patient_id = ?", id, id).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatientRequest represents the request body for updating a patient.
type UpdatePatientRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Diagnosis   string `json:"diagnosis"`
}

// UpdatePatient handles updating a patient by ID.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id := c.Param("id")

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil { // Use ShouldBindJSON for partial updates
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", id).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	if req.Name != "" {
		patient.Name = req.Name
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "Invalid date of birth format. Please use YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = &dob
	}
	if req.Diagnosis != "" {
		patient.Diagnosis = req.Diagnosis
	}

	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient handles deleting a patient by ID.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&models.Patient{}, "id = ?", id).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient deleted successfully", nil)
}
