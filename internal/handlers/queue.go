package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-queue-server/internal/models"
	"hospital-queue-server/internal/utils"
)

// QueueHandler handles patient check-in and the live waiting queue.
type QueueHandler struct {
	DB *gorm.DB
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(db *gorm.DB) *QueueHandler {
	return &QueueHandler{DB: db}
}

// CheckInRequest represents the request body for checking a patient in.
type CheckInRequest struct {
	PatientID    string `json:"patientId" binding:"required"` // external patient id
	DepartmentID string `json:"departmentId"`
	Reason       string `json:"reason"`
}

// CheckIn handles adding a patient to the waiting queue.
func (h *QueueHandler) CheckIn(c *gin.Context) {
	var req CheckInRequest
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

	// A patient already waiting should not be queued twice
	var waiting models.QueueEntry
	err := h.DB.Where("patient_id = ? AND status = ?", patient.ID, models.QueueStatusWaiting).First(&waiting).Error
	if err == nil {
		utils.BadRequest(c, "Patient is already checked in and waiting")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	entry := models.QueueEntry{
		PatientID:    patient.ID,
		DepartmentID: req.DepartmentID,
		Status:       models.QueueStatusWaiting,
		CheckedInAt:  time.Now(),
		Reason:       req.Reason,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		utils.InternalServerError(c, "Failed to check in patient: "+err.Error())
		return
	}

	utils.Created(c, "Patient checked in successfully", entry)
}

// GetQueue handles fetching waiting entries in check-in order, optionally
// filtered by department. Position is computed from the ordering here;
// clients poll this endpoint for the live queue.
func (h *QueueHandler) GetQueue(c *gin.Context) {
	query := h.DB.Preload("Patient").
		Where("status = ?", models.QueueStatusWaiting).
		Order("checked_in_at asc")

	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var entries []models.QueueEntry
	if err := query.Find(&entries).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch queue: "+err.Error())
		return
	}

	for i := range entries {
		entries[i].Position = i + 1
	}

	utils.Success(c, "Queue fetched successfully", entries)
}

// UpdateQueueStatusRequest represents the request body for moving a queue entry.
type UpdateQueueStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=waiting called done cancelled"`
}

// UpdateQueueStatus handles moving a queue entry through its lifecycle.
func (h *QueueHandler) UpdateQueueStatus(c *gin.Context) {
	id := c.Param("id")

	var req UpdateQueueStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var entry models.QueueEntry
	if err := h.DB.First(&entry, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Queue entry not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	entry.Status = models.QueueStatus(req.Status)
	if err := h.DB.Save(&entry).Error; err != nil {
		utils.InternalServerError(c, "Failed to update queue entry: "+err.Error())
		return
	}

	utils.Success(c, "Queue entry updated successfully", entry)
}
