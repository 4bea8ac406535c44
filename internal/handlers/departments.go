package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-queue-server/internal/models"
	"hospital-queue-server/internal/utils"
)

// DepartmentHandler handles hospital departments.
type DepartmentHandler struct {
	DB *gorm.DB
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{DB: db}
}

// CreateDepartmentRequest represents the request body for creating a department.
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateDepartment handles creating a new department.
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Department
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Department with this name already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	department := models.Department{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.DB.Create(&department).Error; err != nil {
		utils.InternalServerError(c, "Failed to create department: "+err.Error())
		return
	}

	utils.Created(c, "Department created successfully", department)
}

// GetDepartments handles fetching all departments.
func (h *DepartmentHandler) GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.DB.Order("name asc").Find(&departments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch departments: "+err.Error())
		return
	}
	utils.Success(c, "Departments fetched successfully", departments)
}
