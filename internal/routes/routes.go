package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-queue-server/internal/config"
	"hospital-queue-server/internal/handlers"
	"hospital-queue-server/internal/imports"
	"hospital-queue-server/internal/staging"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize handlers
	stagingStore := staging.NewStore(db)
	importer := imports.NewImporter(db, stagingStore)

	patientHandler := handlers.NewPatientHandler(db)
	visitHandler := handlers.NewVisitHandler(db)
	departmentHandler := handlers.NewDepartmentHandler(db)
	queueHandler := handlers.NewQueueHandler(db)
	uploadHandler := handlers.NewUploadHandler(stagingStore, importer, cfg.MaxUploadBytes)

	api := router.Group("/api/v1")
	{
		// Patient registration and lookup
		patientRoutes := api.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
		}

		// Visit records
		visitRoutes := api.Group("/visits")
		{
			visitRoutes.POST("", visitHandler.CreateVisit)
			visitRoutes.GET("", visitHandler.GetVisits)
			visitRoutes.GET("/:id", visitHandler.GetVisitByID)
		}

		// Departments
		departmentRoutes := api.Group("/departments")
		{
			departmentRoutes.POST("", departmentHandler.CreateDepartment)
			departmentRoutes.GET("", departmentHandler.GetDepartments)
		}

		// Check-in and live queue (clients poll the GET endpoint)
		queueRoutes := api.Group("/queue")
		{
			queueRoutes.POST("/check-in", queueHandler.CheckIn)
			queueRoutes.GET("", queueHandler.GetQueue)
			queueRoutes.PATCH("/:id/status", queueHandler.UpdateQueueStatus)
		}

		// Bulk CSV import: stage a file, then preview or apply it
		uploadRoutes := api.Group("/uploads")
		{
			uploadRoutes.POST("", uploadHandler.Upload)
			uploadRoutes.POST("/import", uploadHandler.Import)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
