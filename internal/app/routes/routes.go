package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/teachhq/teach-backend/internal/app/controllers"
	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	generationController *controllers.GenerationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Event catalog routes
		events := authenticated.Group("/events")
		{
			events.GET("", eventController.GetEvents)
			events.GET("/:eventId", eventController.GetEventByID)
			events.GET("/:eventId/occurrences", eventController.GetOccurrences)

			// Registration routes live under their event for discoverability
			events.POST("/:eventId/register", registrationController.RegisterForEvent)
			events.POST("/:eventId/occurrences/:occurrenceId/register", registrationController.RegisterForOccurrence)
			events.DELETE("/:eventId/occurrences/:occurrenceId/register", registrationController.Unregister)

			// Instructor-only routes
			eventsInstructorProtected := events.Group("")
			eventsInstructorProtected.Use(authMiddleware.RoleRequired(string(models.RoleInstructor)))
			{
				eventsInstructorProtected.POST("", eventController.CreateEvent)
			}
		}

		// Registration ledger routes
		authenticated.POST("/registrations/reschedule", registrationController.Reschedule)
		authenticated.GET("/me/registrations", registrationController.ListMyRegistrations)

		occurrences := authenticated.Group("/occurrences")
		{
			occurrences.GET("/:occurrenceId/registration", registrationController.GetRegistrationStatus)

			occurrencesInstructorProtected := occurrences.Group("")
			occurrencesInstructorProtected.Use(authMiddleware.RoleRequired(string(models.RoleInstructor)))
			{
				occurrencesInstructorProtected.POST("/:occurrenceId/attendance", registrationController.RecordAttendance)
			}
		}

		// AI workspace routes
		workspace := authenticated.Group("/workspace")
		{
			workspace.POST("/generate", generationController.GenerateText)
			workspace.POST("/lesson-plan", generationController.GenerateLessonPlan)
		}
	}
}
