package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachhq/teach-backend/internal/app/auth"
	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/app/services"
	"github.com/teachhq/teach-backend/internal/middleware"
)

// RegistrationController handles registration ledger operations
type RegistrationController struct {
	schedulingService services.SchedulingService
	authzService      *auth.AuthorizationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(schedulingService services.SchedulingService, authzService *auth.AuthorizationService) *RegistrationController {
	return &RegistrationController{
		schedulingService: schedulingService,
		authzService:      authzService,
	}
}

// caller extracts the authenticated user's id and email from the context.
// Returns false after writing the error response if the auth middleware did
// not run.
func caller(ctx *gin.Context) (int64, string, bool) {
	userID, exists := ctx.Get("userID")
	if !exists {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, "", false
	}
	userEmail := ""
	if v, ok := ctx.Get("email"); ok {
		userEmail, _ = v.(string)
	}
	return userID.(int64), userEmail, true
}

// RegisterForEvent handles registering for a non-recurring event
// @Summary Register for event
// @Description Registers the caller for a non-recurring event's sole occurrence. Recurring events require the occurrence-level endpoint.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.Registration} "Registration confirmed"
// @Failure 400 {object} dto.ErrorResponse "Recurring event requires a concrete occurrence"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or lesson completed"
// @Failure 410 {object} dto.ErrorResponse "Occurrence full or already ended"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{eventId}/register [post]
func (c *RegistrationController) RegisterForEvent(ctx *gin.Context) {
	userID, userEmail, ok := caller(ctx)
	if !ok {
		return
	}

	registration, err := c.schedulingService.Register(ctx, userID, userEmail, ctx.Param("eventId"), "")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(registration))
}

// RegisterForOccurrence handles registering for a concrete occurrence
// @Summary Register for occurrence
// @Description Registers the caller for one concrete occurrence of an event
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Param occurrenceId path string true "Occurrence ID"
// @Success 201 {object} dto.APIResponse{data=models.Registration} "Registration confirmed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Event or occurrence not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or lesson completed"
// @Failure 410 {object} dto.ErrorResponse "Occurrence full or already ended"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{eventId}/occurrences/{occurrenceId}/register [post]
func (c *RegistrationController) RegisterForOccurrence(ctx *gin.Context) {
	userID, userEmail, ok := caller(ctx)
	if !ok {
		return
	}

	registration, err := c.schedulingService.Register(ctx, userID, userEmail, ctx.Param("eventId"), ctx.Param("occurrenceId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(registration))
}

// Unregister handles cancelling a registration
// @Summary Cancel registration
// @Description Cancels the caller's confirmed registration and frees the seat. Completed lessons cannot be cancelled.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Param occurrenceId path string true "Occurrence ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Registration cancelled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "No active registration found"
// @Failure 409 {object} dto.ErrorResponse "Lesson already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{eventId}/occurrences/{occurrenceId}/register [delete]
func (c *RegistrationController) Unregister(ctx *gin.Context) {
	userID, userEmail, ok := caller(ctx)
	if !ok {
		return
	}

	if err := c.schedulingService.Unregister(ctx, userID, userEmail, ctx.Param("occurrenceId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Registration cancelled"}))
}

// Reschedule handles moving a registration between occurrences
// @Summary Reschedule registration
// @Description Moves the caller's confirmed registration to another occurrence in one transaction; on failure the original registration is kept
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RescheduleRequest true "Source and target occurrence"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Registration moved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Occurrence or registration not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered on target or lesson completed"
// @Failure 410 {object} dto.ErrorResponse "Target occurrence full or already ended"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /registrations/reschedule [post]
func (c *RegistrationController) Reschedule(ctx *gin.Context) {
	userID, userEmail, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.RescheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	registration, err := c.schedulingService.Reschedule(ctx, userID, userEmail, req.FromOccurrenceID, req.ToOccurrenceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(registration))
}

// GetRegistrationStatus handles the per-occurrence status view
// @Summary Get registration status
// @Description Returns the caller's scheduling state for one occurrence together with the ready-to-render action view-model
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param occurrenceId path string true "Occurrence ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse} "Status retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Occurrence not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /occurrences/{occurrenceId}/registration [get]
func (c *RegistrationController) GetRegistrationStatus(ctx *gin.Context) {
	userID, _, ok := caller(ctx)
	if !ok {
		return
	}

	status, err := c.schedulingService.GetRegistrationStatus(ctx, userID, ctx.Param("occurrenceId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(status))
}

// ListMyRegistrations handles listing the caller's registrations
// @Summary List my registrations
// @Description Returns the caller's confirmed registrations, newest first, each with its occurrence summary
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RegistrationListItem} "Registrations retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/registrations [get]
func (c *RegistrationController) ListMyRegistrations(ctx *gin.Context) {
	userID, _, ok := caller(ctx)
	if !ok {
		return
	}

	items, err := c.schedulingService.ListUserRegistrations(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// RecordAttendance handles post-session attendance recording
// @Summary Record attendance
// @Description Records attendance and lesson completion for one participant of an occurrence. Requires the INSTRUCTOR role. Completion is never cleared once set.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param occurrenceId path string true "Occurrence ID"
// @Param request body dto.AttendanceRequest true "Participant attendance"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this event"
// @Failure 404 {object} dto.ErrorResponse "Occurrence or registration not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /occurrences/{occurrenceId}/attendance [post]
func (c *RegistrationController) RecordAttendance(ctx *gin.Context) {
	userID, _, ok := caller(ctx)
	if !ok {
		return
	}

	// Role middleware already requires INSTRUCTOR; ownership narrows it to
	// the instructor who runs this event.
	if err := c.authzService.ValidateOccurrenceOwnership(ctx, ctx.Param("occurrenceId"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.schedulingService.RecordAttendance(ctx, ctx.Param("occurrenceId"), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Attendance recorded"}))
}
