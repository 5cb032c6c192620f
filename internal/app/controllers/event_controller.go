package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/app/services"
	"github.com/teachhq/teach-backend/internal/middleware"
	"github.com/teachhq/teach-backend/internal/pkg/helpers"
)

// EventController handles event catalog operations
type EventController struct {
	eventService      services.EventService
	schedulingService services.SchedulingService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, schedulingService services.SchedulingService) *EventController {
	return &EventController{
		eventService:      eventService,
		schedulingService: schedulingService,
	}
}

// GetEvents handles listing the event catalog
// @Summary List events
// @Description Retrieves the schedulable event catalog with optional filtering by type, instructor or course module
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by event type" Enums(LIVE_CLASS, WORKSHOP, WEBINAR, MENTORING, Q_AND_A, CONFERENCE)
// @Param instructorId query int false "Filter by instructor ID"
// @Param moduleId query string false "Filter by course module ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedData} "Events retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *EventController) GetEvents(ctx *gin.Context) {
	var filter dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	events, err := c.eventService.ListEvents(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	start, end := helpers.CalculateSliceIndices(page, size, len(events))
	paginationInfo := dto.NewPaginationInfo(int64(len(events)), page, size)

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(events[start:end], paginationInfo))
}

// GetEventByID handles retrieving a single event with its occurrences
// @Summary Get event by ID
// @Description Retrieves one event together with all of its occurrences
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{eventId} [get]
func (c *EventController) GetEventByID(ctx *gin.Context) {
	event, err := c.eventService.GetEventByID(ctx, ctx.Param("eventId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// GetOccurrences handles listing the occurrences of an event
// @Summary List event occurrences
// @Description Retrieves the occurrences of an event sorted by date; pass upcoming=true to hide occurrences that already ended
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Param upcoming query bool false "Only occurrences that have not ended yet"
// @Success 200 {object} dto.APIResponse{data=[]dto.OccurrenceResponse} "Occurrences retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{eventId}/occurrences [get]
func (c *EventController) GetOccurrences(ctx *gin.Context) {
	eventID := ctx.Param("eventId")

	if ctx.Query("upcoming") == "true" {
		occurrences, err := c.schedulingService.GetUpcomingOccurrences(ctx, eventID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(occurrences))
		return
	}

	occurrences, err := c.eventService.GetOccurrences(ctx, eventID, false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(occurrences))
}

// CreateEvent handles creating a new schedulable event
// @Summary Create event
// @Description Creates a new event and materializes its occurrences. Requires the INSTRUCTOR role.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Event created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, exists := ctx.Get("userID")
	if !exists {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}
	email, _ := ctx.Get("email")

	event, err := c.eventService.CreateEvent(ctx, &req, userID.(int64), email.(string))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}
