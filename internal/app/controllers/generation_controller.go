package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/app/services"
	"github.com/teachhq/teach-backend/internal/middleware"
)

// GenerationController handles AI workspace operations
type GenerationController struct {
	generationService services.GenerationService
}

// NewGenerationController creates a new GenerationController
func NewGenerationController(generationService services.GenerationService) *GenerationController {
	return &GenerationController{
		generationService: generationService,
	}
}

// GenerateText handles freeform workspace prompts
// @Summary Generate text
// @Description Forwards a freeform prompt to the configured model provider and returns the raw answer
// @Tags workspace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateTextRequest true "Prompt"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateTextResponse} "Text generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 502 {object} dto.ErrorResponse "Provider unavailable or returned malformed output"
// @Router /workspace/generate [post]
func (c *GenerationController) GenerateText(ctx *gin.Context) {
	var req dto.GenerateTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.generationService.GenerateText(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GenerateLessonPlan handles structured lesson plan drafting
// @Summary Generate lesson plan
// @Description Asks the provider for a lesson plan in a fixed JSON shape and returns the decoded plan
// @Tags workspace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LessonPlanRequest true "Lesson plan brief"
// @Success 200 {object} dto.APIResponse{data=dto.LessonPlanResponse} "Lesson plan generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 502 {object} dto.ErrorResponse "Provider unavailable or returned malformed output"
// @Router /workspace/lesson-plan [post]
func (c *GenerationController) GenerateLessonPlan(ctx *gin.Context) {
	var req dto.LessonPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	plan, err := c.generationService.GenerateLessonPlan(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}
