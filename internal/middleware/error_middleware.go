package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Services wrap a
// sentinel in an apperrors.CustomError when the default message for that
// sentinel is too generic; the custom message replaces the default while the
// status and error code still come from the sentinel.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classifyError(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}

func classifyError(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"
	case errors.Is(err, apperrors.ErrOccurrenceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Occurrence not found"
	case errors.Is(err, apperrors.ErrRegistrationNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "No active registration found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return http.StatusConflict, dto.ErrorCodeConflict, "Already registered for this occurrence"
	case errors.Is(err, apperrors.ErrLessonCompleted):
		return http.StatusConflict, dto.ErrorCodeLessonCompleted, "Lesson already completed"
	case errors.Is(err, apperrors.ErrOccurrenceFull):
		return http.StatusGone, dto.ErrorCodeOccurrenceFull, "Occurrence has no available seats"
	case errors.Is(err, apperrors.ErrOccurrenceEnded):
		return http.StatusGone, dto.ErrorCodeOccurrenceEnded, "Occurrence has already ended"
	case errors.Is(err, apperrors.ErrOccurrenceRequired):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Recurring events require a concrete occurrence"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Generation provider unavailable"
	case errors.Is(err, apperrors.ErrMalformedModelOutput), errors.Is(err, apperrors.ErrGenerationFailed):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Content generation failed"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}
