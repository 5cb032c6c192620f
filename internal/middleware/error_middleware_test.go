package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

func performErrorResponse(t *testing.T, err error) (int, *dto.ErrorDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(ctx, err)

	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return recorder.Code, body.Error
}

func TestHandleAPIErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"event not found", apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"occurrence not found", apperrors.ErrOccurrenceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"already registered", apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeConflict},
		{"lesson completed", apperrors.ErrLessonCompleted, http.StatusConflict, dto.ErrorCodeLessonCompleted},
		{"occurrence full", apperrors.ErrOccurrenceFull, http.StatusGone, dto.ErrorCodeOccurrenceFull},
		{"occurrence ended", apperrors.ErrOccurrenceEnded, http.StatusGone, dto.ErrorCodeOccurrenceEnded},
		{"occurrence required", apperrors.ErrOccurrenceRequired, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"validation failed", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"provider unavailable", apperrors.ErrProviderUnavailable, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"unknown error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := performErrorResponse(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.NotEmpty(t, detail.Message)
		})
	}
}

func TestHandleAPIErrorClassifiesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", apperrors.ErrOccurrenceFull)

	status, detail := performErrorResponse(t, wrapped)

	assert.Equal(t, http.StatusGone, status)
	assert.Equal(t, dto.ErrorCodeOccurrenceFull, detail.Code)
}

func TestHandleAPIErrorUsesCustomMessage(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrOccurrenceNotFound, "Occurrence does not belong to this event")

	status, detail := performErrorResponse(t, err)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, detail.Code)
	assert.Equal(t, "Occurrence does not belong to this event", detail.Message)
}

func TestHandleAPIErrorForbiddenCarriesMessage(t *testing.T) {
	err := apperrors.NewForbiddenError("Only the event's instructor can manage it")

	status, detail := performErrorResponse(t, err)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, dto.ErrorCodeForbidden, detail.Code)
	assert.Equal(t, "Only the event's instructor can manage it", detail.Message)
}
