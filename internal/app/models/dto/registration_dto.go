package dto

import (
	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/presenter"
)

// RescheduleRequest moves a confirmed registration between two occurrences
type RescheduleRequest struct {
	FromOccurrenceID string `json:"fromOccurrenceId" binding:"required"`
	ToOccurrenceID   string `json:"toOccurrenceId" binding:"required"`
}

// AttendanceRequest records post-session attendance and completion for one
// participant. Submitted by the delivering instructor.
type AttendanceRequest struct {
	UserID          int64 `json:"userId" binding:"required,gt=0"`
	Attended        bool  `json:"attended"`
	LessonCompleted bool  `json:"lessonCompleted"`
}

// RegistrationStatusResponse is the per-user view of one occurrence: the raw
// scheduling state plus the ready-to-render action view-model.
type RegistrationStatusResponse struct {
	OccurrenceID string                   `json:"occurrenceId"`
	Registered   bool                     `json:"registered"`
	Completed    bool                     `json:"completed"`
	Action       presenter.ScheduleAction `json:"action"`
}

// RegistrationListItem is one entry of a user's registration list
type RegistrationListItem struct {
	Registration *models.Registration `json:"registration"`
	Occurrence   *OccurrenceResponse  `json:"occurrence,omitempty"`
}
