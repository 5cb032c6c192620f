package dto

import (
	"time"

	"github.com/teachhq/teach-backend/internal/app/models"
)

// EventFilterRequest carries the optional catalog filters. Zero values match
// everything.
type EventFilterRequest struct {
	Type         string `form:"type"`
	InstructorID int64  `form:"instructorId"`
	ModuleID     string `form:"moduleId"`
}

// CreateEventRequest is the payload for creating a new schedulable event
type CreateEventRequest struct {
	Title           string      `json:"title" binding:"required,min=3,max=200"`
	Description     string      `json:"description"`
	Type            string      `json:"type" binding:"required"`
	StartDate       time.Time   `json:"startDate" binding:"required"`
	EndDate         time.Time   `json:"endDate" binding:"required"`
	Location        string      `json:"location"`
	MeetingURL      string      `json:"meetingUrl"`
	MaxParticipants *int        `json:"maxParticipants" binding:"omitempty,gt=0"`
	IsRecurring     bool        `json:"isRecurring"`
	RecurringDates  []time.Time `json:"recurringDates"`
	ModuleID        *string     `json:"moduleId"`
}

// OccurrenceResponse is one bookable occurrence with its derived seat figures
type OccurrenceResponse struct {
	ID                  string    `json:"id"`
	EventID             string    `json:"eventId"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	MaxParticipants     *int      `json:"maxParticipants,omitempty"`
	CurrentParticipants int       `json:"currentParticipants"`
	AvailableSeats      *int      `json:"availableSeats"`
	IsFull              bool      `json:"isFull"`
	InstructorName      string    `json:"instructorName"`
}

// NewOccurrenceResponse maps an occurrence onto its response shape
func NewOccurrenceResponse(occ *models.Occurrence) OccurrenceResponse {
	return OccurrenceResponse{
		ID:                  occ.ID,
		EventID:             occ.EventID,
		Date:                occ.Date,
		StartTime:           occ.StartTime,
		EndTime:             occ.EndTime,
		MaxParticipants:     occ.MaxParticipants,
		CurrentParticipants: occ.CurrentParticipants,
		AvailableSeats:      occ.AvailableSeats(),
		IsFull:              occ.IsFull(),
		InstructorName:      occ.InstructorName,
	}
}

// EventResponse is an event with its embedded upcoming occurrence summaries
type EventResponse struct {
	Event       *models.Event        `json:"event"`
	Occurrences []OccurrenceResponse `json:"occurrences,omitempty"`
}
