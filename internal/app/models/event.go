package models

import (
	"fmt"
	"time"

	"github.com/teachhq/teach-backend/internal/pkg/helpers"
)

// Event represents a schedulable live session template. Recurring events carry
// the full list of dates they expand into; non-recurring events coincide with
// their single occurrence.
type Event struct {
	ID              string      `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description,omitempty" db:"description"`
	Type            EventType   `json:"type" db:"type"`
	StartDate       time.Time   `json:"startDate" db:"start_date"`
	EndDate         time.Time   `json:"endDate" db:"end_date"`
	Location        string      `json:"location,omitempty" db:"location"`
	MeetingURL      string      `json:"meetingUrl,omitempty" db:"meeting_url"`
	MaxParticipants *int        `json:"maxParticipants,omitempty" db:"max_participants"`
	IsRecurring     bool        `json:"isRecurring" db:"is_recurring"`
	RecurringDates  []time.Time `json:"recurringDates,omitempty"`
	InstructorID    int64       `json:"instructorId" db:"instructor_id"`
	InstructorName  string      `json:"instructorName" db:"instructor_name"`
	ModuleID        *string     `json:"moduleId,omitempty" db:"module_id"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`

	// Related entities
	Module *CourseModule `json:"module,omitempty"`
}

// CourseModule is the course module a live session belongs to
type CourseModule struct {
	ID    string `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Type  string `json:"type" db:"type"`
}

// Occurrence is one concrete, bookable instance of an Event. For recurring
// events each recurring date materializes one occurrence; non-recurring events
// have exactly one.
type Occurrence struct {
	ID                  string    `json:"id" db:"id"`
	EventID             string    `json:"eventId" db:"event_id"`
	Date                time.Time `json:"date" db:"date"`
	StartTime           string    `json:"startTime" db:"start_time"`
	EndTime             string    `json:"endTime" db:"end_time"`
	MaxParticipants     *int      `json:"maxParticipants,omitempty" db:"max_participants"`
	CurrentParticipants int       `json:"currentParticipants" db:"current_participants"`
	InstructorName      string    `json:"instructorName" db:"instructor_name"`
}

// OccurrenceID derives the stable occurrence id for the index-th date of an
// event. Expansion must yield the same ids on every call.
func OccurrenceID(eventID string, index int) string {
	return fmt.Sprintf("%s:%d", eventID, index)
}

// AvailableSeats returns the remaining seat count, or nil for unbounded
// occurrences.
func (o *Occurrence) AvailableSeats() *int {
	if o.MaxParticipants == nil {
		return nil
	}
	seats := *o.MaxParticipants - o.CurrentParticipants
	if seats < 0 {
		seats = 0
	}
	return &seats
}

// IsFull reports whether no seats remain. Unbounded occurrences are never full.
func (o *Occurrence) IsFull() bool {
	if o.MaxParticipants == nil {
		return false
	}
	return o.CurrentParticipants >= *o.MaxParticipants
}

// EndsAt anchors the occurrence's end wall-clock time onto its date.
func (o *Occurrence) EndsAt() time.Time {
	return helpers.CombineDateAndClock(o.Date, o.EndTime)
}

// HasEnded reports whether the occurrence lies entirely in the past.
func (o *Occurrence) HasEnded(now time.Time) bool {
	return o.EndsAt().Before(now)
}

// ExpandOccurrences materializes the occurrences of an event. Non-recurring
// events yield a single occurrence built from the event's own dates; recurring
// events yield one occurrence per recurring date. Wall-clock times are
// inherited from the event's start/end timestamps.
func ExpandOccurrences(ev *Event) []Occurrence {
	startClock := helpers.FormatClock(ev.StartDate)
	endClock := helpers.FormatClock(ev.EndDate)

	dates := ev.RecurringDates
	if !ev.IsRecurring {
		dates = []time.Time{ev.StartDate}
	}

	occurrences := make([]Occurrence, 0, len(dates))
	for i, date := range dates {
		occurrences = append(occurrences, Occurrence{
			ID:              OccurrenceID(ev.ID, i),
			EventID:         ev.ID,
			Date:            date,
			StartTime:       startClock,
			EndTime:         endClock,
			MaxParticipants: ev.MaxParticipants,
			InstructorName:  ev.InstructorName,
		})
	}
	return occurrences
}
