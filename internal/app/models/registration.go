package models

import "time"

// Registration represents one user's claim on one occurrence seat.
// HasAttended, LessonCompleted and CompletedAt are written by session
// delivery after the fact; once LessonCompleted is set the registration is
// frozen for scheduling purposes.
type Registration struct {
	ID              string             `json:"id" db:"id"`
	UserID          int64              `json:"userId" db:"user_id"`
	OccurrenceID    string             `json:"occurrenceId" db:"occurrence_id"`
	Status          RegistrationStatus `json:"status" db:"status"`
	HasAttended     bool               `json:"hasAttended" db:"has_attended"`
	LessonCompleted bool               `json:"lessonCompleted" db:"lesson_completed"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt       time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" db:"updated_at"`
}

// RegistrationState is the per-user scheduling state of one occurrence, the
// input the presentation layer needs alongside the event and occurrence.
type RegistrationState struct {
	Registered bool `json:"registered"`
	Completed  bool `json:"completed"`
}
