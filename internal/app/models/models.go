package models

// RoleType defines the user role type
type RoleType string

const (
	RoleTeacher    RoleType = "TEACHER"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleAdmin      RoleType = "ADMIN"
)

// EventType classifies a schedulable live session
type EventType string

const (
	EventTypeLiveClass  EventType = "LIVE_CLASS"
	EventTypeWorkshop   EventType = "WORKSHOP"
	EventTypeWebinar    EventType = "WEBINAR"
	EventTypeMentoring  EventType = "MENTORING"
	EventTypeQAndA      EventType = "Q_AND_A"
	EventTypeConference EventType = "CONFERENCE"
)

// IsValid reports whether t is one of the known event types
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeLiveClass, EventTypeWorkshop, EventTypeWebinar,
		EventTypeMentoring, EventTypeQAndA, EventTypeConference:
		return true
	}
	return false
}

// RegistrationStatus is the lifecycle state of a registration
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)
