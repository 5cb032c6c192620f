// Package presenter derives UI-facing view-models from scheduling state.
// Everything here is pure: no I/O, no clocks, no stores.
package presenter

import "github.com/teachhq/teach-backend/internal/app/models"

// IconKind names the icon a client should render next to the action label
type IconKind string

const (
	IconCheck    IconKind = "check"
	IconCalendar IconKind = "calendar"
	IconCancel   IconKind = "cancel"
	IconFull     IconKind = "full"
	IconRegister IconKind = "register"
)

// VariantKind names the button variant a client should render
type VariantKind string

const (
	VariantPrimary VariantKind = "primary"
	VariantOutline VariantKind = "outline"
	VariantMuted   VariantKind = "muted"
)

// ScheduleAction is the view-model for the register/cancel/reschedule button
// of one occurrence.
type ScheduleAction struct {
	Label          string      `json:"label"`
	Icon           IconKind    `json:"icon"`
	Disabled       bool        `json:"disabled"`
	Variant        VariantKind `json:"variant"`
	AvailableSeats *int        `json:"availableSeats,omitempty"`
}

// ScheduleActionFor maps (event, occurrence, registration state) to the action
// view-model. Rows are evaluated top to bottom, first match wins:
//
//	completed            -> "Lesson Completed", disabled, muted
//	recurring            -> "Reschedule"/"Schedule", primary
//	registered           -> "Cancel Registration", outline
//	full                 -> "Full", disabled, outline
//	otherwise            -> "Register", primary
//
// Seat counts are surfaced only for bounded occurrences on rows where a seat
// figure is meaningful (everything except completed and cancel).
func ScheduleActionFor(ev *models.Event, occ *models.Occurrence, state models.RegistrationState) ScheduleAction {
	switch {
	case state.Completed:
		return ScheduleAction{
			Label:    "Lesson Completed",
			Icon:     IconCheck,
			Disabled: true,
			Variant:  VariantMuted,
		}

	case ev.IsRecurring:
		label := "Schedule"
		if state.Registered {
			label = "Reschedule"
		}
		return ScheduleAction{
			Label:          label,
			Icon:           IconCalendar,
			Variant:        VariantPrimary,
			AvailableSeats: occ.AvailableSeats(),
		}

	case state.Registered:
		return ScheduleAction{
			Label:   "Cancel Registration",
			Icon:    IconCancel,
			Variant: VariantOutline,
		}

	case occ.IsFull():
		return ScheduleAction{
			Label:          "Full",
			Icon:           IconFull,
			Disabled:       true,
			Variant:        VariantOutline,
			AvailableSeats: occ.AvailableSeats(),
		}

	default:
		return ScheduleAction{
			Label:          "Register",
			Icon:           IconRegister,
			Variant:        VariantPrimary,
			AvailableSeats: occ.AvailableSeats(),
		}
	}
}
