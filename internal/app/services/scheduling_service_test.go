package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/app/repositories/inmem"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
	"github.com/teachhq/teach-backend/internal/pkg/validation"
)

type schedulingFixture struct {
	repos      *repositories.Repositories
	scheduling SchedulingService
	events     EventService
}

func newSchedulingFixture(t *testing.T) *schedulingFixture {
	t.Helper()
	repos := inmem.NewRepositories(inmem.Open())
	return &schedulingFixture{
		repos:      repos,
		scheduling: NewSchedulingService(repos.EventRepository, repos.OccurrenceRepository, repos.RegistrationRepository, nil, zerolog.Nop()),
		events:     NewEventService(repos.EventRepository, repos.OccurrenceRepository, repos.UserRepository, zerolog.Nop()),
	}
}

func intPtr(v int) *int { return &v }

// seedEvent stores an event and its materialized occurrences directly through
// the repositories, bypassing request validation.
func (f *schedulingFixture) seedEvent(t *testing.T, ev *models.Event) []models.Occurrence {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.repos.EventRepository.Create(ctx, ev))
	occurrences := models.ExpandOccurrences(ev)
	require.NoError(t, f.repos.OccurrenceRepository.CreateBatch(ctx, occurrences))
	return occurrences
}

func futureEvent(id string, maxParticipants *int, recurringDates ...time.Time) *models.Event {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &models.Event{
		ID:              id,
		Title:           "Classroom Management Workshop",
		Type:            models.EventTypeWorkshop,
		StartDate:       start,
		EndDate:         start.Add(2 * time.Hour),
		MaxParticipants: maxParticipants,
		IsRecurring:     len(recurringDates) > 0,
		RecurringDates:  recurringDates,
		InstructorID:    7,
		InstructorName:  "Dr. Ayşe Demir",
		CreatedAt:       time.Now(),
	}
}

func TestRegister_NonRecurringDefaultsToSoleOccurrence(t *testing.T) {
	f := newSchedulingFixture(t)
	ev := futureEvent("evt-ws", intPtr(10))
	occs := f.seedEvent(t, ev)

	reg, err := f.scheduling.Register(context.Background(), 1, "", ev.ID, "")
	require.NoError(t, err)
	assert.Equal(t, occs[0].ID, reg.OccurrenceID)
	assert.Equal(t, models.RegistrationConfirmed, reg.Status)

	seats, err := f.scheduling.GetAvailableSeats(context.Background(), occs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, seats)
	assert.Equal(t, 9, *seats)
}

func TestRegister_RecurringRequiresConcreteOccurrence(t *testing.T) {
	f := newSchedulingFixture(t)
	d1 := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	ev := futureEvent("evt-rec", intPtr(5), d1, d1.Add(7*24*time.Hour))
	occs := f.seedEvent(t, ev)

	_, err := f.scheduling.Register(context.Background(), 1, "", ev.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceRequired)

	reg, err := f.scheduling.Register(context.Background(), 1, "", ev.ID, occs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, occs[1].ID, reg.OccurrenceID)
}

func TestRegister_DuplicateAndCapacity(t *testing.T) {
	f := newSchedulingFixture(t)
	ev := futureEvent("evt-cap", intPtr(1))
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	_, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)

	_, err = f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	_, err = f.scheduling.Register(ctx, 2, "", ev.ID, occs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceFull)

	full, err := f.scheduling.IsOccurrenceFull(ctx, occs[0].ID)
	require.NoError(t, err)
	assert.True(t, full)
}

func TestRegister_OccurrenceOfDifferentEventRejected(t *testing.T) {
	f := newSchedulingFixture(t)
	evA := futureEvent("evt-a", nil)
	occsA := f.seedEvent(t, evA)
	evB := futureEvent("evt-b", nil)
	f.seedEvent(t, evB)

	_, err := f.scheduling.Register(context.Background(), 1, "", evB.ID, occsA[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceNotFound)
}

func TestRegister_PastOccurrenceRejected(t *testing.T) {
	f := newSchedulingFixture(t)
	start := time.Now().Add(-48 * time.Hour)
	ev := &models.Event{
		ID:             "evt-past",
		Title:          "Finished Webinar",
		Type:           models.EventTypeWebinar,
		StartDate:      start,
		EndDate:        start.Add(time.Hour),
		InstructorID:   7,
		InstructorName: "Dr. Ayşe Demir",
		CreatedAt:      time.Now(),
	}
	occs := f.seedEvent(t, ev)

	_, err := f.scheduling.Register(context.Background(), 1, "", ev.ID, occs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceEnded)
}

func TestUnregister_RoundTripAndIdempotency(t *testing.T) {
	f := newSchedulingFixture(t)
	ev := futureEvent("evt-rt", intPtr(1))
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	_, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)

	require.NoError(t, f.scheduling.Unregister(ctx, 1, "", occs[0].ID))

	// Second cancellation finds no confirmed registration
	err = f.scheduling.Unregister(ctx, 1, "", occs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)

	// The freed seat is bookable again, by the same user too
	reg, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, reg.Status)
}

func TestUnregister_CompletedLessonFrozen(t *testing.T) {
	f := newSchedulingFixture(t)
	ev := futureEvent("evt-frozen", nil)
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	_, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)

	require.NoError(t, f.scheduling.RecordAttendance(ctx, occs[0].ID, &dto.AttendanceRequest{
		UserID:          1,
		Attended:        true,
		LessonCompleted: true,
	}))

	err = f.scheduling.Unregister(ctx, 1, "", occs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonCompleted)

	// Registering the completed occurrence again is a conflict as well
	_, err = f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonCompleted)
}

func TestReschedule_MovesSeatAtomically(t *testing.T) {
	f := newSchedulingFixture(t)
	d1 := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	d2 := d1.Add(7 * 24 * time.Hour)
	ev := futureEvent("evt-move", intPtr(1), d1, d2)
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	_, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)

	reg, err := f.scheduling.Reschedule(ctx, 1, "", occs[0].ID, occs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, occs[1].ID, reg.OccurrenceID)

	fromSeats, err := f.scheduling.GetAvailableSeats(ctx, occs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *fromSeats)
	toSeats, err := f.scheduling.GetAvailableSeats(ctx, occs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *toSeats)
}

func TestReschedule_TargetFullLeavesOriginalIntact(t *testing.T) {
	f := newSchedulingFixture(t)
	d1 := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	d2 := d1.Add(7 * 24 * time.Hour)
	ev := futureEvent("evt-stay", intPtr(1), d1, d2)
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	_, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)
	_, err = f.scheduling.Register(ctx, 2, "", ev.ID, occs[1].ID)
	require.NoError(t, err)

	_, err = f.scheduling.Reschedule(ctx, 1, "", occs[0].ID, occs[1].ID)
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceFull)

	// Original registration survives the failed move
	status, err := f.scheduling.GetRegistrationStatus(ctx, 1, occs[0].ID)
	require.NoError(t, err)
	assert.True(t, status.Registered)
}

func TestGetRegistrationStatus_ActionViewModel(t *testing.T) {
	f := newSchedulingFixture(t)
	ev := futureEvent("evt-vm", intPtr(3))
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	status, err := f.scheduling.GetRegistrationStatus(ctx, 1, occs[0].ID)
	require.NoError(t, err)
	assert.False(t, status.Registered)
	assert.Equal(t, "Register", status.Action.Label)
	assert.False(t, status.Action.Disabled)
	require.NotNil(t, status.Action.AvailableSeats)
	assert.Equal(t, 3, *status.Action.AvailableSeats)

	_, err = f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)

	status, err = f.scheduling.GetRegistrationStatus(ctx, 1, occs[0].ID)
	require.NoError(t, err)
	assert.True(t, status.Registered)
	assert.Equal(t, "Cancel Registration", status.Action.Label)
}

func TestListUserRegistrations(t *testing.T) {
	f := newSchedulingFixture(t)
	d1 := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	d2 := d1.Add(48 * time.Hour)
	ev := futureEvent("evt-list", nil, d1, d2)
	occs := f.seedEvent(t, ev)
	ctx := context.Background()

	_, err := f.scheduling.Register(ctx, 1, "", ev.ID, occs[0].ID)
	require.NoError(t, err)
	_, err = f.scheduling.Register(ctx, 1, "", ev.ID, occs[1].ID)
	require.NoError(t, err)
	_, err = f.scheduling.Register(ctx, 2, "", ev.ID, occs[0].ID)
	require.NoError(t, err)

	items, err := f.scheduling.ListUserRegistrations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, int64(1), item.Registration.UserID)
		require.NotNil(t, item.Occurrence)
	}
}

func TestGetUpcomingOccurrences_SkipsEnded(t *testing.T) {
	f := newSchedulingFixture(t)
	past := time.Now().Add(-72 * time.Hour)
	future := time.Now().Add(72 * time.Hour)
	ev := futureEvent("evt-up", nil, past, future)
	f.seedEvent(t, ev)

	upcoming, err := f.scheduling.GetUpcomingOccurrences(context.Background(), ev.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, models.OccurrenceID(ev.ID, 1), upcoming[0].ID)
}

func TestRecordAttendance_UnknownRegistration(t *testing.T) {
	f := newSchedulingFixture(t)
	ev := futureEvent("evt-att", nil)
	occs := f.seedEvent(t, ev)

	err := f.scheduling.RecordAttendance(context.Background(), occs[0].ID, &dto.AttendanceRequest{
		UserID:   99,
		Attended: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}

func TestCreateEvent_ExpandsOccurrences(t *testing.T) {
	f := newSchedulingFixture(t)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	dates := []time.Time{start, start.Add(7 * 24 * time.Hour), start.Add(14 * 24 * time.Hour)}

	ev, err := f.events.CreateEvent(ctx, &dto.CreateEventRequest{
		Title:           "Weekly Mentoring Circle",
		Type:            string(models.EventTypeMentoring),
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
		MaxParticipants: intPtr(8),
		IsRecurring:     true,
		RecurringDates:  dates,
	}, 7, "ayse@teach.dev")
	require.NoError(t, err)

	occs, err := f.events.GetOccurrences(ctx, ev.ID, false)
	require.NoError(t, err)
	require.Len(t, occs, 3)
	for i, occ := range occs {
		assert.Equal(t, models.OccurrenceID(ev.ID, i), occ.ID)
		require.NotNil(t, occ.AvailableSeats)
		assert.Equal(t, 8, *occ.AvailableSeats)
	}
}

func TestCreateEvent_ResolvesInstructorName(t *testing.T) {
	f := newSchedulingFixture(t)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour)
	require.NoError(t, f.repos.UserRepository.Create(ctx, &models.User{
		FirstName: "Ayşe",
		LastName:  "Demir",
		Email:     "ayse@teach.dev",
		RoleType:  models.RoleInstructor,
	}))

	newEvent := func(title string) *dto.CreateEventRequest {
		return &dto.CreateEventRequest{
			Title:     title,
			Type:      string(models.EventTypeWorkshop),
			StartDate: start,
			EndDate:   start.Add(time.Hour),
		}
	}

	ev, err := f.events.CreateEvent(ctx, newEvent("Grading Workshop"), 1, "ayse@teach.dev")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Demir", ev.InstructorName)

	// Unknown account keeps the email so creation still succeeds
	ev, err = f.events.CreateEvent(ctx, newEvent("Orphan Workshop"), 2, "ghost@teach.dev")
	require.NoError(t, err)
	assert.Equal(t, "ghost@teach.dev", ev.InstructorName)
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newSchedulingFixture(t)
	start := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name string
		req  dto.CreateEventRequest
	}{
		{
			name: "unknown type",
			req: dto.CreateEventRequest{
				Title: "Bad Type", Type: "HACKATHON",
				StartDate: start, EndDate: start.Add(time.Hour),
			},
		},
		{
			name: "end before start",
			req: dto.CreateEventRequest{
				Title: "Backwards", Type: string(models.EventTypeWebinar),
				StartDate: start, EndDate: start.Add(-time.Hour),
			},
		},
		{
			name: "recurring without dates",
			req: dto.CreateEventRequest{
				Title: "No Dates", Type: string(models.EventTypeWorkshop),
				StartDate: start, EndDate: start.Add(time.Hour),
				IsRecurring: true,
			},
		},
		{
			name: "location too long",
			req: dto.CreateEventRequest{
				Title: "Far Away", Type: string(models.EventTypeWorkshop),
				StartDate: start, EndDate: start.Add(time.Hour),
				Location: strings.Repeat("x", validation.LocationMaxLength+1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.events.CreateEvent(context.Background(), &tt.req, 7, "ayse@teach.dev")
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}
