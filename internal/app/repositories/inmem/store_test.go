package inmem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

func seatCap(v int) *int {
	return &v
}

// seedOccurrences stores an event with the given capacity and one occurrence
// per date, all well in the future relative to now.
func seedOccurrences(t *testing.T, repos *repositories.Repositories, eventID string, maxParticipants *int, dates ...time.Time) []models.Occurrence {
	t.Helper()
	ctx := context.Background()

	ev := &models.Event{
		ID:              eventID,
		Title:           "Live Session",
		Type:            models.EventTypeLiveClass,
		StartDate:       dates[0],
		EndDate:         dates[0].Add(time.Hour),
		MaxParticipants: maxParticipants,
		IsRecurring:     len(dates) > 1,
		RecurringDates:  dates,
	}
	if !ev.IsRecurring {
		ev.RecurringDates = nil
	}
	require.NoError(t, repos.EventRepository.Create(ctx, ev))

	occurrences := models.ExpandOccurrences(ev)
	require.NoError(t, repos.OccurrenceRepository.CreateBatch(ctx, occurrences))
	return occurrences
}

func TestRegister_LastSeatUnderContention(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	occurrences := seedOccurrences(t, repos, "evt-race", seatCap(1), future)
	occID := occurrences[0].ID

	const contenders = 50
	var wins, fulls int64
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := repos.RegistrationRepository.Register(ctx, userID, occID, time.Now())
			switch {
			case err == nil:
				atomic.AddInt64(&wins, 1)
			case errors.Is(err, apperrors.ErrOccurrenceFull):
				atomic.AddInt64(&fulls, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
	assert.Equal(t, int64(contenders-1), fulls)

	occ, err := repos.OccurrenceRepository.GetByID(ctx, occID)
	require.NoError(t, err)
	assert.Equal(t, 1, occ.CurrentParticipants)
}

func TestRegister_UnboundedOccurrenceNeverFills(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	occurrences := seedOccurrences(t, repos, "evt-webinar", nil, future)
	occID := occurrences[0].ID

	const registrants = 1000
	var wg sync.WaitGroup
	for i := 1; i <= registrants; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := repos.RegistrationRepository.Register(ctx, userID, occID, time.Now())
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	occ, err := repos.OccurrenceRepository.GetByID(ctx, occID)
	require.NoError(t, err)
	assert.Equal(t, registrants, occ.CurrentParticipants)
	assert.False(t, occ.IsFull())
	assert.Nil(t, occ.AvailableSeats())
}

func TestReschedule_FullTargetKeepsOriginal(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()
	base := time.Now().Add(48 * time.Hour)

	occurrences := seedOccurrences(t, repos, "evt-mentoring", seatCap(1),
		base, base.AddDate(0, 0, 7))
	fromID, toID := occurrences[0].ID, occurrences[1].ID

	_, err := repos.RegistrationRepository.Register(ctx, 1, fromID, time.Now())
	require.NoError(t, err)
	_, err = repos.RegistrationRepository.Register(ctx, 2, toID, time.Now())
	require.NoError(t, err)

	_, err = repos.RegistrationRepository.Reschedule(ctx, 1, fromID, toID, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceFull)

	// The failed move must not have released the original seat
	state, err := repos.RegistrationRepository.State(ctx, 1, fromID)
	require.NoError(t, err)
	assert.True(t, state.Registered)

	from, err := repos.OccurrenceRepository.GetByID(ctx, fromID)
	require.NoError(t, err)
	assert.Equal(t, 1, from.CurrentParticipants)
}

func TestReschedule_SameOccurrenceRejected(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	occurrences := seedOccurrences(t, repos, "evt-same", seatCap(5), future)
	occID := occurrences[0].ID

	_, err := repos.RegistrationRepository.Register(ctx, 1, occID, time.Now())
	require.NoError(t, err)

	_, err = repos.RegistrationRepository.Reschedule(ctx, 1, occID, occID, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

// A learner books one of four weekly mentoring slots with two seats each, gets
// bumped around by contention and attendance, and the per-slot counters stay
// consistent throughout.
func TestMentoringSlotScenario(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()
	base := time.Now().Add(48 * time.Hour)

	dates := []time.Time{base, base.AddDate(0, 0, 7), base.AddDate(0, 0, 14), base.AddDate(0, 0, 21)}
	occurrences := seedOccurrences(t, repos, "evt-slots", seatCap(2), dates...)
	require.Len(t, occurrences, 4)

	ledger := repos.RegistrationRepository

	// Two other learners fill slot 0 before our learner arrives
	_, err := ledger.Register(ctx, 10, occurrences[0].ID, time.Now())
	require.NoError(t, err)
	_, err = ledger.Register(ctx, 11, occurrences[0].ID, time.Now())
	require.NoError(t, err)

	_, err = ledger.Register(ctx, 1, occurrences[0].ID, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrOccurrenceFull)

	// Slot 1 still has seats
	_, err = ledger.Register(ctx, 1, occurrences[1].ID, time.Now())
	require.NoError(t, err)

	// Learner moves to slot 2, freeing the slot 1 seat
	_, err = ledger.Reschedule(ctx, 1, occurrences[1].ID, occurrences[2].ID, time.Now())
	require.NoError(t, err)

	slot1, err := repos.OccurrenceRepository.GetByID(ctx, occurrences[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, slot1.CurrentParticipants)

	slot2, err := repos.OccurrenceRepository.GetByID(ctx, occurrences[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, slot2.CurrentParticipants)

	// The session runs and the lesson is marked complete; the registration
	// freezes in place
	require.NoError(t, ledger.RecordAttendance(ctx, 1, occurrences[2].ID, true, true, time.Now()))

	err = ledger.Unregister(ctx, 1, occurrences[2].ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonCompleted)

	_, err = ledger.Reschedule(ctx, 1, occurrences[2].ID, occurrences[3].ID, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrLessonCompleted)

	state, err := ledger.State(ctx, 1, occurrences[2].ID)
	require.NoError(t, err)
	assert.True(t, state.Registered)
	assert.True(t, state.Completed)
}

func TestEventStoreFiltersAndOrder(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	moduleID := "mod-foundations"
	for i := 0; i < 3; i++ {
		ev := &models.Event{
			ID:           fmt.Sprintf("evt-%d", i),
			Title:        fmt.Sprintf("Session %d", i),
			Type:         models.EventTypeLiveClass,
			StartDate:    future,
			EndDate:      future.Add(time.Hour),
			InstructorID: int64(i%2 + 1),
		}
		if i == 2 {
			ev.Type = models.EventTypeWorkshop
			ev.ModuleID = &moduleID
		}
		require.NoError(t, repos.EventRepository.Create(ctx, ev))
	}

	all, err := repos.EventRepository.List(ctx, repositories.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Insertion order is preserved
	assert.Equal(t, "evt-0", all[0].ID)
	assert.Equal(t, "evt-2", all[2].ID)

	workshops, err := repos.EventRepository.List(ctx, repositories.EventFilter{Type: models.EventTypeWorkshop})
	require.NoError(t, err)
	require.Len(t, workshops, 1)
	assert.Equal(t, "evt-2", workshops[0].ID)

	byModule, err := repos.EventRepository.List(ctx, repositories.EventFilter{ModuleID: moduleID})
	require.NoError(t, err)
	require.Len(t, byModule, 1)

	byInstructor, err := repos.EventRepository.List(ctx, repositories.EventFilter{InstructorID: 2})
	require.NoError(t, err)
	require.Len(t, byInstructor, 1)
	assert.Equal(t, "evt-1", byInstructor[0].ID)

	_, err = repos.EventRepository.GetByID(ctx, "evt-missing")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestUserStoreAssignsIDs(t *testing.T) {
	repos := NewRepositories(Open())
	ctx := context.Background()

	u1 := &models.User{Email: "a@teach.dev", FirstName: "A"}
	u2 := &models.User{Email: "b@teach.dev", FirstName: "B"}
	require.NoError(t, repos.UserRepository.Create(ctx, u1))
	require.NoError(t, repos.UserRepository.Create(ctx, u2))
	assert.Equal(t, int64(1), u1.ID)
	assert.Equal(t, int64(2), u2.ID)

	found, err := repos.UserRepository.FindByEmail(ctx, "b@teach.dev")
	require.NoError(t, err)
	assert.Equal(t, u2.ID, found.ID)

	_, err = repos.UserRepository.FindByEmail(ctx, "missing@teach.dev")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
