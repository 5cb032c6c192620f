package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capacity(v int) *int {
	return &v
}

func TestOccurrenceID(t *testing.T) {
	assert.Equal(t, "evt-1:0", OccurrenceID("evt-1", 0))
	assert.Equal(t, "evt-1:3", OccurrenceID("evt-1", 3))
}

func TestExpandOccurrences_NonRecurring(t *testing.T) {
	start := time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)
	ev := &Event{
		ID:              "evt-1",
		StartDate:       start,
		EndDate:         end,
		MaxParticipants: capacity(30),
		InstructorName:  "Ayşe Demir",
	}

	occurrences := ExpandOccurrences(ev)
	require.Len(t, occurrences, 1)

	occ := occurrences[0]
	assert.Equal(t, "evt-1:0", occ.ID)
	assert.Equal(t, "evt-1", occ.EventID)
	assert.Equal(t, start, occ.Date)
	assert.Equal(t, "14:00", occ.StartTime)
	assert.Equal(t, "15:30", occ.EndTime)
	assert.Equal(t, 30, *occ.MaxParticipants)
	assert.Equal(t, 0, occ.CurrentParticipants)
	assert.Equal(t, "Ayşe Demir", occ.InstructorName)
}

func TestExpandOccurrences_Recurring(t *testing.T) {
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	ev := &Event{
		ID:          "evt-4",
		StartDate:   base,
		EndDate:     base.Add(time.Hour),
		IsRecurring: true,
		RecurringDates: []time.Time{
			base,
			base.AddDate(0, 0, 7),
			base.AddDate(0, 0, 14),
		},
	}

	occurrences := ExpandOccurrences(ev)
	require.Len(t, occurrences, 3)

	for i, occ := range occurrences {
		assert.Equal(t, OccurrenceID("evt-4", i), occ.ID)
		assert.Equal(t, ev.RecurringDates[i], occ.Date)
		assert.Equal(t, "10:00", occ.StartTime)
		assert.Equal(t, "11:00", occ.EndTime)
	}

	// Expansion is deterministic: a second pass yields identical ids
	again := ExpandOccurrences(ev)
	require.Len(t, again, 3)
	for i := range occurrences {
		assert.Equal(t, occurrences[i].ID, again[i].ID)
	}
}

func TestOccurrenceSeats(t *testing.T) {
	tests := []struct {
		name      string
		occ       Occurrence
		wantSeats *int
		wantFull  bool
	}{
		{
			name:      "seats remaining",
			occ:       Occurrence{MaxParticipants: capacity(10), CurrentParticipants: 4},
			wantSeats: capacity(6),
			wantFull:  false,
		},
		{
			name:      "exactly full",
			occ:       Occurrence{MaxParticipants: capacity(10), CurrentParticipants: 10},
			wantSeats: capacity(0),
			wantFull:  true,
		},
		{
			name:      "over capacity clamps to zero",
			occ:       Occurrence{MaxParticipants: capacity(10), CurrentParticipants: 12},
			wantSeats: capacity(0),
			wantFull:  true,
		},
		{
			name:      "unbounded",
			occ:       Occurrence{CurrentParticipants: 5000},
			wantSeats: nil,
			wantFull:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSeats, tt.occ.AvailableSeats())
			assert.Equal(t, tt.wantFull, tt.occ.IsFull())
		})
	}
}

func TestOccurrenceHasEnded(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	occ := Occurrence{Date: date, EndTime: "15:30"}

	assert.False(t, occ.HasEnded(time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)))
	assert.False(t, occ.HasEnded(time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)))
	assert.True(t, occ.HasEnded(time.Date(2026, 9, 7, 15, 31, 0, 0, time.UTC)))
	assert.True(t, occ.HasEnded(time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)))
}
