package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/repositories/inmem"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

func TestAuthorizationService_Ownership(t *testing.T) {
	repos := inmem.NewRepositories(inmem.Open())
	ctx := context.Background()

	start := time.Now().Add(48 * time.Hour)
	ev := &models.Event{
		ID:           "evt-owned",
		Title:        "Workshop",
		Type:         models.EventTypeWorkshop,
		StartDate:    start,
		EndDate:      start.Add(time.Hour),
		InstructorID: 42,
	}
	require.NoError(t, repos.EventRepository.Create(ctx, ev))
	require.NoError(t, repos.OccurrenceRepository.CreateBatch(ctx, models.ExpandOccurrences(ev)))

	svc := NewAuthorizationService(repos.EventRepository, repos.OccurrenceRepository, zerolog.Nop())

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, svc.ValidateEventOwnership(ctx, "evt-owned", 42))
		assert.NoError(t, svc.ValidateOccurrenceOwnership(ctx, models.OccurrenceID("evt-owned", 0), 42))
	})

	t.Run("other instructor is denied", func(t *testing.T) {
		assert.ErrorIs(t, svc.ValidateEventOwnership(ctx, "evt-owned", 7), apperrors.ErrPermissionDenied)
		assert.ErrorIs(t, svc.ValidateOccurrenceOwnership(ctx, models.OccurrenceID("evt-owned", 0), 7), apperrors.ErrPermissionDenied)
	})

	t.Run("unknown resources propagate not found", func(t *testing.T) {
		assert.ErrorIs(t, svc.ValidateEventOwnership(ctx, "evt-missing", 42), apperrors.ErrEventNotFound)
		assert.ErrorIs(t, svc.ValidateOccurrenceOwnership(ctx, "evt-owned:99", 42), apperrors.ErrOccurrenceNotFound)
	})
}
