package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

// AuthorizationService answers ownership questions the role middleware cannot:
// whether a given instructor actually owns the event behind a resource.
type AuthorizationService struct {
	events      repositories.EventStore
	occurrences repositories.OccurrenceStore
	logger      zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(events repositories.EventStore, occurrences repositories.OccurrenceStore, logger zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{
		events:      events,
		occurrences: occurrences,
		logger:      logger,
	}
}

// CanManageEvent checks if the user is the instructor who owns the event
func (s *AuthorizationService) CanManageEvent(ctx context.Context, eventID string, userID int64) (bool, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return false, err
		}
		s.logger.Error().Err(err).Str("eventId", eventID).Msg("Error loading event for ownership check")
		return false, fmt.Errorf("check event ownership: %w", err)
	}
	return event.InstructorID == userID, nil
}

// ValidateEventOwnership validates that the user owns the event or returns an error
func (s *AuthorizationService) ValidateEventOwnership(ctx context.Context, eventID string, userID int64) error {
	canManage, err := s.CanManageEvent(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !canManage {
		return apperrors.NewForbiddenError("Only the event's instructor can manage it")
	}
	return nil
}

// ValidateOccurrenceOwnership resolves the occurrence to its event and
// validates that the user owns that event.
func (s *AuthorizationService) ValidateOccurrenceOwnership(ctx context.Context, occurrenceID string, userID int64) error {
	occ, err := s.occurrences.GetByID(ctx, occurrenceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrOccurrenceNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("occurrenceId", occurrenceID).Msg("Error loading occurrence for ownership check")
		return fmt.Errorf("check occurrence ownership: %w", err)
	}
	return s.ValidateEventOwnership(ctx, occ.EventID, userID)
}
