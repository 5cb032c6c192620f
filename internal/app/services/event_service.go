package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
	"github.com/teachhq/teach-backend/internal/pkg/validation"
)

// EventService defines the interface for event catalog operations
type EventService interface {
	ListEvents(ctx context.Context, filter *dto.EventFilterRequest) ([]*dto.EventResponse, error)
	GetEventByID(ctx context.Context, id string) (*dto.EventResponse, error)
	GetOccurrences(ctx context.Context, eventID string, upcomingOnly bool) ([]dto.OccurrenceResponse, error)
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest, instructorID int64, instructorEmail string) (*models.Event, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo      repositories.EventStore
	occurrenceRepo repositories.OccurrenceStore
	userRepo       repositories.UserStore
	logger         zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repositories.EventStore,
	occurrenceRepo repositories.OccurrenceStore,
	userRepo repositories.UserStore,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// ListEvents returns the catalog, optionally narrowed by type, instructor or
// module, each event carrying its occurrence summaries.
func (s *eventServiceImpl) ListEvents(ctx context.Context, filter *dto.EventFilterRequest) ([]*dto.EventResponse, error) {
	storeFilter := repositories.EventFilter{}
	if filter != nil {
		if filter.Type != "" {
			t := models.EventType(filter.Type)
			if !t.IsValid() {
				return nil, fmt.Errorf("%w: unknown event type %q", apperrors.ErrValidationFailed, filter.Type)
			}
			storeFilter.Type = t
		}
		storeFilter.InstructorID = filter.InstructorID
		storeFilter.ModuleID = filter.ModuleID
	}

	events, err := s.eventRepo.List(ctx, storeFilter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list events")
		return nil, err
	}

	responses := make([]*dto.EventResponse, 0, len(events))
	for _, ev := range events {
		resp, err := s.buildEventResponse(ctx, ev)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// GetEventByID returns one event with all its occurrences
func (s *eventServiceImpl) GetEventByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildEventResponse(ctx, ev)
}

// GetOccurrences returns the occurrences of an event, optionally only those
// that have not ended yet, sorted by date ascending.
func (s *eventServiceImpl) GetOccurrences(ctx context.Context, eventID string, upcomingOnly bool) ([]dto.OccurrenceResponse, error) {
	// Resolve the event first so an unknown id yields NotFound rather than
	// an empty list
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	occurrences, err := s.occurrenceRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]dto.OccurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		if upcomingOnly && occ.HasEnded(now) {
			continue
		}
		responses = append(responses, dto.NewOccurrenceResponse(occ))
	}
	return responses, nil
}

// CreateEvent validates the request, stores the event and materializes its
// occurrences in one pass.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, req *dto.CreateEventRequest, instructorID int64, instructorEmail string) (*models.Event, error) {
	eventType := models.EventType(req.Type)
	if !eventType.IsValid() {
		return nil, fmt.Errorf("%w: unknown event type %q", apperrors.ErrValidationFailed, req.Type)
	}
	if !validation.NewStringValidation(req.Title).
		WithMinLength(validation.TitleMinLength).
		WithMaxLength(validation.TitleMaxLength).
		Validate() {
		return nil, fmt.Errorf("%w: title must be %d-%d characters", apperrors.ErrValidationFailed,
			validation.TitleMinLength, validation.TitleMaxLength)
	}
	if !validation.NewStringValidation(req.Description).
		WithRequired(false).
		WithMaxLength(validation.DescriptionMaxLength).
		Validate() {
		return nil, fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidationFailed,
			validation.DescriptionMaxLength)
	}
	if !validation.NewStringValidation(req.Location).
		WithRequired(false).
		WithMaxLength(validation.LocationMaxLength).
		Validate() {
		return nil, fmt.Errorf("%w: location exceeds %d characters", apperrors.ErrValidationFailed,
			validation.LocationMaxLength)
	}
	if !validation.NewStringValidation(req.MeetingURL).
		WithRequired(false).
		WithPattern(validation.CompiledPatterns.MeetingURL).
		Validate() {
		return nil, fmt.Errorf("%w: meetingUrl must be an http(s) URL", apperrors.ErrValidationFailed)
	}
	if req.MaxParticipants != nil && !validation.NewNumericValidation(*req.MaxParticipants).WithMin(1).Validate() {
		return nil, fmt.Errorf("%w: maxParticipants must be positive", apperrors.ErrValidationFailed)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must be after startDate", apperrors.ErrValidationFailed)
	}
	if req.IsRecurring && len(req.RecurringDates) == 0 {
		return nil, fmt.Errorf("%w: recurring events need at least one recurring date", apperrors.ErrValidationFailed)
	}
	if !req.IsRecurring && len(req.RecurringDates) > 0 {
		return nil, fmt.Errorf("%w: recurringDates given for a non-recurring event", apperrors.ErrValidationFailed)
	}

	instructorName := s.resolveInstructorName(ctx, instructorEmail)

	event := &models.Event{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		Type:            eventType,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Location:        req.Location,
		MeetingURL:      req.MeetingURL,
		MaxParticipants: req.MaxParticipants,
		IsRecurring:     req.IsRecurring,
		RecurringDates:  req.RecurringDates,
		InstructorID:    instructorID,
		InstructorName:  instructorName,
		ModuleID:        req.ModuleID,
		CreatedAt:       time.Now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("title", event.Title).Msg("Failed to create event")
		return nil, err
	}

	occurrences := models.ExpandOccurrences(event)
	if err := s.occurrenceRepo.CreateBatch(ctx, occurrences); err != nil {
		s.logger.Error().Err(err).Str("eventId", event.ID).Msg("Failed to materialize occurrences")
		return nil, err
	}

	s.logger.Info().
		Str("eventId", event.ID).
		Str("type", string(event.Type)).
		Int("occurrences", len(occurrences)).
		Msg("Event created")

	return event, nil
}

// resolveInstructorName looks up the instructor's display name by the email
// from the token claims. The email itself is the fallback so event creation
// never fails on a profile lookup.
func (s *eventServiceImpl) resolveInstructorName(ctx context.Context, email string) string {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("Could not resolve instructor profile")
		return email
	}
	return user.FirstName + " " + user.LastName
}

func (s *eventServiceImpl) buildEventResponse(ctx context.Context, ev *models.Event) (*dto.EventResponse, error) {
	occurrences, err := s.occurrenceRepo.ListByEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	occResponses := make([]dto.OccurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		occResponses = append(occResponses, dto.NewOccurrenceResponse(occ))
	}

	return &dto.EventResponse{
		Event:       ev,
		Occurrences: occResponses,
	}, nil
}
