package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/app/presenter"
	"github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
	"github.com/teachhq/teach-backend/internal/pkg/email"
)

// SchedulingService orchestrates seat-bounded registration on top of the
// event catalog and the registration ledger.
type SchedulingService interface {
	GetAvailableSeats(ctx context.Context, occurrenceID string) (*int, error)
	IsOccurrenceFull(ctx context.Context, occurrenceID string) (bool, error)
	GetUpcomingOccurrences(ctx context.Context, eventID string) ([]dto.OccurrenceResponse, error)
	Register(ctx context.Context, userID int64, userEmail, eventID, occurrenceID string) (*models.Registration, error)
	Unregister(ctx context.Context, userID int64, userEmail, occurrenceID string) error
	Reschedule(ctx context.Context, userID int64, userEmail, fromOccurrenceID, toOccurrenceID string) (*models.Registration, error)
	GetRegistrationStatus(ctx context.Context, userID int64, occurrenceID string) (*dto.RegistrationStatusResponse, error)
	ListUserRegistrations(ctx context.Context, userID int64) ([]dto.RegistrationListItem, error)
	RecordAttendance(ctx context.Context, occurrenceID string, req *dto.AttendanceRequest) error
}

// schedulingServiceImpl implements SchedulingService
type schedulingServiceImpl struct {
	eventRepo        repositories.EventStore
	occurrenceRepo   repositories.OccurrenceStore
	registrationRepo repositories.RegistrationStore
	emailService     email.EmailService
	logger           zerolog.Logger
}

// NewSchedulingService creates a new SchedulingService. emailService may be
// nil, in which case no notifications are sent.
func NewSchedulingService(
	eventRepo repositories.EventStore,
	occurrenceRepo repositories.OccurrenceStore,
	registrationRepo repositories.RegistrationStore,
	emailService email.EmailService,
	logger zerolog.Logger,
) SchedulingService {
	return &schedulingServiceImpl{
		eventRepo:        eventRepo,
		occurrenceRepo:   occurrenceRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

// GetAvailableSeats returns the remaining seats of an occurrence, nil for
// unbounded occurrences.
func (s *schedulingServiceImpl) GetAvailableSeats(ctx context.Context, occurrenceID string) (*int, error) {
	occ, err := s.occurrenceRepo.GetByID(ctx, occurrenceID)
	if err != nil {
		return nil, err
	}
	return occ.AvailableSeats(), nil
}

// IsOccurrenceFull reports whether an occurrence has no seats left
func (s *schedulingServiceImpl) IsOccurrenceFull(ctx context.Context, occurrenceID string) (bool, error) {
	occ, err := s.occurrenceRepo.GetByID(ctx, occurrenceID)
	if err != nil {
		return false, err
	}
	return occ.IsFull(), nil
}

// GetUpcomingOccurrences returns the occurrences of an event that have not
// ended yet, sorted by date ascending.
func (s *schedulingServiceImpl) GetUpcomingOccurrences(ctx context.Context, eventID string) ([]dto.OccurrenceResponse, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	occurrences, err := s.occurrenceRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcoming := make([]dto.OccurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		if occ.HasEnded(now) {
			continue
		}
		upcoming = append(upcoming, dto.NewOccurrenceResponse(occ))
	}
	return upcoming, nil
}

// Register books a seat for the user. An empty occurrenceID is resolved to
// the event's sole occurrence for non-recurring events; recurring events must
// name a concrete occurrence.
func (s *schedulingServiceImpl) Register(ctx context.Context, userID int64, userEmail, eventID, occurrenceID string) (*models.Registration, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if occurrenceID == "" {
		if ev.IsRecurring {
			return nil, apperrors.ErrOccurrenceRequired
		}
		occurrenceID = models.OccurrenceID(ev.ID, 0)
	}

	occ, err := s.occurrenceRepo.GetByID(ctx, occurrenceID)
	if err != nil {
		return nil, err
	}
	if occ.EventID != ev.ID {
		return nil, apperrors.NewCustomError(apperrors.ErrOccurrenceNotFound, "Occurrence does not belong to this event")
	}

	registration, err := s.registrationRepo.Register(ctx, userID, occurrenceID, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userId", userID).
		Str("occurrenceId", occurrenceID).
		Msg("Registration confirmed")

	s.notifyConfirmed(userEmail, ev, occ)

	return registration, nil
}

// Unregister cancels the user's confirmed registration and frees the seat
func (s *schedulingServiceImpl) Unregister(ctx context.Context, userID int64, userEmail, occurrenceID string) error {
	if err := s.registrationRepo.Unregister(ctx, userID, occurrenceID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("userId", userID).
		Str("occurrenceId", occurrenceID).
		Msg("Registration cancelled")

	if occ, err := s.occurrenceRepo.GetByID(ctx, occurrenceID); err == nil {
		if ev, err := s.eventRepo.GetByID(ctx, occ.EventID); err == nil {
			s.notifyCancelled(userEmail, ev, occ)
		}
	}

	return nil
}

// Reschedule moves a confirmed registration to another occurrence. The move
// is a single ledger transaction; on failure the original registration is
// untouched.
func (s *schedulingServiceImpl) Reschedule(ctx context.Context, userID int64, userEmail, fromOccurrenceID, toOccurrenceID string) (*models.Registration, error) {
	registration, err := s.registrationRepo.Reschedule(ctx, userID, fromOccurrenceID, toOccurrenceID, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userId", userID).
		Str("from", fromOccurrenceID).
		Str("to", toOccurrenceID).
		Msg("Registration rescheduled")

	if occ, err := s.occurrenceRepo.GetByID(ctx, toOccurrenceID); err == nil {
		if ev, err := s.eventRepo.GetByID(ctx, occ.EventID); err == nil {
			s.notifyConfirmed(userEmail, ev, occ)
		}
	}

	return registration, nil
}

// GetRegistrationStatus returns the user's scheduling state for one
// occurrence together with the ready-to-render action view-model.
func (s *schedulingServiceImpl) GetRegistrationStatus(ctx context.Context, userID int64, occurrenceID string) (*dto.RegistrationStatusResponse, error) {
	occ, err := s.occurrenceRepo.GetByID(ctx, occurrenceID)
	if err != nil {
		return nil, err
	}
	ev, err := s.eventRepo.GetByID(ctx, occ.EventID)
	if err != nil {
		return nil, err
	}
	state, err := s.registrationRepo.State(ctx, userID, occurrenceID)
	if err != nil {
		return nil, err
	}

	return &dto.RegistrationStatusResponse{
		OccurrenceID: occurrenceID,
		Registered:   state.Registered,
		Completed:    state.Completed,
		Action:       presenter.ScheduleActionFor(ev, occ, state),
	}, nil
}

// ListUserRegistrations returns the user's confirmed registrations, newest
// first, each with its occurrence summary.
func (s *schedulingServiceImpl) ListUserRegistrations(ctx context.Context, userID int64) ([]dto.RegistrationListItem, error) {
	registrations, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RegistrationListItem, 0, len(registrations))
	for _, reg := range registrations {
		item := dto.RegistrationListItem{Registration: reg}
		if occ, err := s.occurrenceRepo.GetByID(ctx, reg.OccurrenceID); err == nil {
			occResp := dto.NewOccurrenceResponse(occ)
			item.Occurrence = &occResp
		}
		items = append(items, item)
	}
	return items, nil
}

// RecordAttendance writes post-session attendance and completion for one
// participant. Completion is sticky; it is never cleared once set.
func (s *schedulingServiceImpl) RecordAttendance(ctx context.Context, occurrenceID string, req *dto.AttendanceRequest) error {
	if _, err := s.occurrenceRepo.GetByID(ctx, occurrenceID); err != nil {
		return err
	}

	err := s.registrationRepo.RecordAttendance(ctx, req.UserID, occurrenceID, req.Attended, req.LessonCompleted, time.Now())
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("userId", req.UserID).
		Str("occurrenceId", occurrenceID).
		Bool("attended", req.Attended).
		Bool("lessonCompleted", req.LessonCompleted).
		Msg("Attendance recorded")

	return nil
}

// Notification failures are logged and never surfaced; registration state is
// already committed by the time an email is attempted.
func (s *schedulingServiceImpl) notifyConfirmed(userEmail string, ev *models.Event, occ *models.Occurrence) {
	if s.emailService == nil || userEmail == "" {
		return
	}
	if err := s.emailService.SendRegistrationConfirmation(userEmail, ev, occ); err != nil {
		s.logger.Warn().Err(err).Str("toEmail", userEmail).Msg("Failed to send registration confirmation")
	}
}

func (s *schedulingServiceImpl) notifyCancelled(userEmail string, ev *models.Event, occ *models.Occurrence) {
	if s.emailService == nil || userEmail == "" {
		return
	}
	if err := s.emailService.SendCancellationNotice(userEmail, ev, occ); err != nil {
		s.logger.Warn().Err(err).Str("toEmail", userEmail).Msg("Failed to send cancellation notice")
	}
}
