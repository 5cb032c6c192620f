// Package inmem provides in-memory implementations of the repository
// interfaces. It backs the "memory" database driver for local development and
// the scheduling test suites. A single mutex guards the whole dataset, which
// gives Register the same all-or-nothing semantics the PostgreSQL
// implementation gets from row locks.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

// DB is the shared in-memory dataset
type DB struct {
	mu            sync.RWMutex
	events        map[string]*models.Event
	eventOrder    []string
	occurrences   map[string]*models.Occurrence
	registrations map[string]*models.Registration
	users         map[int64]*models.User
	nextUserID    int64
}

// Open creates an empty in-memory database
func Open() *DB {
	return &DB{
		events:        make(map[string]*models.Event),
		occurrences:   make(map[string]*models.Occurrence),
		registrations: make(map[string]*models.Registration),
		users:         make(map[int64]*models.User),
	}
}

// NewRepositories wires the in-memory stores into the standard container
func NewRepositories(db *DB) *repositories.Repositories {
	return &repositories.Repositories{
		EventRepository:        &eventStore{db: db},
		OccurrenceRepository:   &occurrenceStore{db: db},
		RegistrationRepository: &registrationStore{db: db},
		UserRepository:         &userStore{db: db},
	}
}

// --- EventStore ---

type eventStore struct {
	db *DB
}

func (s *eventStore) List(_ context.Context, filter repositories.EventFilter) ([]*models.Event, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var events []*models.Event
	for _, id := range s.db.eventOrder {
		ev := s.db.events[id]
		if filter.Type != "" && ev.Type != filter.Type {
			continue
		}
		if filter.InstructorID > 0 && ev.InstructorID != filter.InstructorID {
			continue
		}
		if filter.ModuleID != "" && (ev.ModuleID == nil || *ev.ModuleID != filter.ModuleID) {
			continue
		}
		copied := *ev
		events = append(events, &copied)
	}
	return events, nil
}

func (s *eventStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ev, ok := s.db.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *ev
	return &copied, nil
}

func (s *eventStore) Create(_ context.Context, event *models.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	copied := *event
	s.db.events[event.ID] = &copied
	s.db.eventOrder = append(s.db.eventOrder, event.ID)
	return nil
}

// --- OccurrenceStore ---

type occurrenceStore struct {
	db *DB
}

func (s *occurrenceStore) GetByID(_ context.Context, id string) (*models.Occurrence, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	occ, ok := s.db.occurrences[id]
	if !ok {
		return nil, apperrors.ErrOccurrenceNotFound
	}
	copied := *occ
	return &copied, nil
}

func (s *occurrenceStore) ListByEvent(_ context.Context, eventID string) ([]*models.Occurrence, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var occurrences []*models.Occurrence
	for _, occ := range s.db.occurrences {
		if occ.EventID != eventID {
			continue
		}
		copied := *occ
		occurrences = append(occurrences, &copied)
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})
	return occurrences, nil
}

func (s *occurrenceStore) CreateBatch(_ context.Context, occurrences []models.Occurrence) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range occurrences {
		copied := occurrences[i]
		s.db.occurrences[copied.ID] = &copied
	}
	return nil
}

// --- RegistrationStore ---

type registrationStore struct {
	db *DB
}

func (s *registrationStore) Register(_ context.Context, userID int64, occurrenceID string, now time.Time) (*models.Registration, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.registerLocked(userID, occurrenceID, now)
}

func (s *registrationStore) Unregister(_ context.Context, userID int64, occurrenceID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.unregisterLocked(userID, occurrenceID)
}

func (s *registrationStore) Reschedule(_ context.Context, userID int64, fromOccurrenceID, toOccurrenceID string, now time.Time) (*models.Registration, error) {
	if fromOccurrenceID == toOccurrenceID {
		return nil, apperrors.ErrAlreadyRegistered
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	// Validate both legs before mutating anything, so a failing target leaves
	// the original registration untouched.
	fromReg := s.findConfirmedLocked(userID, fromOccurrenceID)
	if fromReg == nil {
		return nil, apperrors.ErrRegistrationNotFound
	}
	if fromReg.LessonCompleted {
		return nil, apperrors.ErrLessonCompleted
	}
	if err := s.checkRegisterLocked(userID, toOccurrenceID, now); err != nil {
		return nil, err
	}

	if err := s.unregisterLocked(userID, fromOccurrenceID); err != nil {
		return nil, err
	}
	return s.registerLocked(userID, toOccurrenceID, now)
}

func (s *registrationStore) State(_ context.Context, userID int64, occurrenceID string) (models.RegistrationState, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var state models.RegistrationState
	for _, reg := range s.db.registrations {
		if reg.UserID != userID || reg.OccurrenceID != occurrenceID {
			continue
		}
		if reg.Status == models.RegistrationConfirmed {
			state.Registered = true
		}
		if reg.LessonCompleted {
			state.Completed = true
		}
	}
	return state, nil
}

func (s *registrationStore) ListByUser(_ context.Context, userID int64) ([]*models.Registration, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var registrations []*models.Registration
	for _, reg := range s.db.registrations {
		if reg.UserID != userID || reg.Status != models.RegistrationConfirmed {
			continue
		}
		copied := *reg
		registrations = append(registrations, &copied)
	}
	return registrations, nil
}

func (s *registrationStore) RecordAttendance(_ context.Context, userID int64, occurrenceID string, attended, lessonCompleted bool, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	reg := s.findConfirmedLocked(userID, occurrenceID)
	if reg == nil {
		return apperrors.ErrRegistrationNotFound
	}
	reg.HasAttended = attended
	if lessonCompleted && !reg.LessonCompleted {
		reg.LessonCompleted = true
		completedAt := at
		reg.CompletedAt = &completedAt
	}
	reg.UpdatedAt = at
	return nil
}

func (s *registrationStore) findConfirmedLocked(userID int64, occurrenceID string) *models.Registration {
	for _, reg := range s.db.registrations {
		if reg.UserID == userID && reg.OccurrenceID == occurrenceID && reg.Status == models.RegistrationConfirmed {
			return reg
		}
	}
	return nil
}

// checkRegisterLocked runs the Register preconditions in order without
// mutating anything.
func (s *registrationStore) checkRegisterLocked(userID int64, occurrenceID string, now time.Time) error {
	occ, ok := s.db.occurrences[occurrenceID]
	if !ok {
		return apperrors.ErrOccurrenceNotFound
	}
	if occ.HasEnded(now) {
		return apperrors.ErrOccurrenceEnded
	}
	for _, reg := range s.db.registrations {
		if reg.UserID == userID && reg.OccurrenceID == occurrenceID && reg.LessonCompleted {
			return apperrors.ErrLessonCompleted
		}
	}
	if s.findConfirmedLocked(userID, occurrenceID) != nil {
		return apperrors.ErrAlreadyRegistered
	}
	if occ.IsFull() {
		return apperrors.ErrOccurrenceFull
	}
	return nil
}

func (s *registrationStore) registerLocked(userID int64, occurrenceID string, now time.Time) (*models.Registration, error) {
	if err := s.checkRegisterLocked(userID, occurrenceID, now); err != nil {
		return nil, err
	}

	s.db.occurrences[occurrenceID].CurrentParticipants++
	reg := &models.Registration{
		ID:           uuid.New().String(),
		UserID:       userID,
		OccurrenceID: occurrenceID,
		Status:       models.RegistrationConfirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.db.registrations[reg.ID] = reg

	copied := *reg
	return &copied, nil
}

func (s *registrationStore) unregisterLocked(userID int64, occurrenceID string) error {
	reg := s.findConfirmedLocked(userID, occurrenceID)
	if reg == nil {
		return apperrors.ErrRegistrationNotFound
	}
	if reg.LessonCompleted {
		return apperrors.ErrLessonCompleted
	}

	reg.Status = models.RegistrationCancelled
	if occ, ok := s.db.occurrences[occurrenceID]; ok && occ.CurrentParticipants > 0 {
		occ.CurrentParticipants--
	}
	return nil
}

// --- UserStore ---

type userStore struct {
	db *DB
}

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextUserID++
	user.ID = s.db.nextUserID
	copied := *user
	s.db.users[user.ID] = &copied
	return nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, user := range s.db.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}
