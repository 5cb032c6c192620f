package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teachhq/teach-backend/internal/app/models"
)

// EventFilter narrows catalog listings. Zero-valued fields match everything.
type EventFilter struct {
	Type         models.EventType
	InstructorID int64
	ModuleID     string
}

// EventStore holds the event catalog
type EventStore interface {
	List(ctx context.Context, filter EventFilter) ([]*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
}

// OccurrenceStore holds the materialized occurrences of catalog events
type OccurrenceStore interface {
	GetByID(ctx context.Context, id string) (*models.Occurrence, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.Occurrence, error)
	CreateBatch(ctx context.Context, occurrences []models.Occurrence) error
}

// RegistrationStore is the single source of truth for registrations and
// participant counts. Implementations must treat the capacity check and the
// counter increment of Register as one atomic unit, and Reschedule as a single
// transaction that either fully applies or leaves the original registration
// untouched.
type RegistrationStore interface {
	Register(ctx context.Context, userID int64, occurrenceID string, now time.Time) (*models.Registration, error)
	Unregister(ctx context.Context, userID int64, occurrenceID string) error
	Reschedule(ctx context.Context, userID int64, fromOccurrenceID, toOccurrenceID string, now time.Time) (*models.Registration, error)
	State(ctx context.Context, userID int64, occurrenceID string) (models.RegistrationState, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Registration, error)
	RecordAttendance(ctx context.Context, userID int64, occurrenceID string, attended, lessonCompleted bool, at time.Time) error
}

// UserStore holds the minimal account data this service owns
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	EventRepository        EventStore
	OccurrenceRepository   OccurrenceStore
	RegistrationRepository RegistrationStore
	UserRepository         UserStore
}

// NewRepositories initializes the PostgreSQL-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	occurrenceRepo := NewOccurrenceRepository(db)
	return &Repositories{
		EventRepository:        NewEventRepository(db),
		OccurrenceRepository:   occurrenceRepo,
		RegistrationRepository: NewRegistrationRepository(db),
		UserRepository:         NewUserRepository(db),
	}
}
