package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

// EventRepository handles database operations for catalog events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.type", "e.start_date", "e.end_date",
	"e.location", "e.meeting_url", "e.max_participants", "e.is_recurring",
	"e.instructor_id", "e.instructor_name", "e.module_id", "e.created_at",
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Type,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.MeetingURL,
		&event.MaxParticipants,
		&event.IsRecurring,
		&event.InstructorID,
		&event.InstructorName,
		&event.ModuleID,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List retrieves catalog events in insertion order, optionally filtered by
// type, instructor and module
func (r *EventRepository) List(ctx context.Context, filter EventFilter) ([]*models.Event, error) {
	query := squirrel.Select(eventColumns...).
		From("events e").
		OrderBy("e.created_at ASC, e.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Type != "" {
		query = query.Where("e.type = ?", filter.Type)
	}
	if filter.InstructorID > 0 {
		query = query.Where("e.instructor_id = ?", filter.InstructorID)
	}
	if filter.ModuleID != "" {
		query = query.Where("e.module_id = ?", filter.ModuleID)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	for _, event := range events {
		if err := r.loadRecurringDates(ctx, event); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// GetByID returns a single event or ErrEventNotFound
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := squirrel.Select(eventColumns...).
		From("events e").
		Where("e.id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	if err := r.loadRecurringDates(ctx, event); err != nil {
		return nil, err
	}
	if err := r.loadModule(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Create inserts an event. Occurrence materialization is the caller's job so
// the expansion stays in one place.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := squirrel.Insert("events").
		Columns("id", "title", "description", "type", "start_date", "end_date",
			"location", "meeting_url", "max_participants", "is_recurring",
			"instructor_id", "instructor_name", "module_id", "created_at").
		Values(event.ID, event.Title, event.Description, event.Type,
			event.StartDate, event.EndDate, event.Location, event.MeetingURL,
			event.MaxParticipants, event.IsRecurring, event.InstructorID,
			event.InstructorName, event.ModuleID, event.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// loadRecurringDates fills RecurringDates from the materialized occurrences.
// Non-recurring events keep a nil slice.
func (r *EventRepository) loadRecurringDates(ctx context.Context, event *models.Event) error {
	if !event.IsRecurring {
		return nil
	}

	query := squirrel.Select("date").
		From("occurrences").
		Where("event_id = ?", event.ID).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	event.RecurringDates = event.RecurringDates[:0]
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		event.RecurringDates = append(event.RecurringDates, date)
	}
	return rows.Err()
}

// loadModule attaches the course module an event belongs to, if any
func (r *EventRepository) loadModule(ctx context.Context, event *models.Event) error {
	if event.ModuleID == nil {
		return nil
	}

	query := squirrel.Select("id", "title", "type").
		From("course_modules").
		Where("id = ?", *event.ModuleID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	var module models.CourseModule
	err = r.db.QueryRow(ctx, sql, args...).Scan(&module.ID, &module.Title, &module.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	event.Module = &module
	return nil
}
