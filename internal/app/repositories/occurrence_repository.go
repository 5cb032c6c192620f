package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
)

// OccurrenceRepository handles database operations for materialized
// occurrences. Participant counters on these rows are written exclusively by
// the RegistrationRepository.
type OccurrenceRepository struct {
	db *pgxpool.Pool
}

// NewOccurrenceRepository creates a new OccurrenceRepository
func NewOccurrenceRepository(db *pgxpool.Pool) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

var occurrenceColumns = []string{
	"id", "event_id", "date", "start_time", "end_time",
	"max_participants", "current_participants", "instructor_name",
}

func scanOccurrence(row pgx.Row) (*models.Occurrence, error) {
	var occ models.Occurrence
	err := row.Scan(
		&occ.ID,
		&occ.EventID,
		&occ.Date,
		&occ.StartTime,
		&occ.EndTime,
		&occ.MaxParticipants,
		&occ.CurrentParticipants,
		&occ.InstructorName,
	)
	if err != nil {
		return nil, err
	}
	return &occ, nil
}

// GetByID returns a single occurrence or ErrOccurrenceNotFound
func (r *OccurrenceRepository) GetByID(ctx context.Context, id string) (*models.Occurrence, error) {
	query := squirrel.Select(occurrenceColumns...).
		From("occurrences").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	occ, err := scanOccurrence(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOccurrenceNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return occ, nil
}

// ListByEvent returns the occurrences of an event sorted by date ascending
func (r *OccurrenceRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.Occurrence, error) {
	query := squirrel.Select(occurrenceColumns...).
		From("occurrences").
		Where("event_id = ?", eventID).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var occurrences []*models.Occurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, rows.Err()
}

// CreateBatch inserts the materialized occurrences of a newly created event
func (r *OccurrenceRepository) CreateBatch(ctx context.Context, occurrences []models.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	query := squirrel.Insert("occurrences").
		Columns(occurrenceColumns...).
		PlaceholderFormat(squirrel.Dollar)
	for _, occ := range occurrences {
		query = query.Values(occ.ID, occ.EventID, occ.Date, occ.StartTime,
			occ.EndTime, occ.MaxParticipants, occ.CurrentParticipants, occ.InstructorName)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}
