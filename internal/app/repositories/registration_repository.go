package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teachhq/teach-backend/internal/app/models"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
	"github.com/teachhq/teach-backend/internal/pkg/dberrors"
)

// RegistrationRepository owns registration rows and the participant counters
// on occurrence rows. Every mutation runs inside a transaction that locks the
// affected occurrence rows first (SELECT ... FOR UPDATE), so two concurrent
// registrations for the last seat serialize instead of both passing the
// capacity check.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Register books one seat for the user on the occurrence. Precondition order:
// occurrence exists, has not ended, lesson not already completed by this user,
// no confirmed registration yet, seats available.
func (r *RegistrationRepository) Register(ctx context.Context, userID int64, occurrenceID string, now time.Time) (*models.Registration, error) {
	var reg *models.Registration
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		occ, err := lockOccurrence(ctx, tx, occurrenceID)
		if err != nil {
			return err
		}
		reg, err = registerLocked(ctx, tx, userID, occ, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Unregister cancels the user's confirmed registration and frees the seat.
// Completed lessons are frozen and cannot be cancelled.
func (r *RegistrationRepository) Unregister(ctx context.Context, userID int64, occurrenceID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockOccurrence(ctx, tx, occurrenceID); err != nil {
			// A dangling registration without its occurrence still reads as
			// "nothing to cancel" to the caller.
			if errors.Is(err, apperrors.ErrOccurrenceNotFound) {
				return apperrors.ErrRegistrationNotFound
			}
			return err
		}
		return unregisterLocked(ctx, tx, userID, occurrenceID)
	})
}

// Reschedule moves the user's confirmed registration from one occurrence to
// another in a single transaction: if the target has no seats (or any other
// precondition fails) the original registration stands untouched.
func (r *RegistrationRepository) Reschedule(ctx context.Context, userID int64, fromOccurrenceID, toOccurrenceID string, now time.Time) (*models.Registration, error) {
	if fromOccurrenceID == toOccurrenceID {
		return nil, apperrors.ErrAlreadyRegistered
	}

	var reg *models.Registration
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		// Lock both occurrence rows in a deterministic order so two opposite
		// reschedules cannot deadlock.
		ids := []string{fromOccurrenceID, toOccurrenceID}
		sort.Strings(ids)

		locked := make(map[string]*models.Occurrence, 2)
		for _, id := range ids {
			occ, err := lockOccurrence(ctx, tx, id)
			if err != nil {
				// A missing source occurrence reads as a missing registration.
				if errors.Is(err, apperrors.ErrOccurrenceNotFound) && id == fromOccurrenceID {
					return apperrors.ErrRegistrationNotFound
				}
				return err
			}
			locked[id] = occ
		}

		if err := unregisterLocked(ctx, tx, userID, fromOccurrenceID); err != nil {
			return err
		}
		var err error
		reg, err = registerLocked(ctx, tx, userID, locked[toOccurrenceID], now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// State reports whether the user holds a confirmed registration for the
// occurrence and whether the lesson was completed.
func (r *RegistrationRepository) State(ctx context.Context, userID int64, occurrenceID string) (models.RegistrationState, error) {
	var state models.RegistrationState
	err := r.db.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND occurrence_id = $2 AND status = $3),
		   EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND occurrence_id = $2 AND lesson_completed)`,
		userID, occurrenceID, models.RegistrationConfirmed,
	).Scan(&state.Registered, &state.Completed)
	if err != nil {
		return models.RegistrationState{}, fmt.Errorf("error executing query: %w", err)
	}
	return state, nil
}

// ListByUser returns all confirmed registrations of a user, newest first
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Registration, error) {
	query := squirrel.Select("id", "user_id", "occurrence_id", "status",
		"has_attended", "lesson_completed", "completed_at", "created_at", "updated_at").
		From("registrations").
		Where("user_id = ?", userID).
		Where("status = ?", models.RegistrationConfirmed).
		OrderBy("created_at DESC").
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

	var registrations []*models.Registration
	for rows.Next() {
		var reg models.Registration
		err := rows.Scan(&reg.ID, &reg.UserID, &reg.OccurrenceID, &reg.Status,
			&reg.HasAttended, &reg.LessonCompleted, &reg.CompletedAt,
			&reg.CreatedAt, &reg.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		registrations = append(registrations, &reg)
	}
	return registrations, rows.Err()
}

// RecordAttendance writes session-delivery results onto the confirmed
// registration. Once lessonCompleted is set here the registration freezes.
func (r *RegistrationRepository) RecordAttendance(ctx context.Context, userID int64, occurrenceID string, attended, lessonCompleted bool, at time.Time) error {
	var completedAt *time.Time
	if lessonCompleted {
		completedAt = &at
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE registrations
		 SET has_attended = $1,
		     lesson_completed = lesson_completed OR $2,
		     completed_at = COALESCE(completed_at, $3),
		     updated_at = $4
		 WHERE user_id = $5 AND occurrence_id = $6 AND status = $7`,
		attended, lessonCompleted, completedAt, at, userID, occurrenceID, models.RegistrationConfirmed,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// inTx runs fn inside a transaction with commit/rollback handling
func (r *RegistrationRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lockOccurrence acquires a row-level exclusive lock on the occurrence and
// returns its current state. Concurrent transactions block here until the
// holder commits, which serializes the check-then-increment sequence.
func lockOccurrence(ctx context.Context, tx pgx.Tx, occurrenceID string) (*models.Occurrence, error) {
	var occ models.Occurrence
	err := tx.QueryRow(ctx,
		`SELECT id, event_id, date, start_time, end_time, max_participants, current_participants, instructor_name
		 FROM occurrences
		 WHERE id = $1
		 FOR UPDATE`,
		occurrenceID,
	).Scan(&occ.ID, &occ.EventID, &occ.Date, &occ.StartTime, &occ.EndTime,
		&occ.MaxParticipants, &occ.CurrentParticipants, &occ.InstructorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOccurrenceNotFound
		}
		return nil, fmt.Errorf("lock occurrence row: %w", err)
	}
	return &occ, nil
}

// registerLocked performs the registration preconditions and writes while the
// occurrence row lock is held.
func registerLocked(ctx context.Context, tx pgx.Tx, userID int64, occ *models.Occurrence, now time.Time) (*models.Registration, error) {
	if occ.HasEnded(now) {
		return nil, apperrors.ErrOccurrenceEnded
	}

	var completed, confirmed bool
	err := tx.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND occurrence_id = $2 AND lesson_completed),
		   EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND occurrence_id = $2 AND status = $3)`,
		userID, occ.ID, models.RegistrationConfirmed,
	).Scan(&completed, &confirmed)
	if err != nil {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}
	if completed {
		return nil, apperrors.ErrLessonCompleted
	}
	if confirmed {
		return nil, apperrors.ErrAlreadyRegistered
	}
	if occ.IsFull() {
		return nil, apperrors.ErrOccurrenceFull
	}

	if _, err := tx.Exec(ctx,
		`UPDATE occurrences SET current_participants = current_participants + 1 WHERE id = $1`,
		occ.ID,
	); err != nil {
		return nil, fmt.Errorf("increment participant count: %w", err)
	}

	reg := &models.Registration{
		ID:           uuid.New().String(),
		UserID:       userID,
		OccurrenceID: occ.ID,
		Status:       models.RegistrationConfirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO registrations (id, user_id, occurrence_id, status, has_attended, lesson_completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, false, false, $5, $6)`,
		reg.ID, reg.UserID, reg.OccurrenceID, reg.Status, reg.CreatedAt, reg.UpdatedAt,
	); err != nil {
		// The partial unique index backs up the EXISTS check above
		if dberrors.IsDuplicateConstraintError(err, "uq_registrations_confirmed") {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return reg, nil
}

// unregisterLocked cancels the confirmed registration and frees the seat
// while the occurrence row lock is held.
func unregisterLocked(ctx context.Context, tx pgx.Tx, userID int64, occurrenceID string) error {
	var regID string
	var lessonCompleted bool
	err := tx.QueryRow(ctx,
		`SELECT id, lesson_completed FROM registrations
		 WHERE user_id = $1 AND occurrence_id = $2 AND status = $3`,
		userID, occurrenceID, models.RegistrationConfirmed,
	).Scan(&regID, &lessonCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrRegistrationNotFound
		}
		return fmt.Errorf("load registration: %w", err)
	}
	if lessonCompleted {
		return apperrors.ErrLessonCompleted
	}

	if _, err := tx.Exec(ctx,
		`UPDATE registrations SET status = $1, updated_at = now() WHERE id = $2`,
		models.RegistrationCancelled, regID,
	); err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE occurrences
		 SET current_participants = GREATEST(current_participants - 1, 0)
		 WHERE id = $1`,
		occurrenceID,
	); err != nil {
		return fmt.Errorf("decrement participant count: %w", err)
	}
	return nil
}
