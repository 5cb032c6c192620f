package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/teachhq/teach-backend/internal/app/models"
	appRepos "github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
	"github.com/teachhq/teach-backend/internal/pkg/auth"
)

// CreateDefaultData seeds demo accounts, course modules and the event catalog
// if they don't exist yet. Errors are collected so a partially seeded
// database does not block startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	var finalErr error
	if err := seedModules(ctx, dbPool); err != nil {
		lgr.Error().Err(err).Msg("Error seeding course modules")
		finalErr = errors.Join(finalErr, err)
	}
	if err := SeedCatalog(ctx, repos, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	return finalErr
}

// SeedCatalog seeds demo accounts and the event catalog through the store
// interfaces, so it works for both the PostgreSQL and the in-memory driver.
func SeedCatalog(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (users, events)...")
	var finalErr error

	instructor := seedUser(ctx, repos.UserRepository, lgr, &finalErr, &appModels.User{
		FirstName: "Ayşe",
		LastName:  "Demir",
		Email:     "ayse.demir@teach.dev",
		RoleType:  appModels.RoleInstructor,
	})
	seedUser(ctx, repos.UserRepository, lgr, &finalErr, &appModels.User{
		FirstName: "Sarah",
		LastName:  "Johnson",
		Email:     "sarah.johnson@teach.dev",
		RoleType:  appModels.RoleTeacher,
	})

	if instructor != nil {
		if err := seedEvents(ctx, repos, lgr, instructor); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr != nil {
		lgr.Warn().Err(finalErr).Msg("Default data seeding finished with errors")
	} else {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}

// seedUser creates a demo account unless its email is already taken
func seedUser(ctx context.Context, userRepo appRepos.UserStore, lgr zerolog.Logger, finalErr *error, user *appModels.User) *appModels.User {
	existing, err := userRepo.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error looking up seed user")
		*finalErr = errors.Join(*finalErr, err)
		return nil
	}

	hashed, err := auth.HashPassword("teach-demo")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing seed password")
		*finalErr = errors.Join(*finalErr, err)
		return nil
	}
	user.Password = hashed
	user.CreatedAt = time.Now()

	if err := userRepo.Create(ctx, user); err != nil {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error creating seed user")
		*finalErr = errors.Join(*finalErr, err)
		return nil
	}
	return user
}

func seedModules(ctx context.Context, dbPool *pgxpool.Pool) error {
	modules := []appModels.CourseModule{
		{ID: "mod-foundations", Title: "Foundations of Modern Pedagogy", Type: "CORE"},
		{ID: "mod-classroom", Title: "Classroom Management", Type: "CORE"},
		{ID: "mod-digital", Title: "Digital Teaching Tools", Type: "ELECTIVE"},
	}
	for _, m := range modules {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO course_modules (id, title, type) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			m.ID, m.Title, m.Type)
		if err != nil {
			return err
		}
	}
	return nil
}

// seedEvents populates the demo catalog. Every event id is unique; ids double
// as occurrence id prefixes so collisions would corrupt the ledger.
func seedEvents(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger, instructor *appModels.User) error {
	if _, err := repos.EventRepository.GetByID(ctx, "evt-1"); err == nil {
		return nil // catalog already seeded
	}

	now := time.Now()
	nextMonday := now.AddDate(0, 0, (8-int(now.Weekday()))%7+1).Truncate(24 * time.Hour).Add(17 * time.Hour)
	moduleClassroom := "mod-classroom"
	moduleDigital := "mod-digital"

	instructorName := instructor.FirstName + " " + instructor.LastName
	events := []*appModels.Event{
		{
			ID:              "evt-1",
			Title:           "Live Class: Engaging Reluctant Learners",
			Description:     "Interactive strategies for re-engaging students who have checked out.",
			Type:            appModels.EventTypeLiveClass,
			StartDate:       nextMonday,
			EndDate:         nextMonday.Add(90 * time.Minute),
			MeetingURL:      "https://meet.teach.dev/evt-1",
			MaxParticipants: intPtr(30),
			ModuleID:        &moduleClassroom,
		},
		{
			ID:              "evt-2",
			Title:           "Workshop: Building Your First Rubric",
			Description:     "Hands-on session on designing assessment rubrics.",
			Type:            appModels.EventTypeWorkshop,
			StartDate:       nextMonday.AddDate(0, 0, 2),
			EndDate:         nextMonday.AddDate(0, 0, 2).Add(2 * time.Hour),
			Location:        "Campus Lab B",
			MaxParticipants: intPtr(15),
		},
		{
			ID:          "evt-3",
			Title:       "Webinar: AI in the Classroom",
			Description: "Overview of practical uses of generative AI for lesson preparation.",
			Type:        appModels.EventTypeWebinar,
			StartDate:   nextMonday.AddDate(0, 0, 3),
			EndDate:     nextMonday.AddDate(0, 0, 3).Add(time.Hour),
			MeetingURL:  "https://meet.teach.dev/evt-3",
			ModuleID:    &moduleDigital,
		},
		{
			ID:              "evt-4",
			Title:           "Weekly Mentoring Circle",
			Description:     "Small-group mentoring, same time every week.",
			Type:            appModels.EventTypeMentoring,
			StartDate:       nextMonday.AddDate(0, 0, 4),
			EndDate:         nextMonday.AddDate(0, 0, 4).Add(time.Hour),
			MeetingURL:      "https://meet.teach.dev/evt-4",
			MaxParticipants: intPtr(8),
			IsRecurring:     true,
			RecurringDates: []time.Time{
				nextMonday.AddDate(0, 0, 4),
				nextMonday.AddDate(0, 0, 11),
				nextMonday.AddDate(0, 0, 18),
				nextMonday.AddDate(0, 0, 25),
			},
		},
		{
			ID:          "evt-5",
			Title:       "Q&A: Certification Requirements",
			Description: "Open floor for questions about the certification track.",
			Type:        appModels.EventTypeQAndA,
			StartDate:   nextMonday.AddDate(0, 0, 7),
			EndDate:     nextMonday.AddDate(0, 0, 7).Add(time.Hour),
			MeetingURL:  "https://meet.teach.dev/evt-5",
		},
	}

	var finalErr error
	for _, ev := range events {
		ev.InstructorID = instructor.ID
		ev.InstructorName = instructorName
		ev.CreatedAt = time.Now()

		if err := repos.EventRepository.Create(ctx, ev); err != nil {
			lgr.Error().Err(err).Str("eventId", ev.ID).Msg("Error creating seed event")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		occurrences := appModels.ExpandOccurrences(ev)
		if err := repos.OccurrenceRepository.CreateBatch(ctx, occurrences); err != nil {
			lgr.Error().Err(err).Str("eventId", ev.ID).Msg("Error materializing seed occurrences")
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}

func intPtr(v int) *int { return &v }
