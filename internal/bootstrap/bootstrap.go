package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/teachhq/teach-backend/internal/app/auth"
	appControllers "github.com/teachhq/teach-backend/internal/app/controllers"
	appMigrations "github.com/teachhq/teach-backend/internal/app/migrations"
	appRepos "github.com/teachhq/teach-backend/internal/app/repositories"
	"github.com/teachhq/teach-backend/internal/app/repositories/inmem"
	appRoutes "github.com/teachhq/teach-backend/internal/app/routes"
	appServices "github.com/teachhq/teach-backend/internal/app/services"
	"github.com/teachhq/teach-backend/internal/config"
	"github.com/teachhq/teach-backend/internal/db"
	appMiddleware "github.com/teachhq/teach-backend/internal/middleware"
	pkgAuth "github.com/teachhq/teach-backend/internal/pkg/auth"
	"github.com/teachhq/teach-backend/internal/pkg/email"
	"github.com/teachhq/teach-backend/internal/pkg/generation"
	"github.com/teachhq/teach-backend/internal/pkg/helpers"
	"github.com/teachhq/teach-backend/internal/pkg/logger"
	"github.com/teachhq/teach-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	EventService           appServices.EventService
	SchedulingService      appServices.SchedulingService
	GenerationService      appServices.GenerationService
	EventController        *appControllers.EventController
	RegistrationController *appControllers.RegistrationController
	GenerationController   *appControllers.GenerationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	AuthzService           *appAuth.AuthorizationService
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	EmailService           email.EmailService
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := logger.IsPrettyFormat(cfg.Logging.Format)

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStores wires the configured store driver. For PostgreSQL it connects,
// migrates and seeds; the in-memory driver builds a seeded throwaway store
// for local development. The returned pool is nil for the in-memory driver.
func SetupStores(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	if cfg.Database.Driver == "memory" {
		lgr.Warn().Msg("Using in-memory store; all data is lost on shutdown")
		repos := inmem.NewRepositories(inmem.Open())
		if err := seed.SeedCatalog(context.Background(), repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to seed in-memory store, proceeding anyway...")
		}
		return repos, nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := filepath.Join("internal", "app", "migrations")
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return appRepos.NewRepositories(dbPool), dbPool, nil
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	generationConfig := generation.Config{
		Provider:   generation.Provider(cfg.Generation.Provider),
		BaseURL:    cfg.Generation.BaseURL,
		APIKey:     cfg.Generation.APIKey,
		Model:      cfg.Generation.Model,
		Timeout:    helpers.ParseDuration(cfg.Generation.Timeout, 60*time.Second),
		MaxRetries: cfg.Generation.MaxRetries,
	}
	generationClient := generation.NewClient(generationConfig, lgr)

	deps.EventService = appServices.NewEventService(
		repos.EventRepository,
		repos.OccurrenceRepository,
		repos.UserRepository,
		lgr,
	)
	deps.SchedulingService = appServices.NewSchedulingService(
		repos.EventRepository,
		repos.OccurrenceRepository,
		repos.RegistrationRepository,
		deps.EmailService,
		lgr,
	)
	deps.GenerationService = appServices.NewGenerationService(generationClient, generationConfig, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.AuthzService = appAuth.NewAuthorizationService(repos.EventRepository, repos.OccurrenceRepository, lgr)

	deps.EventController = appControllers.NewEventController(deps.EventService, deps.SchedulingService)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.SchedulingService, deps.AuthzService)
	deps.GenerationController = appControllers.NewGenerationController(deps.GenerationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.EventController,
		deps.RegistrationController,
		deps.GenerationController,
		deps.AuthMiddleware,
	)

	return router
}
