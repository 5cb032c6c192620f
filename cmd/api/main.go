package main

import (
	"os"

	"github.com/teachhq/teach-backend/internal/pkg/logger"
	"github.com/teachhq/teach-backend/internal/server"
)

// @title TEACH Scheduling API
// @version 1.0
// @description Event scheduling, registration and AI content workspace backend for the TEACH teacher-training platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://www.teach.dev/support
// @contact.email support@teach.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Initialize the server with all its dependencies
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run the server (this blocks until shutdown signal)
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
