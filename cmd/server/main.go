// Package main initializes and starts the NoteKeeper API server,
// setting up configuration, logging, the database connection,
// repositories, services and handlers.
package main

import (
	"cmp"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"notekeeper/internal/config"
	"notekeeper/internal/db"
	"notekeeper/internal/logger"
	"notekeeper/internal/repository"
	"notekeeper/internal/server/handler/http"
	"notekeeper/internal/service"
	"notekeeper/internal/token"
)

// accessTokenTTL bounds how long an issued token stays valid.
const accessTokenTTL = 30 * time.Minute

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	zapLogger, err := logger.New(options.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is required (flag -s or JWT_SECRET_KEY)")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and notes.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)

	// Initialize token signing and business-logic services.
	tokens := token.NewManager([]byte(options.JWTSecret), accessTokenTTL)
	authService := service.NewAuthService(userRepo, tokens)
	noteService := service.NewNoteService(noteRepo)
	userService := service.NewUserService(userRepo)

	// Create HTTP handlers for auth, notes and profile endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	notesHandler := &http.NotesHandler{NoteService: noteService}
	profileHandler := &http.ProfileHandler{UserService: userService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, notesHandler, profileHandler, tokens, userRepo, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
