// Package http provides HTTP routing and middleware configuration
// for the notes API.
package http

import (
	"net/http"

	"notekeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs and returns an HTTP handler that serves the notes
// API. It applies request logging globally and bearer-token authentication
// to the protected endpoints.
//
// Parameters:
//
//	authHandler    - handler for registration and login endpoints
//	notesHandler   - handler for note CRUD endpoints
//	profileHandler - handler for profile endpoints
//	verifier       - access-token verifier for the auth middleware
//	users          - user loader resolving token subjects
//	logger         - structured logger for request logging middleware
//
// Routes:
//
//	GET    /api             → Welcome (public)
//	POST   /login           → authHandler.Login (public, form-encoded)
//	POST   /register        → authHandler.Register (public)
//	GET    /notes           → notesHandler.List
//	POST   /notes           → notesHandler.Create
//	PUT    /notes/{id}      → notesHandler.Update
//	DELETE /notes/{id}      → notesHandler.Delete
//	GET    /user/profile/   → profileHandler.Get
//	PUT    /users/update    → profileHandler.Update
func NewRouter(
	authHandler *AuthHandler,
	notesHandler *NotesHandler,
	profileHandler *ProfileHandler,
	verifier middleware.TokenVerifier,
	users middleware.UserLoader,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Get("/api", Welcome)
	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(verifier, users))

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notesHandler.List)
			r.Post("/", notesHandler.Create)
			r.Put("/{id}", notesHandler.Update)
			r.Delete("/{id}", notesHandler.Delete)
		})

		r.Get("/user/profile/", profileHandler.Get)
		r.Put("/users/update", profileHandler.Update)
	})

	return r
}
