// Package http provides HTTP routing and middleware configuration for the
// demo auth service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/atinyakov/ClaimKeeper/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the auth API.
//
// Routes:
//
//	POST /auth/login    → authHandler.Login
//	POST /auth/refresh  → authHandler.Refresh
//	GET  /auth/me       → authHandler.Me (protected by BearerAuth)
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON request bodies
//  2. WithRequestLogging(logger)           — logs incoming requests
func NewRouter(
	authHandler *AuthHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/auth", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
