package http

import (
	"net/http"

	"github.com/atinyakov/LinkHub/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler that serves the LinkHub API.
//
// Routes:
//
//	POST /api/auth/register     → accounts.Register
//	POST /api/auth/login        → accounts.Login
//	GET  /api/pages/slug/{slug} → pages.GetBySlug
//	GET  /api/accounts/me       → accounts.Me        (identity required)
//	PUT  /api/accounts/me       → accounts.UpdateMe  (identity required)
//	POST /api/pages             → pages.Create       (identity required)
//	GET  /api/pages             → pages.ListMine     (identity required)
//	PUT  /api/pages/{id}        → pages.Update       (identity required)
//
// Middleware chain (applied in order): request id, panic recovery, JSON
// content-type enforcement, request logging, then the auth gate which
// attaches the caller identity when a valid bearer token is presented.
func NewRouter(
	accounts *AccountHandler,
	pages *PageHandler,
	gate *middleware.Authenticator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(gate.Handler)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", accounts.Register)
		r.Post("/auth/login", accounts.Login)
		r.Get("/pages/slug/{slug}", pages.GetBySlug)

		// Protected group: requires an established identity
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity)

			r.Get("/accounts/me", accounts.Me)
			r.Put("/accounts/me", accounts.UpdateMe)
			r.Post("/pages", pages.Create)
			r.Get("/pages", pages.ListMine)
			r.Put("/pages/{id}", pages.Update)
		})
	})

	return r
}
