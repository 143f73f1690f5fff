package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/auth"
	"github.com/notshort/notshort/internal/handlers"
	"github.com/notshort/notshort/internal/middleware"
)

// NewRouter wires middleware and routes. Slug management sits behind the
// bearer middleware; registration, session endpoints and the public
// redirect do not.
func NewRouter(handler *handlers.Handler, a *auth.Auth, logger *zap.Logger, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.CORSMiddleware(corsOrigin))

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/refresh-token", handler.RefreshToken)
	r.Post("/logout", handler.Logout)
	r.Post("/verify-token", handler.VerifyToken)
	r.Get("/user", handler.GetUser)

	r.Route("/shorten", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(a))
		r.Get("/", handler.ListShortURLs)
		r.Post("/", handler.CreateShortURL)
		r.Put("/", handler.UpdateShortURL)
		r.Delete("/", handler.DeleteShortURL)
		r.Get("/visits", handler.ListVisits)
		r.Get("/visits/{slug}", handler.ListVisitsBySlug)
	})

	r.Get("/{slug}", handler.Redirect)

	return r
}
