/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. RateLimit:  Per-IP request limiting (optional)

ROUTE GROUPS:
  /api/months/*        Month views, allocation, quotas
  /api/persons/*       Roster and per-person statistics
  /api/availability/*  Availability records
  /api/reports/*       Fairness and coverage reports
  /api/history         Audit trail
  /api/info, /api/health

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if opts.RateLimitRPS > 0 {
		r.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Month routes
		r.Route("/months/{month}", func(r chi.Router) {
			r.Get("/", h.GetMonth)
			r.Post("/allocate", h.AllocateMonth)
			r.Post("/fill", h.FillPending)
			r.Get("/quotas", h.GetQuotas)
			r.Post("/reset", h.ResetMonth)

			r.Route("/days/{day}", func(r chi.Router) {
				r.Put("/", h.AssignDay)
				r.Delete("/", h.RemoveDay)
				r.Post("/claim", h.ClaimDay)
				r.Get("/suggestion", h.SuggestDay)
			})
		})

		// Person routes
		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Get("/active", h.ListActivePersons)
			r.Get("/{person}/stats", h.GetPersonStats)
		})

		// Availability routes
		r.Route("/availability", func(r chi.Router) {
			r.Get("/", h.ListAvailability)
			r.Put("/{person}", h.SetAvailability)
		})

		// Validation and reports
		r.Get("/assignments/validate", h.ValidateAssignment)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/distribution", h.GetDistribution)
			r.Get("/annual", h.GetAnnualReport)
		})

		// Audit and meta
		r.Get("/history", h.GetHistory)
		r.Get("/info", h.GetInfo)
		r.Get("/health", h.Health)
	})

	return r
}
