/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a local frontend

ROUTE GROUPS:
  /api/persons/*   Worker records and their payment ledgers
  /api/jobs/*      Job records, assignments, and the paid/final lifecycle

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

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
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

	r.Route("/api", func(r chi.Router) {
		// Person routes
		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Post("/", h.CreatePerson)
			r.Get("/{id}", h.GetPerson)
			r.Delete("/{id}", h.DeletePerson)
			r.Get("/{id}/payments", h.GetPayments)
		})

		// Job routes
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Post("/", h.CreateJob)
			r.Get("/{id}", h.GetJob)
			r.Delete("/{id}", h.DeleteJob)

			// Assignment
			r.Post("/{id}/persons", h.AssociatePerson)
			r.Delete("/{id}/persons/{personId}", h.DisassociatePerson)

			// Lifecycle
			r.Post("/{id}/paid", h.MarkJobPaid)
			r.Delete("/{id}/paid", h.MarkJobUnpaid)
			r.Post("/{id}/finalize", h.FinalizeJob)
		})
	})

	return r
}
