package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-portal/api"
	"github.com/frahmantamala/hr-portal/internal/approval"
	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/internal/transport/middleware"
	"github.com/frahmantamala/hr-portal/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const APIPrefix = "/api/v1"

type Handlers struct {
	Health      *HealthHandler
	Hierarchy   *hierarchy.Handler
	Departments *department.Handler
	Approvals   *approval.Handler
}

func RegisterAllRoutes(router *chi.Mux, origins []string, handlers Handlers, logger *slog.Logger) {
	base := transport.NewBaseHandler(logger)

	// Apply global middleware
	router.Use(middleware.CORS(origins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.ForwardToken)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteJSON(w, http.StatusNotFound, transport.Envelope{Success: false, Error: "Not found"})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		base.WriteJSON(w, http.StatusMethodNotAllowed, transport.Envelope{Success: false, Error: "Method not allowed"})
	})

	// OpenAPI document and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.Document)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route(APIPrefix, func(r chi.Router) {
		if handlers.Health != nil {
			r.Get("/health", handlers.Health.healthCheckHandler)
			r.Get("/ping", handlers.Health.pingHandler)
		}
		if handlers.Hierarchy != nil {
			handlers.Hierarchy.Routes(r)
		}
		if handlers.Departments != nil {
			handlers.Departments.Routes(r)
		}
		if handlers.Approvals != nil {
			handlers.Approvals.Routes(r)
		}
	})
}
