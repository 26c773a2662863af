package rest

import (
	"net/http"
	"time"

	"contentbridge/application/coordinator"
	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/domain/appstate"
	"contentbridge/interfaces/bridge"
	"contentbridge/interfaces/http/rest/handlers"
	"contentbridge/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the collaborators the router exposes over HTTP.
type Deps struct {
	Store        ports.StateStore
	Initializer  *initializer.Initializer
	Coordinator  *coordinator.Coordinator
	Options      coordinator.Options
	RouteTracker *ports.RouteTracker

	// Hooks enables the live-edit webhook endpoints when non-nil.
	Hooks *bridge.EmbeddedHooks

	EnableCORS bool
}

// Router creates and configures the HTTP router
type Router struct {
	deps   Deps
	logger *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(deps Deps, logger *zap.Logger) *Router {
	return &Router{
		deps:   deps,
		logger: logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.deps.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		appHandler := handlers.NewAppHandler(
			rt.deps.Store,
			rt.deps.Initializer,
			rt.deps.Coordinator,
			rt.deps.Options,
			rt.deps.RouteTracker,
			rt.logger,
		)
		r.Route("/app", func(r chi.Router) {
			r.Get("/", appHandler.GetState)
			r.Post("/initialize", appHandler.Initialize)
			r.Post("/route-change", appHandler.RouteChange)
		})

		contentHandler := handlers.NewContentHandler(rt.deps.Store, rt.logger)
		r.Get("/navigation", contentHandler.GetNavigation)
		r.Get("/items/{key}", contentHandler.GetItem)

		// Live-edit webhooks; only mounted in preview mode. Each call can
		// block on a backend confirmation wait, so keep the budget small.
		if rt.deps.Hooks != nil {
			editHandler := handlers.NewEditHandler(rt.deps.Hooks, rt.logger)
			limiter := middleware.NewRateLimiter(30, time.Second)
			r.Route("/edit", func(r chi.Router) {
				r.Use(middleware.RateLimit(limiter))
				r.Post("/preview-element", editHandler.PreviewElement)
				r.Post("/content-change", editHandler.ContentChange)
				r.Post("/rerender-view", editHandler.RerenderView)
				r.Post("/navigation-change", editHandler.NavigationChange)
			})
		}
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the application state machine reached
// the ready state
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.deps.Store.Snapshot().Status != appstate.StatusReady {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"initializing"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
