package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ferndale/console-edge/internal/adapters/rest"
	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// Handlers bundles the REST handlers the router mounts.
type Handlers struct {
	Authz         *rest.AuthzHandler
	Menu          *rest.MenuHandler
	Workflow      *rest.WorkflowHandler
	Notifications *rest.NotificationsHandler
	Health        *rest.HealthHandler
}

func NewHandlers(
	authz *rest.AuthzHandler,
	menu *rest.MenuHandler,
	workflow *rest.WorkflowHandler,
	notifications *rest.NotificationsHandler,
	health *rest.HealthHandler,
) Handlers {
	return Handlers{
		Authz:         authz,
		Menu:          menu,
		Workflow:      workflow,
		Notifications: notifications,
		Health:        health,
	}
}

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	handlers Handlers,
	jwtMiddleware *middleware.JWTMiddleware,
	sessionMiddleware *middleware.SessionMiddleware,
	guard *middleware.Guard,
	childRedirect *middleware.ChildRedirect,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()

	// Public probes
	r.Get("/health/live", handlers.Health.GetLiveness)
	r.Get("/health/ready", handlers.Health.GetReadiness)

	// Everything else runs behind JWT validation and the per-user session.
	r.Group(func(r chi.Router) {
		r.Use(jwtMiddleware.Middleware)
		r.Use(sessionMiddleware.Middleware)

		r.Route("/api", func(r chi.Router) {
			r.Get("/menu", handlers.Menu.GetMenu)
			r.Post("/menu/expand", handlers.Menu.ToggleExpand)
			r.Get("/menu/scroll", handlers.Menu.GetScroll)
			r.Put("/menu/scroll", handlers.Menu.SaveScroll)

			r.Get("/authz/snapshot", handlers.Authz.GetSnapshot)
			r.Post("/authz/check", handlers.Authz.CheckPermission)
			r.Post("/authz/refresh", handlers.Authz.Refresh)
			r.Post("/authz/logout", handlers.Authz.Logout)

			r.Post("/workflow/decision", handlers.Workflow.Decide)

			r.Get("/notifications", handlers.Notifications.GetNotifications)
		})

		// Navigation admission probes: the console asks before routing.
		// A 204 admits, a 302 redirects (login or landing), a 202 means
		// the cache is still hydrating.
		admit := func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}
		r.With(guard.RequireSuperAdmin()).Get("/roles", admit)
		r.With(guard.RequireSuperAdmin()).Get("/resources", admit)
		r.With(guard.RequireSuperAdmin()).Get("/permissions", admit)
		r.With(guard.RequireSuperAdmin()).Get("/section-types", admit)

		// Parent entries with no page of their own resolve to a child.
		r.Get("/navigate", childRedirect.ServeHTTP)
	})

	// Wrap with observability middleware
	handler := withObservability(r, log)

	// Create and return HTTP server
	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// withObservability adds request logging and metrics
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Use chi's response writer wrapper to capture status code and bytes written
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		// Process the request
		handler.ServeHTTP(wrr, r)

		// Log request details
		duration := time.Since(start)

		// Extract user ID if available for better tracing
		userID, _ := middleware.GetJWTUserID(r.Context())

		log.Info(r.Context(), "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"user_id", userID,
		)
	})
}
