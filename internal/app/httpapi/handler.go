// Package httpapi exposes the REST API. Handlers translate between HTTP
// and service calls; all business rules live in the services.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	app "github.com/clientdesk/clientdesk/internal/app"
	"github.com/clientdesk/clientdesk/internal/app/metrics"
	"github.com/clientdesk/clientdesk/internal/middleware"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// Options tunes the HTTP surface.
type Options struct {
	// CORSOrigins lists the origins allowed to make credentialed requests.
	CORSOrigins []string
	// SecureCookies marks the session cookie Secure. Enable everywhere
	// TLS terminates in front of the server.
	SecureCookies bool
	// AuthRateLimit throttles the unauthenticated auth endpoints per
	// client IP. Zero disables throttling.
	AuthRateLimit int
	// AuthRateBurst is the burst allowance for AuthRateLimit.
	AuthRateBurst int
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app           *app.Application
	log           *logger.Logger
	secureCookies bool
}

// NewRouter assembles the routed handler with its middleware chain. Auth is
// skipped for the health, metrics and credential endpoints; everything else
// requires a verified token with a live session.
func NewRouter(application *app.Application, opts Options, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log, secureCookies: opts.SecureCookies}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	authRoutes := api.PathPrefix("/auth").Subrouter()
	if opts.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst, log)
		limiter.StartCleanup(10 * time.Minute)
		authRoutes.Use(limiter.Handler)
	}
	authRoutes.HandleFunc("/signup", h.signup).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", h.login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	authRoutes.HandleFunc("/me", h.me).Methods(http.MethodGet)

	api.HandleFunc("/clients", h.createClient).Methods(http.MethodPost)
	api.HandleFunc("/clients", h.listClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", h.getClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", h.updateClient).Methods(http.MethodPut)
	api.HandleFunc("/clients/{id}", h.deleteClient).Methods(http.MethodDelete)

	api.HandleFunc("/projects", h.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", h.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", h.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", h.updateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", h.deleteProject).Methods(http.MethodDelete)

	api.HandleFunc("/interactions", h.createInteraction).Methods(http.MethodPost)
	api.HandleFunc("/interactions", h.listInteractions).Methods(http.MethodGet)
	api.HandleFunc("/interactions/{id}", h.getInteraction).Methods(http.MethodGet)
	api.HandleFunc("/interactions/{id}", h.updateInteraction).Methods(http.MethodPut)
	api.HandleFunc("/interactions/{id}", h.deleteInteraction).Methods(http.MethodDelete)

	api.HandleFunc("/reminders", h.createReminder).Methods(http.MethodPost)
	api.HandleFunc("/reminders", h.listReminders).Methods(http.MethodGet)
	api.HandleFunc("/reminders/{id}", h.getReminder).Methods(http.MethodGet)
	api.HandleFunc("/reminders/{id}", h.updateReminder).Methods(http.MethodPut)
	api.HandleFunc("/reminders/{id}", h.deleteReminder).Methods(http.MethodDelete)

	api.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet)

	// Logout stays reachable with an expired or garbage token so the
	// cookie always gets cleared.
	authMW := middleware.NewAuthMiddleware(application.Auth, log, []string{
		"/healthz",
		"/metrics",
		"/api/v1/auth/signup",
		"/api/v1/auth/login",
		"/api/v1/auth/logout",
	})
	cors := middleware.NewCORSMiddleware(opts.CORSOrigins)

	return metrics.InstrumentHandler(cors.Handler(authMW.Handler(r)))
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
