package app

import (
	"time"

	"github.com/clientdesk/clientdesk/internal/app/services/auth"
	"github.com/clientdesk/clientdesk/internal/app/services/clients"
	"github.com/clientdesk/clientdesk/internal/app/services/dashboardsvc"
	"github.com/clientdesk/clientdesk/internal/app/services/interactions"
	"github.com/clientdesk/clientdesk/internal/app/services/projects"
	"github.com/clientdesk/clientdesk/internal/app/services/reminders"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	"github.com/clientdesk/clientdesk/internal/app/storage/memory"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users        storage.UserStore
	Sessions     storage.SessionStore
	Clients      storage.ClientStore
	Projects     storage.ProjectStore
	Interactions storage.InteractionStore
	Reminders    storage.ReminderStore
	Dashboard    storage.DashboardStore
}

// Options carries application-level configuration.
type Options struct {
	// JWTSecret signs session tokens. Required.
	JWTSecret []byte
	// SessionTTL bounds both the token and the server-side session.
	// Zero takes the auth service default.
	SessionTTL time.Duration
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Auth         *auth.Service
	Clients      *clients.Service
	Projects     *projects.Service
	Interactions *interactions.Service
	Reminders    *reminders.Service
	Dashboard    *dashboardsvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Sessions == nil {
		stores.Sessions = mem
	}
	if stores.Clients == nil {
		stores.Clients = mem
	}
	if stores.Projects == nil {
		stores.Projects = mem
	}
	if stores.Interactions == nil {
		stores.Interactions = mem
	}
	if stores.Reminders == nil {
		stores.Reminders = mem
	}
	if stores.Dashboard == nil {
		stores.Dashboard = mem
	}

	return &Application{
		log:          log,
		Auth:         auth.New(stores.Users, stores.Sessions, opts.JWTSecret, opts.SessionTTL, log),
		Clients:      clients.New(stores.Clients, log),
		Projects:     projects.New(stores.Clients, stores.Projects, log),
		Interactions: interactions.New(stores.Clients, stores.Projects, stores.Interactions, log),
		Reminders:    reminders.New(stores.Clients, stores.Projects, stores.Reminders, log),
		Dashboard:    dashboardsvc.New(stores.Dashboard, log),
	}
}
