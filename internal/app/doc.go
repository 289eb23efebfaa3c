// Package app provides the application composition layer.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct and service wiring
//	├── domain/             # Domain models (pure data structures)
//	│   ├── user/           # Users and sessions
//	│   ├── client/         # Client records
//	│   ├── project/        # Projects
//	│   ├── interaction/    # Interaction logs
//	│   ├── reminder/       # Reminders
//	│   └── dashboard/      # Dashboard aggregates
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # Store interfaces
//	│   ├── memory/         # In-memory implementation for testing
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business logic services
//	├── httpapi/            # HTTP API handlers and routing
//	├── migrations/         # Embedded schema migrations
//	└── metrics/            # Application metrics
//
// The app package composes services with their storage dependencies and
// exposes them to the HTTP layer. Business rules live in the per-domain
// services; the handlers only translate between HTTP and service calls.
//
// Every service operation below the auth gate takes the owning user id and
// scopes all reads and writes to it. A record owned by another user is
// reported as not found, never as forbidden.
package app
