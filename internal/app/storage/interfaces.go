// Package storage defines the persistence contracts for the CRM entities.
// Every read and write is parameterized by the owning user id; ownership is
// part of the lookup predicate, so a row owned by another user is
// indistinguishable from an absent row.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/dashboard"
	"github.com/clientdesk/clientdesk/internal/app/domain/interaction"
	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
	"github.com/clientdesk/clientdesk/internal/app/domain/user"
)

// ErrNotFound is returned for absent rows and rows owned by a different
// user. Implementations must not distinguish the two cases.
var ErrNotFound = errors.New("storage: not found")

// ListOptions filters and orders a scoped list query. Search is a
// case-insensitive substring match over a small per-entity field set; the
// date range binds to the entity's designated date column.
type ListOptions struct {
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	SortField string
	SortOrder string
}

// Sort allow-lists per entity: query-string field name to column. Unknown
// fields fall back to the default instead of reaching the query builder.
var (
	ClientSortFields = map[string]string{
		"name":       "name",
		"email":      "email",
		"company":    "company",
		"created_at": "created_at",
	}
	ProjectSortFields = map[string]string{
		"title":      "title",
		"budget":     "budget",
		"deadline":   "deadline",
		"status":     "status",
		"created_at": "created_at",
	}
	InteractionSortFields = map[string]string{
		"date":       "date",
		"type":       "type",
		"created_at": "created_at",
	}
	ReminderSortFields = map[string]string{
		"title":      "title",
		"due_date":   "due_date",
		"status":     "status",
		"created_at": "created_at",
	}
)

// ResolveSort maps the requested sort onto the allow-list, falling back to
// fallback when the field is unknown. The returned direction is always
// "ASC" or "DESC".
func ResolveSort(allowed map[string]string, field, order, fallback string) (string, string) {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		direction = "DESC"
	}
	return column, direction
}

// UserStore persists user identities.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// SessionStore persists server-side session records keyed by token hash.
type SessionStore interface {
	CreateSession(ctx context.Context, s user.Session) (user.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (user.Session, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
}

// ClientStore persists client records.
type ClientStore interface {
	CreateClient(ctx context.Context, c client.Client) (client.Client, error)
	UpdateClient(ctx context.Context, c client.Client) (client.Client, error)
	GetClient(ctx context.Context, id, userID string) (client.Client, error)
	ListClients(ctx context.Context, userID string, opts ListOptions) ([]client.Client, error)
	DeleteClient(ctx context.Context, id, userID string) error
}

// ProjectStore persists project records.
type ProjectStore interface {
	CreateProject(ctx context.Context, p project.Project) (project.Project, error)
	UpdateProject(ctx context.Context, p project.Project) (project.Project, error)
	GetProject(ctx context.Context, id, userID string) (project.Project, error)
	ListProjects(ctx context.Context, userID string, opts ListOptions) ([]project.Project, error)
	DeleteProject(ctx context.Context, id, userID string) error
}

// InteractionStore persists interaction logs.
type InteractionStore interface {
	CreateInteraction(ctx context.Context, l interaction.Log) (interaction.Log, error)
	UpdateInteraction(ctx context.Context, l interaction.Log) (interaction.Log, error)
	GetInteraction(ctx context.Context, id, userID string) (interaction.Log, error)
	ListInteractions(ctx context.Context, userID string, opts ListOptions) ([]interaction.Log, error)
	DeleteInteraction(ctx context.Context, id, userID string) error
}

// ReminderStore persists reminders.
type ReminderStore interface {
	CreateReminder(ctx context.Context, r reminder.Reminder) (reminder.Reminder, error)
	UpdateReminder(ctx context.Context, r reminder.Reminder) (reminder.Reminder, error)
	GetReminder(ctx context.Context, id, userID string) (reminder.Reminder, error)
	ListReminders(ctx context.Context, userID string, opts ListOptions) ([]reminder.Reminder, error)
	DeleteReminder(ctx context.Context, id, userID string) error
}

// DashboardStore exposes the scoped read-only aggregates composed by the
// dashboard service. All queries are independent and may run concurrently.
type DashboardStore interface {
	CountClients(ctx context.Context, f dashboard.Filter) (int64, error)
	CountProjects(ctx context.Context, f dashboard.Filter) (int64, error)
	CountInteractions(ctx context.Context, f dashboard.Filter) (int64, error)
	CountReminders(ctx context.Context, f dashboard.Filter) (int64, error)

	ProjectsByStatus(ctx context.Context, f dashboard.Filter) ([]dashboard.StatusCount, error)
	InteractionsByType(ctx context.Context, f dashboard.Filter) ([]dashboard.StatusCount, error)

	TopClientsByBudget(ctx context.Context, f dashboard.Filter, limit int) ([]dashboard.ClientRollup, error)
	TopClientsByProjectCount(ctx context.Context, f dashboard.Filter, limit int) ([]dashboard.ClientRollup, error)

	RecentClients(ctx context.Context, f dashboard.Filter, limit int) ([]client.Client, error)
	RecentProjects(ctx context.Context, f dashboard.Filter, limit int) ([]project.Project, error)
	RecentInteractions(ctx context.Context, f dashboard.Filter, limit int) ([]interaction.Log, error)

	PendingReminders(ctx context.Context, f dashboard.Filter) ([]reminder.Reminder, error)
}
