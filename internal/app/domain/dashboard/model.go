package dashboard

import (
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/interaction"
	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
)

// Filter bounds every dashboard sub-query. The date range binds to each
// entity's designated date field: created_at for clients and projects, date
// for interactions, due_date for reminder due-date views.
type Filter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
}

// StatusCount is a count grouped by a categorical field value.
type StatusCount struct {
	Key   string `json:"key" db:"key"`
	Count int64  `json:"count" db:"count"`
}

// ClientRollup ranks a client by aggregated project figures.
type ClientRollup struct {
	ClientID     string  `json:"client_id" db:"client_id"`
	ClientName   string  `json:"client_name" db:"client_name"`
	TotalBudget  float64 `json:"total_budget" db:"total_budget"`
	ProjectCount int64   `json:"project_count" db:"project_count"`
}

// Totals holds the per-entity row counts under the filter.
type Totals struct {
	Clients      int64 `json:"clients"`
	Projects     int64 `json:"projects"`
	Interactions int64 `json:"interactions"`
	Reminders    int64 `json:"reminders"`
}

// ReminderBuckets partitions reminders by due-date classification at a
// single sampled "now".
type ReminderBuckets struct {
	Upcoming []reminder.Reminder `json:"upcoming"`
	Pending  []reminder.Reminder `json:"pending"`
	Overdue  []reminder.Reminder `json:"overdue"`
}

// Summary is the composed dashboard payload. It is assembled from
// independent read-only sub-queries; a failure of any sub-query fails the
// whole summary rather than returning partial data.
type Summary struct {
	Totals             Totals            `json:"totals"`
	ProjectsByStatus   []StatusCount     `json:"projects_by_status"`
	InteractionsByType []StatusCount     `json:"interactions_by_type"`
	TopClientsByBudget []ClientRollup    `json:"top_clients_by_budget"`
	TopClientsByCount  []ClientRollup    `json:"top_clients_by_project_count"`
	RecentClients      []client.Client   `json:"recent_clients"`
	RecentProjects     []project.Project `json:"recent_projects"`
	RecentInteractions []interaction.Log `json:"recent_interactions"`
	Reminders          ReminderBuckets   `json:"reminders"`
	GeneratedAt        time.Time         `json:"generated_at"`
}
