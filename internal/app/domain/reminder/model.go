package reminder

import "time"

// Status enumerates reminder states.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Reminder is a dated follow-up, optionally linked to a client and/or
// project. Upcoming/overdue classification is computed from (DueDate,
// Status, now) at read time and never stored.
type Reminder struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ClientID    *string   `json:"client_id,omitempty" db:"client_id"`
	ProjectID   *string   `json:"project_id,omitempty" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	ClientName  string    `json:"client_name,omitempty" db:"client_name"`
	ProjectName string    `json:"project_name,omitempty" db:"project_name"`
}

// Overdue reports whether the reminder is still pending with a due date in
// the past, relative to now.
func (r Reminder) Overdue(now time.Time) bool {
	return r.Status == StatusPending && r.DueDate.Before(now)
}

// Upcoming reports whether the reminder is pending and due between now and
// the end of the window (inclusive). A zero until means no upper bound.
func (r Reminder) Upcoming(now, until time.Time) bool {
	if r.Status != StatusPending || r.DueDate.Before(now) {
		return false
	}
	if until.IsZero() {
		return true
	}
	return !r.DueDate.After(until)
}
