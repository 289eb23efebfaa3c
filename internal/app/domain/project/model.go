package project

import "time"

// Status enumerates the project lifecycle states.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Project is an engagement for a client. The referenced client must belong
// to the same user; stores and services enforce that on create and on any
// update that moves the project to a different client.
type Project struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	ClientID   string     `json:"client_id" db:"client_id"`
	Title      string     `json:"title" db:"title"`
	Budget     float64    `json:"budget" db:"budget"`
	StartDate  *time.Time `json:"start_date,omitempty" db:"start_date"`
	Deadline   *time.Time `json:"deadline,omitempty" db:"deadline"`
	Status     Status     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	ClientName string     `json:"client_name,omitempty" db:"client_name"`
}
