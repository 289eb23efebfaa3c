package interaction

import "time"

// Type enumerates the interaction taxonomy. The set is fixed; there is no
// state machine over it.
type Type string

const (
	TypeCall    Type = "call"
	TypeMeeting Type = "meeting"
	TypeEmail   Type = "email"
	TypeNote    Type = "note"
)

// Valid reports whether t is a known interaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeCall, TypeMeeting, TypeEmail, TypeNote:
		return true
	}
	return false
}

// Log records a dated touchpoint with a client and/or project. At least one
// of ClientID/ProjectID is required at creation.
type Log struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ClientID    *string   `json:"client_id,omitempty" db:"client_id"`
	ProjectID   *string   `json:"project_id,omitempty" db:"project_id"`
	Type        Type      `json:"type" db:"type"`
	Notes       string    `json:"notes" db:"notes"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	ClientName  string    `json:"client_name,omitempty" db:"client_name"`
	ProjectName string    `json:"project_name,omitempty" db:"project_name"`
}
