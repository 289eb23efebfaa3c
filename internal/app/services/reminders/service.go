// Package reminders manages reminder records and their lifecycle status.
package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
	"github.com/clientdesk/clientdesk/internal/app/services/ownership"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// Input carries the reminder fields accepted from callers.
type Input struct {
	ClientID  *string   `json:"client_id"`
	ProjectID *string   `json:"project_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	DueDate   time.Time `json:"due_date"`
	Status    string    `json:"status"`
}

// Service manages reminders.
type Service struct {
	clients  storage.ClientStore
	projects storage.ProjectStore
	store    storage.ReminderStore
	log      *logger.Logger
}

// New constructs a reminder service.
func New(clients storage.ClientStore, projects storage.ProjectStore, store storage.ReminderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("reminders")
	}
	return &Service{clients: clients, projects: projects, store: store, log: log}
}

func normalizeRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := strings.TrimSpace(*ref)
	if v == "" {
		return nil
	}
	return &v
}

func validate(in Input) (reminder.Status, *string, *string, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if in.DueDate.IsZero() {
		fields["due_date"] = "due_date is required"
	}

	status := reminder.Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = reminder.StatusPending
	} else if !status.Valid() {
		fields["status"] = "status must be one of Pending, Completed, Cancelled"
	}

	if len(fields) > 0 {
		return "", nil, nil, apperrors.InvalidFields(fields)
	}
	return status, normalizeRef(in.ClientID), normalizeRef(in.ProjectID), nil
}

func (s *Service) assertRefs(ctx context.Context, userID string, clientID, projectID *string) error {
	if clientID != nil {
		if err := ownership.AssertClient(ctx, s.clients, *clientID, userID); err != nil {
			return err
		}
	}
	if projectID != nil {
		if err := ownership.AssertProject(ctx, s.projects, *projectID, userID); err != nil {
			return err
		}
	}
	return nil
}

// Create validates the payload, verifies any referenced records belong to
// userID and stores the reminder.
func (s *Service) Create(ctx context.Context, userID string, in Input) (reminder.Reminder, error) {
	status, clientID, projectID, err := validate(in)
	if err != nil {
		return reminder.Reminder{}, err
	}
	if err := s.assertRefs(ctx, userID, clientID, projectID); err != nil {
		return reminder.Reminder{}, err
	}

	created, err := s.store.CreateReminder(ctx, reminder.Reminder{
		UserID:    userID,
		ClientID:  clientID,
		ProjectID: projectID,
		Title:     strings.TrimSpace(in.Title),
		Notes:     strings.TrimSpace(in.Notes),
		DueDate:   in.DueDate,
		Status:    status,
	})
	if err != nil {
		return reminder.Reminder{}, apperrors.Storage(err)
	}

	s.log.WithField("reminder_id", created.ID).WithField("user_id", userID).Info("reminder created")
	return created, nil
}

// Update re-verifies ownership of the target row and of any referenced
// records before applying the full payload.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (reminder.Reminder, error) {
	status, clientID, projectID, err := validate(in)
	if err != nil {
		return reminder.Reminder{}, err
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return reminder.Reminder{}, err
	}
	if err := s.assertRefs(ctx, userID, clientID, projectID); err != nil {
		return reminder.Reminder{}, err
	}

	updated, err := s.store.UpdateReminder(ctx, reminder.Reminder{
		ID:        id,
		UserID:    userID,
		ClientID:  clientID,
		ProjectID: projectID,
		Title:     strings.TrimSpace(in.Title),
		Notes:     strings.TrimSpace(in.Notes),
		DueDate:   in.DueDate,
		Status:    status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return reminder.Reminder{}, apperrors.NotFound("reminder")
		}
		return reminder.Reminder{}, apperrors.Storage(err)
	}

	s.log.WithField("reminder_id", id).WithField("user_id", userID).Info("reminder updated")
	return updated, nil
}

// Get fetches one reminder scoped to userID.
func (s *Service) Get(ctx context.Context, userID, id string) (reminder.Reminder, error) {
	r, err := s.store.GetReminder(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return reminder.Reminder{}, apperrors.NotFound("reminder")
		}
		return reminder.Reminder{}, apperrors.Storage(err)
	}
	return r, nil
}

// List returns the caller's reminders under the given filters.
func (s *Service) List(ctx context.Context, userID string, opts storage.ListOptions) ([]reminder.Reminder, error) {
	result, err := s.store.ListReminders(ctx, userID, opts)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return result, nil
}

// Delete removes a reminder with the usual ownership semantics.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteReminder(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("reminder")
		}
		return apperrors.Storage(err)
	}
	s.log.WithField("reminder_id", id).WithField("user_id", userID).Info("reminder deleted")
	return nil
}
