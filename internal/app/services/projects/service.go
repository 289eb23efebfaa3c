// Package projects manages project records. A project's client must belong
// to the same user; the check runs on create and on any update that changes
// the client reference.
package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/services/ownership"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// Input carries the project fields accepted from callers.
type Input struct {
	ClientID  string     `json:"client_id"`
	Title     string     `json:"title"`
	Budget    float64    `json:"budget"`
	StartDate *time.Time `json:"start_date"`
	Deadline  *time.Time `json:"deadline"`
	Status    string     `json:"status"`
}

// Service manages project records.
type Service struct {
	clients storage.ClientStore
	store   storage.ProjectStore
	log     *logger.Logger
}

// New constructs a project service.
func New(clients storage.ClientStore, store storage.ProjectStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("projects")
	}
	return &Service{clients: clients, store: store, log: log}
}

func validate(in Input) (project.Status, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(in.ClientID) == "" {
		fields["client_id"] = "client_id is required"
	}
	if in.Budget < 0 {
		fields["budget"] = "budget must not be negative"
	}

	status := project.Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = project.StatusPending
	} else if !status.Valid() {
		fields["status"] = "status must be one of Pending, In Progress, Completed, Cancelled"
	}

	if len(fields) > 0 {
		return "", apperrors.InvalidFields(fields)
	}
	return status, nil
}

// Create validates the payload, verifies the referenced client belongs to
// userID and stores the project.
func (s *Service) Create(ctx context.Context, userID string, in Input) (project.Project, error) {
	status, err := validate(in)
	if err != nil {
		return project.Project{}, err
	}
	if err := ownership.AssertClient(ctx, s.clients, in.ClientID, userID); err != nil {
		return project.Project{}, err
	}

	created, err := s.store.CreateProject(ctx, project.Project{
		UserID:    userID,
		ClientID:  in.ClientID,
		Title:     strings.TrimSpace(in.Title),
		Budget:    in.Budget,
		StartDate: in.StartDate,
		Deadline:  in.Deadline,
		Status:    status,
	})
	if err != nil {
		return project.Project{}, apperrors.Storage(err)
	}

	s.log.WithField("project_id", created.ID).
		WithField("client_id", created.ClientID).
		WithField("user_id", userID).
		Info("project created")
	return created, nil
}

// Update re-verifies ownership of the target row and of the referenced
// client before applying the full payload.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (project.Project, error) {
	status, err := validate(in)
	if err != nil {
		return project.Project{}, err
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return project.Project{}, err
	}
	if err := ownership.AssertClient(ctx, s.clients, in.ClientID, userID); err != nil {
		return project.Project{}, err
	}

	updated, err := s.store.UpdateProject(ctx, project.Project{
		ID:        id,
		UserID:    userID,
		ClientID:  in.ClientID,
		Title:     strings.TrimSpace(in.Title),
		Budget:    in.Budget,
		StartDate: in.StartDate,
		Deadline:  in.Deadline,
		Status:    status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return project.Project{}, apperrors.NotFound("project")
		}
		return project.Project{}, apperrors.Storage(err)
	}

	s.log.WithField("project_id", id).WithField("user_id", userID).Info("project updated")
	return updated, nil
}

// Get fetches one project scoped to userID.
func (s *Service) Get(ctx context.Context, userID, id string) (project.Project, error) {
	p, err := s.store.GetProject(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return project.Project{}, apperrors.NotFound("project")
		}
		return project.Project{}, apperrors.Storage(err)
	}
	return p, nil
}

// List returns the caller's projects under the given filters.
func (s *Service) List(ctx context.Context, userID string, opts storage.ListOptions) ([]project.Project, error) {
	result, err := s.store.ListProjects(ctx, userID, opts)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return result, nil
}

// Delete removes a project with the usual ownership semantics.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteProject(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("project")
		}
		return apperrors.Storage(err)
	}
	s.log.WithField("project_id", id).WithField("user_id", userID).Info("project deleted")
	return nil
}
