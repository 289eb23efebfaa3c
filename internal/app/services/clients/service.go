// Package clients manages client records: validation, ownership scoping and
// persistence.
package clients

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// Input carries the client fields accepted from callers. The owning user id
// always comes from the authenticated request, never from the payload.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// Service manages client records.
type Service struct {
	store storage.ClientStore
	log   *logger.Logger
}

// New constructs a client service.
func New(store storage.ClientStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("clients")
	}
	return &Service{store: store, log: log}
}

func validate(in Input) error {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			fields["email"] = "email is not valid"
		}
	}
	if len(fields) > 0 {
		return apperrors.InvalidFields(fields)
	}
	return nil
}

// Create validates and stores a new client for userID.
func (s *Service) Create(ctx context.Context, userID string, in Input) (client.Client, error) {
	if err := validate(in); err != nil {
		return client.Client{}, err
	}

	created, err := s.store.CreateClient(ctx, client.Client{
		UserID:  userID,
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Company: strings.TrimSpace(in.Company),
		Notes:   in.Notes,
	})
	if err != nil {
		return client.Client{}, apperrors.Storage(err)
	}

	s.log.WithField("client_id", created.ID).WithField("user_id", userID).Info("client created")
	return created, nil
}

// Update re-verifies ownership of the row and applies the full payload.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (client.Client, error) {
	if err := validate(in); err != nil {
		return client.Client{}, err
	}

	updated, err := s.store.UpdateClient(ctx, client.Client{
		ID:      id,
		UserID:  userID,
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Company: strings.TrimSpace(in.Company),
		Notes:   in.Notes,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return client.Client{}, apperrors.NotFound("client")
		}
		return client.Client{}, apperrors.Storage(err)
	}

	s.log.WithField("client_id", id).WithField("user_id", userID).Info("client updated")
	return updated, nil
}

// Get fetches one client scoped to userID.
func (s *Service) Get(ctx context.Context, userID, id string) (client.Client, error) {
	c, err := s.store.GetClient(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return client.Client{}, apperrors.NotFound("client")
		}
		return client.Client{}, apperrors.Storage(err)
	}
	return c, nil
}

// List returns the caller's clients under the given filters.
func (s *Service) List(ctx context.Context, userID string, opts storage.ListOptions) ([]client.Client, error) {
	result, err := s.store.ListClients(ctx, userID, opts)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return result, nil
}

// Delete removes a client. Absent and already-deleted rows return NotFound
// on every call.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteClient(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("client")
		}
		return apperrors.Storage(err)
	}
	s.log.WithField("client_id", id).WithField("user_id", userID).Info("client deleted")
	return nil
}
