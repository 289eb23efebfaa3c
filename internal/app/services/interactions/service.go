// Package interactions manages interaction logs. A log may attach to a
// client, a project, or both, and each referenced record must belong to the
// same user.
package interactions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/interaction"
	"github.com/clientdesk/clientdesk/internal/app/services/ownership"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// Input carries the interaction fields accepted from callers. A zero Date
// defaults to the current time.
type Input struct {
	ClientID  *string   `json:"client_id"`
	ProjectID *string   `json:"project_id"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes"`
	Date      time.Time `json:"date"`
}

// Service manages interaction logs.
type Service struct {
	clients  storage.ClientStore
	projects storage.ProjectStore
	store    storage.InteractionStore
	log      *logger.Logger
	now      func() time.Time
}

// New constructs an interaction service.
func New(clients storage.ClientStore, projects storage.ProjectStore, store storage.InteractionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("interactions")
	}
	return &Service{clients: clients, projects: projects, store: store, log: log, now: time.Now}
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

func validate(in Input) (interaction.Type, *string, *string, error) {
	fields := make(map[string]string)

	typ := interaction.Type(strings.ToLower(strings.TrimSpace(in.Type)))
	if !typ.Valid() {
		fields["type"] = "type must be one of call, meeting, email, note"
	}

	clientID := normalizeRef(in.ClientID)
	projectID := normalizeRef(in.ProjectID)
	if clientID == nil && projectID == nil {
		fields["client_id"] = "an interaction must reference a client or a project"
	}

	if len(fields) > 0 {
		return "", nil, nil, apperrors.InvalidFields(fields)
	}
	return typ, clientID, projectID, nil
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

// Create validates the payload, verifies referenced records belong to
// userID and stores the log.
func (s *Service) Create(ctx context.Context, userID string, in Input) (interaction.Log, error) {
	typ, clientID, projectID, err := validate(in)
	if err != nil {
		return interaction.Log{}, err
	}
	if err := s.assertRefs(ctx, userID, clientID, projectID); err != nil {
		return interaction.Log{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	created, err := s.store.CreateInteraction(ctx, interaction.Log{
		UserID:    userID,
		ClientID:  clientID,
		ProjectID: projectID,
		Type:      typ,
		Notes:     strings.TrimSpace(in.Notes),
		Date:      date,
	})
	if err != nil {
		return interaction.Log{}, apperrors.Storage(err)
	}

	s.log.WithField("interaction_id", created.ID).
		WithField("type", string(typ)).
		WithField("user_id", userID).
		Info("interaction logged")
	return created, nil
}

// Update re-verifies ownership of the target row and of any referenced
// records before applying the full payload.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (interaction.Log, error) {
	typ, clientID, projectID, err := validate(in)
	if err != nil {
		return interaction.Log{}, err
	}
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return interaction.Log{}, err
	}
	if err := s.assertRefs(ctx, userID, clientID, projectID); err != nil {
		return interaction.Log{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = existing.Date
	}

	updated, err := s.store.UpdateInteraction(ctx, interaction.Log{
		ID:        id,
		UserID:    userID,
		ClientID:  clientID,
		ProjectID: projectID,
		Type:      typ,
		Notes:     strings.TrimSpace(in.Notes),
		Date:      date,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return interaction.Log{}, apperrors.NotFound("interaction")
		}
		return interaction.Log{}, apperrors.Storage(err)
	}

	s.log.WithField("interaction_id", id).WithField("user_id", userID).Info("interaction updated")
	return updated, nil
}

// Get fetches one interaction log scoped to userID.
func (s *Service) Get(ctx context.Context, userID, id string) (interaction.Log, error) {
	l, err := s.store.GetInteraction(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return interaction.Log{}, apperrors.NotFound("interaction")
		}
		return interaction.Log{}, apperrors.Storage(err)
	}
	return l, nil
}

// List returns the caller's interaction logs under the given filters.
func (s *Service) List(ctx context.Context, userID string, opts storage.ListOptions) ([]interaction.Log, error) {
	result, err := s.store.ListInteractions(ctx, userID, opts)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return result, nil
}

// Delete removes an interaction log with the usual ownership semantics.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteInteraction(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("interaction")
		}
		return apperrors.Storage(err)
	}
	s.log.WithField("interaction_id", id).WithField("user_id", userID).Info("interaction deleted")
	return nil
}
