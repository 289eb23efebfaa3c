// Package ownership provides the single assert-owned-or-NotFound primitive
// used by every service that references another user's-scoped entity.
// Centralizing the check keeps the "foreign row looks absent" rule from
// drifting between entity families.
package ownership

import (
	"context"
	"errors"

	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
)

// AssertClient fails with NotFound unless clientID exists and belongs to
// userID. Storage failures map to StorageError.
func AssertClient(ctx context.Context, clients storage.ClientStore, clientID, userID string) error {
	if _, err := clients.GetClient(ctx, clientID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("client")
		}
		return apperrors.Storage(err)
	}
	return nil
}

// AssertProject fails with NotFound unless projectID exists and belongs to
// userID.
func AssertProject(ctx context.Context, projects storage.ProjectStore, projectID, userID string) error {
	if _, err := projects.GetProject(ctx, projectID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("project")
		}
		return apperrors.Storage(err)
	}
	return nil
}
