package projects

import (
	"context"
	"testing"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	"github.com/clientdesk/clientdesk/internal/app/storage/memory"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
)

func seedClient(t *testing.T, store *memory.Store, userID, name string) client.Client {
	t.Helper()
	c, err := store.CreateClient(context.Background(), client.Client{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func TestCreateValidation(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", Input{Budget: -10, Status: "Bogus"})
	if !apperrors.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	fields := apperrors.GetServiceError(err).Details["fields"].(map[string]interface{})
	for _, field := range []string{"title", "client_id", "budget", "status"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("expected field error for %s", field)
		}
	}
}

func TestCreateRejectsForeignClient(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)
	ctx := context.Background()

	theirs := seedClient(t, store, "user-b", "Their Client")

	_, err := svc.Create(ctx, "user-a", Input{ClientID: theirs.ID, Title: "Sneaky"})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for foreign client, got %v", err)
	}

	// No row must exist afterwards.
	all, err := svc.List(ctx, "user-a", storage.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no projects created, got %d", len(all))
	}
}

func TestCreateDefaultsAndClientName(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)
	ctx := context.Background()

	mine := seedClient(t, store, "user-a", "Acme")

	created, err := svc.Create(ctx, "user-a", Input{ClientID: mine.ID, Title: "Website", Budget: 1500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != project.StatusPending {
		t.Fatalf("expected default status Pending, got %s", created.Status)
	}
	if created.ClientName != "Acme" {
		t.Fatalf("expected client name embedded, got %q", created.ClientName)
	}
}

func TestUpdateReassignsClientWithOwnershipCheck(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)
	ctx := context.Background()

	first := seedClient(t, store, "user-a", "First")
	second := seedClient(t, store, "user-a", "Second")
	foreign := seedClient(t, store, "user-b", "Foreign")

	created, err := svc.Create(ctx, "user-a", Input{ClientID: first.ID, Title: "Build"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, "user-a", created.ID, Input{ClientID: foreign.ID, Title: "Build"})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found when reassigning to foreign client, got %v", err)
	}

	updated, err := svc.Update(ctx, "user-a", created.ID, Input{ClientID: second.ID, Title: "Build", Status: string(project.StatusInProgress)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ClientID != second.ID || updated.Status != project.StatusInProgress {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestCrossUserAccess(t *testing.T) {
	store := memory.New()
	svc := New(store, store, nil)
	ctx := context.Background()

	mine := seedClient(t, store, "user-a", "Acme")
	created, err := svc.Create(ctx, "user-a", Input{ClientID: mine.ID, Title: "Build"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "user-b", created.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, "user-b", created.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found on foreign delete, got %v", err)
	}
}
