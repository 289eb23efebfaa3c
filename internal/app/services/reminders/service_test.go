package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
	"github.com/clientdesk/clientdesk/internal/app/storage/memory"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
)

func TestCreateValidation(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", Input{Status: "Snoozed"})
	if !apperrors.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	fields := apperrors.GetServiceError(err).Details["fields"].(map[string]interface{})
	for _, field := range []string{"title", "due_date", "status"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("expected field error for %s", field)
		}
	}
}

func TestCreateDefaultsStatus(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", Input{
		Title:   "Send invoice",
		DueDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != reminder.StatusPending {
		t.Fatalf("expected default status Pending, got %s", created.Status)
	}
	if created.ClientID != nil || created.ProjectID != nil {
		t.Fatalf("expected unlinked reminder, got %+v", created)
	}
}

func TestLinkOwnership(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil)
	ctx := context.Background()

	foreign, err := store.CreateClient(ctx, client.Client{UserID: "user-b", Name: "Foreign"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}

	_, err = svc.Create(ctx, "user-a", Input{
		Title:    "Follow up",
		DueDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		ClientID: &foreign.ID,
	})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for foreign client link, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "user-a", Input{Title: "Call back", DueDate: due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, "user-a", created.ID, Input{
		Title:   "Call back",
		DueDate: due,
		Status:  string(reminder.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != reminder.StatusCompleted {
		t.Fatalf("expected Completed, got %s", updated.Status)
	}

	if updated.Overdue(due.Add(time.Hour)) {
		t.Fatal("completed reminder must not classify as overdue")
	}
}

func TestCrossUserAccess(t *testing.T) {
	store := memory.New()
	svc := New(store, store, store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", Input{
		Title:   "Renew contract",
		DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
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
