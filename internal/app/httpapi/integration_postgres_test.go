//go:build integration && postgres

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	app "github.com/clientdesk/clientdesk/internal/app"
	"github.com/clientdesk/clientdesk/internal/app/migrations"
	"github.com/clientdesk/clientdesk/internal/app/storage/postgres"
)

// Exercises migrations plus the core flows against a real Postgres.
func TestIntegrationPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping Postgres integration")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(db.DB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	pg := postgres.New(db)
	application := app.New(app.Stores{
		Users:        pg,
		Sessions:     pg,
		Clients:      pg,
		Projects:     pg,
		Interactions: pg,
		Reminders:    pg,
		Dashboard:    pg,
	}, app.Options{JWTSecret: []byte("integration-secret")}, nil)
	handler := NewRouter(application, Options{}, nil)

	// Unique address per run; user rows are not cleaned up.
	email := fmt.Sprintf("pg-%d@example.com", time.Now().UnixNano())
	token := signup(t, handler, email, "Integration")

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]string{
		"name":  "Persisted Client",
		"email": "persisted@example.com",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create client: %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/clients/"+created.ID, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get persisted client: %d", resp.Code)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/dashboard", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("dashboard over postgres: %d: %s", resp.Code, resp.Body.String())
	}

	// Leave no rows behind for repeat runs.
	resp = doJSON(t, handler, http.MethodDelete, "/api/v1/clients/"+created.ID, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("cleanup delete: %d", resp.Code)
	}
}
