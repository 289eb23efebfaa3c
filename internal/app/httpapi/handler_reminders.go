package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/clientdesk/clientdesk/internal/app/services/reminders"
)

type reminderPayload struct {
	ClientID  *string `json:"client_id"`
	ProjectID *string `json:"project_id"`
	Title     string  `json:"title"`
	Notes     string  `json:"notes"`
	DueDate   string  `json:"due_date"`
	Status    string  `json:"status"`
}

func (p reminderPayload) toInput() (reminders.Input, error) {
	var due time.Time
	if strings.TrimSpace(p.DueDate) != "" {
		parsed, err := parseDate(p.DueDate)
		if err != nil {
			return reminders.Input{}, err
		}
		due = parsed
	}
	return reminders.Input{
		ClientID:  p.ClientID,
		ProjectID: p.ProjectID,
		Title:     p.Title,
		Notes:     p.Notes,
		DueDate:   due,
		Status:    p.Status,
	}, nil
}

func (h *handler) createReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload reminderPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := payload.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := h.app.Reminders.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	opts, err := parseListOptions(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	result, err := h.app.Reminders.List(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rem, err := h.app.Reminders.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

func (h *handler) updateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload reminderPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := payload.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := h.app.Reminders.Update(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.app.Reminders.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reminder deleted"})
}
