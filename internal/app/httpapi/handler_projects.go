package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/clientdesk/clientdesk/internal/app/services/projects"
)

type projectPayload struct {
	ClientID  string  `json:"client_id"`
	Title     string  `json:"title"`
	Budget    float64 `json:"budget"`
	StartDate string  `json:"start_date"`
	Deadline  string  `json:"deadline"`
	Status    string  `json:"status"`
}

func (p projectPayload) toInput() (projects.Input, error) {
	parse := func(raw string) (*time.Time, error) {
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		t, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	start, err := parse(p.StartDate)
	if err != nil {
		return projects.Input{}, err
	}
	deadline, err := parse(p.Deadline)
	if err != nil {
		return projects.Input{}, err
	}
	return projects.Input{
		ClientID:  p.ClientID,
		Title:     p.Title,
		Budget:    p.Budget,
		StartDate: start,
		Deadline:  deadline,
		Status:    p.Status,
	}, nil
}

func (h *handler) createProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload projectPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := payload.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := h.app.Projects.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	opts, err := parseListOptions(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	result, err := h.app.Projects.List(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, err := h.app.Projects.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) updateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload projectPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := payload.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := h.app.Projects.Update(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.app.Projects.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "project deleted"})
}
