package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/clientdesk/clientdesk/internal/app/services/interactions"
)

type interactionPayload struct {
	ClientID  *string `json:"client_id"`
	ProjectID *string `json:"project_id"`
	Type      string  `json:"type"`
	Notes     string  `json:"notes"`
	Date      string  `json:"date"`
}

func (p interactionPayload) toInput() (interactions.Input, error) {
	var date time.Time
	if strings.TrimSpace(p.Date) != "" {
		parsed, err := parseDate(p.Date)
		if err != nil {
			return interactions.Input{}, err
		}
		date = parsed
	}
	return interactions.Input{
		ClientID:  p.ClientID,
		ProjectID: p.ProjectID,
		Type:      p.Type,
		Notes:     p.Notes,
		Date:      date,
	}, nil
}

func (h *handler) createInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload interactionPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := payload.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := h.app.Interactions.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listInteractions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	opts, err := parseListOptions(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	result, err := h.app.Interactions.List(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	l, err := h.app.Interactions.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *handler) updateInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload interactionPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := payload.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := h.app.Interactions.Update(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.app.Interactions.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "interaction deleted"})
}
