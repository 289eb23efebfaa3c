package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clientdesk/clientdesk/internal/app/services/clients"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/middleware"
)

// requireUser returns the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperrors.Unauthorized(""))
		return "", false
	}
	return userID, true
}

func (h *handler) createClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload clients.Input
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := h.app.Clients.Create(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listClients(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	opts, err := parseListOptions(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	result, err := h.app.Clients.List(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	c, err := h.app.Clients.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) updateClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload clients.Input
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := h.app.Clients.Update(r.Context(), userID, mux.Vars(r)["id"], payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.app.Clients.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "client deleted"})
}
