package httpapi

import (
	"net/http"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/user"
	"github.com/clientdesk/clientdesk/internal/app/metrics"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/middleware"
)

// authResponse pairs the account with its freshly issued token. The token
// is also set as a cookie so browser clients need no header handling.
type authResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

func (h *handler) signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	u, token, err := h.app.Auth.Signup(r.Context(), payload.Email, payload.Name, payload.Password)
	metrics.RecordAuthAttempt("signup", err == nil)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{User: u, Token: token})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	u, token, err := h.app.Auth.Login(r.Context(), payload.Email, payload.Password)
	metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{User: u, Token: token})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token != "" {
		if err := h.app.Auth.Logout(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperrors.Unauthorized(""))
		return
	}
	u, err := h.app.Auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.app.Auth.SessionTTL()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
