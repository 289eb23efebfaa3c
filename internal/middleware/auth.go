// Package middleware provides the HTTP middleware chain: authentication,
// CORS, rate limiting and request metrics.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clientdesk/clientdesk/internal/app/services/auth"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// TokenCookieName is the cookie carrying the session token for browser
// clients. API clients use the Authorization header instead.
const TokenCookieName = "token"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts the authenticated user id from the context, or "".
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// AuthMiddleware gates every route except the configured skip paths behind
// a verified token and a live server-side session.
type AuthMiddleware struct {
	auth      *auth.Service
	logger    *logger.Logger
	skipPaths map[string]bool
}

// NewAuthMiddleware creates an authentication middleware. Requests to
// skipPaths pass through unauthenticated.
func NewAuthMiddleware(authSvc *auth.Service, log *logger.Logger, skipPaths []string) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("middleware")
	}
	skip := make(map[string]bool)
	for _, path := range skipPaths {
		skip[path] = true
	}
	return &AuthMiddleware{auth: authSvc, logger: log, skipPaths: skip}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token := ExtractToken(r)
		if token == "" {
			m.respondError(w, r, apperrors.Unauthorized("missing credentials"))
			return
		}

		userID, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			m.logger.WithError(err).
				WithField("path", r.URL.Path).
				Warn("authentication failed")
			m.respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// ExtractToken pulls the session token from the Authorization header,
// falling back to the token cookie.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func (m *AuthMiddleware) respondError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := apperrors.GetServiceError(err)
	if svcErr == nil {
		svcErr = apperrors.Unauthorized("")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(struct {
		Error   string                 `json:"error"`
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details,omitempty"`
	}{
		Error:   svcErr.Message,
		Code:    string(svcErr.Code),
		Details: svcErr.Details,
	})
}
