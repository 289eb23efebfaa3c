// Package auth issues and verifies session tokens and manages the user
// accounts they are bound to.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clientdesk/clientdesk/internal/app/domain/user"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

// DefaultSessionTTL is the single session lifetime: the JWT expiry and the
// cookie MaxAge both use it.
const DefaultSessionTTL = 24 * time.Hour

const issuer = "clientdesk"

// Service implements authentication: credential checks, token issue/verify
// and server-side session records. Logout deletes the session row, so a
// logged-out token is rejected before its JWT expiry.
type Service struct {
	users    storage.UserStore
	sessions storage.SessionStore
	secret   []byte
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// New constructs an auth service. A zero ttl falls back to
// DefaultSessionTTL.
func New(users storage.UserStore, sessions storage.SessionStore, secret []byte, ttl time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   secret,
		ttl:      ttl,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SessionTTL returns the configured session lifetime.
func (s *Service) SessionTTL() time.Duration { return s.ttl }

// HashToken returns the hex SHA-256 of a token. Sessions store the hash,
// never the token itself.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Issue produces a signed, time-bounded token with userID as its subject.
func (s *Service) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", apperrors.InvalidInput("user id is required")
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry and returns the subject claim.
// Expired tokens fail with a reason distinguishable (internally) from
// malformed ones; both map to the same HTTP status.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ExpiredToken(err)
		}
		return "", apperrors.InvalidToken(err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", apperrors.InvalidToken(nil)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", apperrors.InvalidToken(errors.New("missing subject claim"))
	}
	return claims.Subject, nil
}

// Authenticate resolves a token to a user id: signature and expiry via
// Verify, then a live server-side session. Used by the request gate for
// every protected route.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (string, error) {
	userID, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}

	sess, err := s.sessions.GetSessionByTokenHash(ctx, HashToken(tokenString))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.Unauthorized("session not found")
		}
		return "", apperrors.Storage(err)
	}
	if sess.ExpiresAt.Before(s.now()) {
		return "", apperrors.Unauthorized("session expired")
	}
	return userID, nil
}

// Signup registers a user and opens a session.
func (s *Service) Signup(ctx context.Context, email, name, password string) (user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email is not valid"
	}
	if name == "" {
		fields["name"] = "name is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return user.User{}, "", apperrors.InvalidFields(fields)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return user.User{}, "", apperrors.InvalidFields(map[string]string{"email": "email is already registered"})
	} else if !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, "", apperrors.Storage(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", apperrors.Storage(err)
	}

	created, err := s.users.CreateUser(ctx, user.User{Email: email, Name: name, PasswordHash: string(hash)})
	if err != nil {
		return user.User{}, "", apperrors.Storage(err)
	}

	token, err := s.openSession(ctx, created.ID)
	if err != nil {
		return user.User{}, "", err
	}

	s.log.WithField("user_id", created.ID).Info("user registered")
	return created, token, nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password produce the same failure.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, "", apperrors.Unauthorized("invalid credentials")
		}
		return user.User{}, "", apperrors.Storage(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, "", apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.openSession(ctx, u.ID)
	if err != nil {
		return user.User{}, "", err
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return u, token, nil
}

// Logout deletes the server-side session. A token that was never issued or
// is already logged out is not an error.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	if strings.TrimSpace(tokenString) == "" {
		return nil
	}
	err := s.sessions.DeleteSessionByTokenHash(ctx, HashToken(tokenString))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return apperrors.Storage(err)
	}
	return nil
}

// Me returns the identity for a resolved user id.
func (s *Service) Me(ctx context.Context, userID string) (user.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.NotFound("user")
		}
		return user.User{}, apperrors.Storage(err)
	}
	return u, nil
}

func (s *Service) openSession(ctx context.Context, userID string) (string, error) {
	token, err := s.Issue(userID)
	if err != nil {
		return "", apperrors.Storage(err)
	}
	_, err = s.sessions.CreateSession(ctx, user.Session{
		UserID:    userID,
		TokenHash: HashToken(token),
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		return "", apperrors.Storage(err)
	}
	return token, nil
}
