// Package postgres implements the storage interfaces backed by PostgreSQL.
// List queries are assembled with squirrel so search, date-range and sort
// filters compose without string interpolation of client input.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/user"
	"github.com/clientdesk/clientdesk/internal/app/storage"
)

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store implements every storage interface on a shared sqlx handle.
type Store struct {
	db *sqlx.DB
}

var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.SessionStore     = (*Store)(nil)
	_ storage.ClientStore      = (*Store)(nil)
	_ storage.ProjectStore     = (*Store)(nil)
	_ storage.InteractionStore = (*Store)(nil)
	_ storage.ReminderStore    = (*Store)(nil)
	_ storage.DashboardStore   = (*Store)(nil)
)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// notFound maps sql.ErrNoRows onto the storage sentinel so callers never
// see driver-level errors for missing rows.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// dateRange appends BETWEEN-style bounds on column when the options carry
// them.
func dateRange(b sq.SelectBuilder, column string, start, end *time.Time) sq.SelectBuilder {
	if start != nil {
		b = b.Where(sq.GtOrEq{column: *start})
	}
	if end != nil {
		b = b.Where(sq.LtOrEq{column: *end})
	}
	return b
}

// searchClause builds a case-insensitive substring match over columns.
func searchClause(search string, columns ...string) sq.Sqlizer {
	pattern := "%" + strings.TrimSpace(search) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.ILike{col: pattern})
	}
	return or
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return user.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	if err != nil {
		return user.User{}, notFound(err)
	}
	return u, nil
}

// --- SessionStore -----------------------------------------------------------

func (s *Store) CreateSession(ctx context.Context, sess user.Session) (user.Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sess.ID, sess.UserID, sess.TokenHash, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return user.Session{}, err
	}
	return sess, nil
}

func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (user.Session, error) {
	var sess user.Session
	err := s.db.GetContext(ctx, &sess, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return user.Session{}, notFound(err)
	}
	return sess, nil
}

func (s *Store) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- ClientStore ------------------------------------------------------------

func (s *Store) CreateClient(ctx context.Context, c client.Client) (client.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, user_id, name, email, phone, company, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Company, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return client.Client{}, err
	}
	return c, nil
}

func (s *Store) UpdateClient(ctx context.Context, c client.Client) (client.Client, error) {
	existing, err := s.GetClient(ctx, c.ID, c.UserID)
	if err != nil {
		return client.Client{}, err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, company = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Company, c.Notes, c.UpdatedAt)
	if err != nil {
		return client.Client{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return client.Client{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetClient(ctx context.Context, id, userID string) (client.Client, error) {
	var c client.Client
	err := s.db.GetContext(ctx, &c, `
		SELECT id, user_id, name, email, phone, company, notes, created_at, updated_at
		FROM clients
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return client.Client{}, notFound(err)
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context, userID string, opts storage.ListOptions) ([]client.Client, error) {
	column, direction := storage.ResolveSort(storage.ClientSortFields, opts.SortField, opts.SortOrder, "created_at")

	builder := psql.
		Select("id", "user_id", "name", "email", "phone", "company", "notes", "created_at", "updated_at").
		From("clients").
		Where(sq.Eq{"user_id": userID}).
		OrderBy(column + " " + direction)

	if strings.TrimSpace(opts.Search) != "" {
		builder = builder.Where(searchClause(opts.Search, "name", "email", "company"))
	}
	builder = dateRange(builder, "created_at", opts.StartDate, opts.EndDate)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var result []client.Client
	if err := s.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) DeleteClient(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM clients WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
