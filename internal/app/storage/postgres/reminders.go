package postgres

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
	"github.com/clientdesk/clientdesk/internal/app/storage"
)

func (s *Store) CreateReminder(ctx context.Context, r reminder.Reminder) (reminder.Reminder, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, user_id, client_id, project_id, title, notes, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.UserID, r.ClientID, r.ProjectID, r.Title, r.Notes, r.DueDate, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return reminder.Reminder{}, err
	}
	return s.GetReminder(ctx, r.ID, r.UserID)
}

func (s *Store) UpdateReminder(ctx context.Context, r reminder.Reminder) (reminder.Reminder, error) {
	existing, err := s.GetReminder(ctx, r.ID, r.UserID)
	if err != nil {
		return reminder.Reminder{}, err
	}
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET client_id = $3, project_id = $4, title = $5, notes = $6, due_date = $7, status = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
	`, r.ID, r.UserID, r.ClientID, r.ProjectID, r.Title, r.Notes, r.DueDate, r.Status, r.UpdatedAt)
	if err != nil {
		return reminder.Reminder{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return reminder.Reminder{}, storage.ErrNotFound
	}
	return s.GetReminder(ctx, r.ID, r.UserID)
}

func (s *Store) GetReminder(ctx context.Context, id, userID string) (reminder.Reminder, error) {
	var r reminder.Reminder
	err := s.db.GetContext(ctx, &r, `
		SELECT r.id, r.user_id, r.client_id, r.project_id, r.title, r.notes, r.due_date,
		       r.status, r.created_at, r.updated_at,
		       COALESCE(c.name, '') AS client_name,
		       COALESCE(p.title, '') AS project_name
		FROM reminders r
		LEFT JOIN clients c ON c.id = r.client_id
		LEFT JOIN projects p ON p.id = r.project_id
		WHERE r.id = $1 AND r.user_id = $2
	`, id, userID)
	if err != nil {
		return reminder.Reminder{}, notFound(err)
	}
	return r, nil
}

func (s *Store) ListReminders(ctx context.Context, userID string, opts storage.ListOptions) ([]reminder.Reminder, error) {
	column, direction := storage.ResolveSort(storage.ReminderSortFields, opts.SortField, opts.SortOrder, "due_date")

	builder := psql.
		Select(
			"r.id", "r.user_id", "r.client_id", "r.project_id", "r.title", "r.notes", "r.due_date",
			"r.status", "r.created_at", "r.updated_at",
			"COALESCE(c.name, '') AS client_name",
			"COALESCE(p.title, '') AS project_name",
		).
		From("reminders r").
		LeftJoin("clients c ON c.id = r.client_id").
		LeftJoin("projects p ON p.id = r.project_id").
		Where(sq.Eq{"r.user_id": userID}).
		OrderBy("r." + column + " " + direction)

	if strings.TrimSpace(opts.Search) != "" {
		builder = builder.Where(searchClause(opts.Search, "r.title", "r.notes", "c.name", "p.title"))
	}
	builder = dateRange(builder, "r.due_date", opts.StartDate, opts.EndDate)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var result []reminder.Reminder
	if err := s.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) DeleteReminder(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM reminders WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
