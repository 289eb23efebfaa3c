package postgres

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clientdesk/clientdesk/internal/app/domain/interaction"
	"github.com/clientdesk/clientdesk/internal/app/storage"
)

func (s *Store) CreateInteraction(ctx context.Context, l interaction.Log) (interaction.Log, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interaction_logs (id, user_id, client_id, project_id, type, notes, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, l.ID, l.UserID, l.ClientID, l.ProjectID, l.Type, l.Notes, l.Date, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return interaction.Log{}, err
	}
	return s.GetInteraction(ctx, l.ID, l.UserID)
}

func (s *Store) UpdateInteraction(ctx context.Context, l interaction.Log) (interaction.Log, error) {
	existing, err := s.GetInteraction(ctx, l.ID, l.UserID)
	if err != nil {
		return interaction.Log{}, err
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE interaction_logs
		SET client_id = $3, project_id = $4, type = $5, notes = $6, date = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`, l.ID, l.UserID, l.ClientID, l.ProjectID, l.Type, l.Notes, l.Date, l.UpdatedAt)
	if err != nil {
		return interaction.Log{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return interaction.Log{}, storage.ErrNotFound
	}
	return s.GetInteraction(ctx, l.ID, l.UserID)
}

func (s *Store) GetInteraction(ctx context.Context, id, userID string) (interaction.Log, error) {
	var l interaction.Log
	err := s.db.GetContext(ctx, &l, `
		SELECT i.id, i.user_id, i.client_id, i.project_id, i.type, i.notes, i.date,
		       i.created_at, i.updated_at,
		       COALESCE(c.name, '') AS client_name,
		       COALESCE(p.title, '') AS project_name
		FROM interaction_logs i
		LEFT JOIN clients c ON c.id = i.client_id
		LEFT JOIN projects p ON p.id = i.project_id
		WHERE i.id = $1 AND i.user_id = $2
	`, id, userID)
	if err != nil {
		return interaction.Log{}, notFound(err)
	}
	return l, nil
}

func (s *Store) ListInteractions(ctx context.Context, userID string, opts storage.ListOptions) ([]interaction.Log, error) {
	column, direction := storage.ResolveSort(storage.InteractionSortFields, opts.SortField, opts.SortOrder, "date")

	builder := psql.
		Select(
			"i.id", "i.user_id", "i.client_id", "i.project_id", "i.type", "i.notes", "i.date",
			"i.created_at", "i.updated_at",
			"COALESCE(c.name, '') AS client_name",
			"COALESCE(p.title, '') AS project_name",
		).
		From("interaction_logs i").
		LeftJoin("clients c ON c.id = i.client_id").
		LeftJoin("projects p ON p.id = i.project_id").
		Where(sq.Eq{"i.user_id": userID}).
		OrderBy("i." + column + " " + direction)

	if strings.TrimSpace(opts.Search) != "" {
		builder = builder.Where(searchClause(opts.Search, "i.notes", "i.type", "c.name", "p.title"))
	}
	builder = dateRange(builder, "i.date", opts.StartDate, opts.EndDate)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var result []interaction.Log
	if err := s.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) DeleteInteraction(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM interaction_logs WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
