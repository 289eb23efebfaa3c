package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/dashboard"
	"github.com/clientdesk/clientdesk/internal/app/domain/interaction"
	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
)

// filterRange applies the dashboard date window to the given column.
func filterRange(b sq.SelectBuilder, column string, f dashboard.Filter) sq.SelectBuilder {
	return dateRange(b, column, f.StartDate, f.EndDate)
}

func (s *Store) scopedCount(ctx context.Context, table, userColumn, dateColumn string, f dashboard.Filter) (int64, error) {
	builder := psql.
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{userColumn: f.UserID})
	builder = filterRange(builder, dateColumn, f)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CountClients(ctx context.Context, f dashboard.Filter) (int64, error) {
	return s.scopedCount(ctx, "clients", "user_id", "created_at", f)
}

func (s *Store) CountProjects(ctx context.Context, f dashboard.Filter) (int64, error) {
	return s.scopedCount(ctx, "projects", "user_id", "created_at", f)
}

func (s *Store) CountInteractions(ctx context.Context, f dashboard.Filter) (int64, error) {
	return s.scopedCount(ctx, "interaction_logs", "user_id", "date", f)
}

func (s *Store) CountReminders(ctx context.Context, f dashboard.Filter) (int64, error) {
	return s.scopedCount(ctx, "reminders", "user_id", "due_date", f)
}

func (s *Store) groupedCount(ctx context.Context, table, groupColumn, dateColumn string, f dashboard.Filter) ([]dashboard.StatusCount, error) {
	builder := psql.
		Select(groupColumn+" AS key", "COUNT(*) AS count").
		From(table).
		Where(sq.Eq{"user_id": f.UserID}).
		GroupBy(groupColumn).
		OrderBy("count DESC", "key ASC")
	builder = filterRange(builder, dateColumn, f)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var result []dashboard.StatusCount
	if err := s.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) ProjectsByStatus(ctx context.Context, f dashboard.Filter) ([]dashboard.StatusCount, error) {
	return s.groupedCount(ctx, "projects", "status", "created_at", f)
}

func (s *Store) InteractionsByType(ctx context.Context, f dashboard.Filter) ([]dashboard.StatusCount, error) {
	return s.groupedCount(ctx, "interaction_logs", "type", "date", f)
}

func (s *Store) topClients(ctx context.Context, f dashboard.Filter, limit int, orderBy string) ([]dashboard.ClientRollup, error) {
	if limit <= 0 {
		limit = 5
	}
	builder := psql.
		Select(
			"p.client_id",
			"c.name AS client_name",
			"COALESCE(SUM(p.budget), 0) AS total_budget",
			"COUNT(p.id) AS project_count",
		).
		From("projects p").
		Join("clients c ON c.id = p.client_id").
		Where(sq.Eq{"p.user_id": f.UserID}).
		GroupBy("p.client_id", "c.name").
		OrderBy(orderBy, "client_name ASC").
		Limit(uint64(limit))
	builder = filterRange(builder, "p.created_at", f)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var result []dashboard.ClientRollup
	if err := s.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) TopClientsByBudget(ctx context.Context, f dashboard.Filter, limit int) ([]dashboard.ClientRollup, error) {
	return s.topClients(ctx, f, limit, "total_budget DESC")
}

func (s *Store) TopClientsByProjectCount(ctx context.Context, f dashboard.Filter, limit int) ([]dashboard.ClientRollup, error) {
	return s.topClients(ctx, f, limit, "project_count DESC")
}

func (s *Store) RecentClients(ctx context.Context, f dashboard.Filter, limit int) ([]client.Client, error) {
	if limit <= 0 {
		limit = 5
	}
	builder := psql.
		Select("id", "user_id", "name", "email", "phone", "company", "notes", "created_at", "updated_at").
		From("clients").
		Where(sq.Eq{"user_id": f.UserID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	builder = filterRange(builder, "created_at", f)

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

func (s *Store) RecentProjects(ctx context.Context, f dashboard.Filter, limit int) ([]project.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	builder := psql.
		Select(
			"p.id", "p.user_id", "p.client_id", "p.title", "p.budget", "p.start_date",
			"p.deadline", "p.status", "p.created_at", "p.updated_at", "c.name AS client_name",
		).
		From("projects p").
		Join("clients c ON c.id = p.client_id").
		Where(sq.Eq{"p.user_id": f.UserID}).
		OrderBy("p.created_at DESC").
		Limit(uint64(limit))
	builder = filterRange(builder, "p.created_at", f)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var result []project.Project
	if err := s.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) RecentInteractions(ctx context.Context, f dashboard.Filter, limit int) ([]interaction.Log, error) {
	if limit <= 0 {
		limit = 5
	}
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
		Where(sq.Eq{"i.user_id": f.UserID}).
		OrderBy("i.date DESC").
		Limit(uint64(limit))
	builder = filterRange(builder, "i.date", f)

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

func (s *Store) PendingReminders(ctx context.Context, f dashboard.Filter) ([]reminder.Reminder, error) {
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
		Where(sq.Eq{"r.user_id": f.UserID}).
		Where(sq.Eq{"r.status": reminder.StatusPending}).
		OrderBy("r.due_date ASC")
	builder = filterRange(builder, "r.due_date", f)

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
