package postgres

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/storage"
)

// projectColumns selects project rows with the owning client's name
// embedded. Every query joins through clients so the relation is always
// present in responses.
const projectColumns = `
	p.id, p.user_id, p.client_id, p.title, p.budget, p.start_date, p.deadline,
	p.status, p.created_at, p.updated_at, c.name AS client_name
`

func (s *Store) CreateProject(ctx context.Context, p project.Project) (project.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, client_id, title, budget, start_date, deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.UserID, p.ClientID, p.Title, p.Budget, p.StartDate, p.Deadline, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return project.Project{}, err
	}
	return s.GetProject(ctx, p.ID, p.UserID)
}

func (s *Store) UpdateProject(ctx context.Context, p project.Project) (project.Project, error) {
	existing, err := s.GetProject(ctx, p.ID, p.UserID)
	if err != nil {
		return project.Project{}, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET client_id = $3, title = $4, budget = $5, start_date = $6, deadline = $7, status = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
	`, p.ID, p.UserID, p.ClientID, p.Title, p.Budget, p.StartDate, p.Deadline, p.Status, p.UpdatedAt)
	if err != nil {
		return project.Project{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return project.Project{}, storage.ErrNotFound
	}
	return s.GetProject(ctx, p.ID, p.UserID)
}

func (s *Store) GetProject(ctx context.Context, id, userID string) (project.Project, error) {
	var p project.Project
	err := s.db.GetContext(ctx, &p, `
		SELECT `+projectColumns+`
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1 AND p.user_id = $2
	`, id, userID)
	if err != nil {
		return project.Project{}, notFound(err)
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context, userID string, opts storage.ListOptions) ([]project.Project, error) {
	column, direction := storage.ResolveSort(storage.ProjectSortFields, opts.SortField, opts.SortOrder, "created_at")

	builder := psql.
		Select(
			"p.id", "p.user_id", "p.client_id", "p.title", "p.budget", "p.start_date",
			"p.deadline", "p.status", "p.created_at", "p.updated_at", "c.name AS client_name",
		).
		From("projects p").
		Join("clients c ON c.id = p.client_id").
		Where(sq.Eq{"p.user_id": userID}).
		OrderBy("p." + column + " " + direction)

	if strings.TrimSpace(opts.Search) != "" {
		builder = builder.Where(searchClause(opts.Search, "p.title", "c.name", "p.status"))
	}
	builder = dateRange(builder, "p.created_at", opts.StartDate, opts.EndDate)

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

func (s *Store) DeleteProject(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM projects WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
