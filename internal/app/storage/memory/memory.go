// Package memory provides a thread-safe in-memory implementation of the
// storage interfaces. It is intended for tests and prototyping and keeps the
// same ownership semantics as the postgres store: a row owned by another
// user behaves exactly like an absent row.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clientdesk/clientdesk/internal/app/domain/client"
	"github.com/clientdesk/clientdesk/internal/app/domain/dashboard"
	"github.com/clientdesk/clientdesk/internal/app/domain/interaction"
	"github.com/clientdesk/clientdesk/internal/app/domain/project"
	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
	"github.com/clientdesk/clientdesk/internal/app/domain/user"
	"github.com/clientdesk/clientdesk/internal/app/storage"
)

// Store is the in-memory implementation of every storage interface.
type Store struct {
	mu           sync.RWMutex
	users        map[string]user.User
	sessions     map[string]user.Session
	clients      map[string]client.Client
	projects     map[string]project.Project
	interactions map[string]interaction.Log
	reminders    map[string]reminder.Reminder
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

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[string]user.User),
		sessions:     make(map[string]user.Session),
		clients:      make(map[string]client.Client),
		projects:     make(map[string]project.Project),
		interactions: make(map[string]interaction.Log),
		reminders:    make(map[string]reminder.Reminder),
	}
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, storage.ErrNotFound
}

// --- SessionStore -----------------------------------------------------------

func (s *Store) CreateSession(_ context.Context, sess user.Session) (user.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = time.Now().UTC()
	s.sessions[sess.TokenHash] = sess
	return sess, nil
}

func (s *Store) GetSessionByTokenHash(_ context.Context, tokenHash string) (user.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[tokenHash]
	if !ok {
		return user.Session{}, storage.ErrNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSessionByTokenHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[tokenHash]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, tokenHash)
	return nil
}

// --- ClientStore ------------------------------------------------------------

func (s *Store) CreateClient(_ context.Context, c client.Client) (client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.clients[c.ID] = c
	return c, nil
}

func (s *Store) UpdateClient(_ context.Context, c client.Client) (client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.clients[c.ID]
	if !ok || existing.UserID != c.UserID {
		return client.Client{}, storage.ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.clients[c.ID] = c
	return c, nil
}

func (s *Store) GetClient(_ context.Context, id, userID string) (client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return client.Client{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListClients(_ context.Context, userID string, opts storage.ListOptions) ([]client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []client.Client
	for _, c := range s.clients {
		if c.UserID != userID {
			continue
		}
		if !matches(opts.Search, c.Name, c.Email, c.Company) {
			continue
		}
		if !inRange(c.CreatedAt, opts.StartDate, opts.EndDate) {
			continue
		}
		result = append(result, c)
	}

	column, direction := storage.ResolveSort(storage.ClientSortFields, opts.SortField, opts.SortOrder, "created_at")
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		var less bool
		switch column {
		case "name":
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "email":
			less = strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "company":
			less = strings.ToLower(a.Company) < strings.ToLower(b.Company)
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if direction == "DESC" {
			return !less
		}
		return less
	})
	return result, nil
}

func (s *Store) DeleteClient(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.clients, id)
	return nil
}

// --- ProjectStore -----------------------------------------------------------

func (s *Store) CreateProject(_ context.Context, p project.Project) (project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.ClientName = ""
	s.projects[p.ID] = p
	return s.decorateProjectLocked(p), nil
}

func (s *Store) UpdateProject(_ context.Context, p project.Project) (project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[p.ID]
	if !ok || existing.UserID != p.UserID {
		return project.Project{}, storage.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.ClientName = ""
	s.projects[p.ID] = p
	return s.decorateProjectLocked(p), nil
}

func (s *Store) GetProject(_ context.Context, id, userID string) (project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok || p.UserID != userID {
		return project.Project{}, storage.ErrNotFound
	}
	return s.decorateProjectLocked(p), nil
}

func (s *Store) ListProjects(_ context.Context, userID string, opts storage.ListOptions) ([]project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []project.Project
	for _, p := range s.projects {
		if p.UserID != userID {
			continue
		}
		decorated := s.decorateProjectLocked(p)
		if !matches(opts.Search, decorated.Title, decorated.ClientName, string(decorated.Status)) {
			continue
		}
		if !inRange(decorated.CreatedAt, opts.StartDate, opts.EndDate) {
			continue
		}
		result = append(result, decorated)
	}

	column, direction := storage.ResolveSort(storage.ProjectSortFields, opts.SortField, opts.SortOrder, "created_at")
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		var less bool
		switch column {
		case "title":
			less = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "budget":
			less = a.Budget < b.Budget
		case "deadline":
			less = timePtrBefore(a.Deadline, b.Deadline)
		case "status":
			less = a.Status < b.Status
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if direction == "DESC" {
			return !less
		}
		return less
	})
	return result, nil
}

func (s *Store) DeleteProject(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok || p.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *Store) decorateProjectLocked(p project.Project) project.Project {
	if c, ok := s.clients[p.ClientID]; ok {
		p.ClientName = c.Name
	}
	return p
}

func timePtrBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

// --- InteractionStore -------------------------------------------------------

func (s *Store) CreateInteraction(_ context.Context, l interaction.Log) (interaction.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.ClientName, l.ProjectName = "", ""
	s.interactions[l.ID] = l
	return s.decorateInteractionLocked(l), nil
}

func (s *Store) UpdateInteraction(_ context.Context, l interaction.Log) (interaction.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.interactions[l.ID]
	if !ok || existing.UserID != l.UserID {
		return interaction.Log{}, storage.ErrNotFound
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = time.Now().UTC()
	l.ClientName, l.ProjectName = "", ""
	s.interactions[l.ID] = l
	return s.decorateInteractionLocked(l), nil
}

func (s *Store) GetInteraction(_ context.Context, id, userID string) (interaction.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.interactions[id]
	if !ok || l.UserID != userID {
		return interaction.Log{}, storage.ErrNotFound
	}
	return s.decorateInteractionLocked(l), nil
}

func (s *Store) ListInteractions(_ context.Context, userID string, opts storage.ListOptions) ([]interaction.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []interaction.Log
	for _, l := range s.interactions {
		if l.UserID != userID {
			continue
		}
		decorated := s.decorateInteractionLocked(l)
		if !matches(opts.Search, decorated.Notes, string(decorated.Type), decorated.ClientName, decorated.ProjectName) {
			continue
		}
		if !inRange(decorated.Date, opts.StartDate, opts.EndDate) {
			continue
		}
		result = append(result, decorated)
	}

	column, direction := storage.ResolveSort(storage.InteractionSortFields, opts.SortField, opts.SortOrder, "date")
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		var less bool
		switch column {
		case "type":
			less = a.Type < b.Type
		case "created_at":
			less = a.CreatedAt.Before(b.CreatedAt)
		default:
			less = a.Date.Before(b.Date)
		}
		if direction == "DESC" {
			return !less
		}
		return less
	})
	return result, nil
}

func (s *Store) DeleteInteraction(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.interactions[id]
	if !ok || l.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.interactions, id)
	return nil
}

func (s *Store) decorateInteractionLocked(l interaction.Log) interaction.Log {
	if l.ClientID != nil {
		if c, ok := s.clients[*l.ClientID]; ok {
			l.ClientName = c.Name
		}
	}
	if l.ProjectID != nil {
		if p, ok := s.projects[*l.ProjectID]; ok {
			l.ProjectName = p.Title
		}
	}
	return l
}

// --- ReminderStore ----------------------------------------------------------

func (s *Store) CreateReminder(_ context.Context, r reminder.Reminder) (reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.ClientName, r.ProjectName = "", ""
	s.reminders[r.ID] = r
	return s.decorateReminderLocked(r), nil
}

func (s *Store) UpdateReminder(_ context.Context, r reminder.Reminder) (reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reminders[r.ID]
	if !ok || existing.UserID != r.UserID {
		return reminder.Reminder{}, storage.ErrNotFound
	}
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	r.ClientName, r.ProjectName = "", ""
	s.reminders[r.ID] = r
	return s.decorateReminderLocked(r), nil
}

func (s *Store) GetReminder(_ context.Context, id, userID string) (reminder.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reminders[id]
	if !ok || r.UserID != userID {
		return reminder.Reminder{}, storage.ErrNotFound
	}
	return s.decorateReminderLocked(r), nil
}

func (s *Store) ListReminders(_ context.Context, userID string, opts storage.ListOptions) ([]reminder.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []reminder.Reminder
	for _, r := range s.reminders {
		if r.UserID != userID {
			continue
		}
		decorated := s.decorateReminderLocked(r)
		if !matches(opts.Search, decorated.Title, decorated.Notes, decorated.ClientName, decorated.ProjectName) {
			continue
		}
		if !inRange(decorated.DueDate, opts.StartDate, opts.EndDate) {
			continue
		}
		result = append(result, decorated)
	}

	column, direction := storage.ResolveSort(storage.ReminderSortFields, opts.SortField, opts.SortOrder, "due_date")
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		var less bool
		switch column {
		case "title":
			less = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "status":
			less = a.Status < b.Status
		case "created_at":
			less = a.CreatedAt.Before(b.CreatedAt)
		default:
			less = a.DueDate.Before(b.DueDate)
		}
		if direction == "DESC" {
			return !less
		}
		return less
	})
	return result, nil
}

func (s *Store) DeleteReminder(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok || r.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.reminders, id)
	return nil
}

func (s *Store) decorateReminderLocked(r reminder.Reminder) reminder.Reminder {
	if r.ClientID != nil {
		if c, ok := s.clients[*r.ClientID]; ok {
			r.ClientName = c.Name
		}
	}
	if r.ProjectID != nil {
		if p, ok := s.projects[*r.ProjectID]; ok {
			r.ProjectName = p.Title
		}
	}
	return r
}

// --- DashboardStore ---------------------------------------------------------

func (s *Store) CountClients(_ context.Context, f dashboard.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.clients {
		if c.UserID == f.UserID && inRange(c.CreatedAt, f.StartDate, f.EndDate) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountProjects(_ context.Context, f dashboard.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.projects {
		if p.UserID == f.UserID && inRange(p.CreatedAt, f.StartDate, f.EndDate) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountInteractions(_ context.Context, f dashboard.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, l := range s.interactions {
		if l.UserID == f.UserID && inRange(l.Date, f.StartDate, f.EndDate) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountReminders(_ context.Context, f dashboard.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.reminders {
		if r.UserID == f.UserID && inRange(r.DueDate, f.StartDate, f.EndDate) {
			n++
		}
	}
	return n, nil
}

func (s *Store) ProjectsByStatus(_ context.Context, f dashboard.Filter) ([]dashboard.StatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range s.projects {
		if p.UserID == f.UserID && inRange(p.CreatedAt, f.StartDate, f.EndDate) {
			counts[string(p.Status)]++
		}
	}
	return sortedCounts(counts), nil
}

func (s *Store) InteractionsByType(_ context.Context, f dashboard.Filter) ([]dashboard.StatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, l := range s.interactions {
		if l.UserID == f.UserID && inRange(l.Date, f.StartDate, f.EndDate) {
			counts[string(l.Type)]++
		}
	}
	return sortedCounts(counts), nil
}

func sortedCounts(counts map[string]int64) []dashboard.StatusCount {
	result := make([]dashboard.StatusCount, 0, len(counts))
	for k, v := range counts {
		result = append(result, dashboard.StatusCount{Key: k, Count: v})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Key < result[j].Key
	})
	return result
}

func (s *Store) clientRollupsLocked(f dashboard.Filter) []dashboard.ClientRollup {
	byClient := make(map[string]*dashboard.ClientRollup)
	for _, p := range s.projects {
		if p.UserID != f.UserID || !inRange(p.CreatedAt, f.StartDate, f.EndDate) {
			continue
		}
		roll, ok := byClient[p.ClientID]
		if !ok {
			name := ""
			if c, exists := s.clients[p.ClientID]; exists {
				name = c.Name
			}
			roll = &dashboard.ClientRollup{ClientID: p.ClientID, ClientName: name}
			byClient[p.ClientID] = roll
		}
		roll.TotalBudget += p.Budget
		roll.ProjectCount++
	}

	result := make([]dashboard.ClientRollup, 0, len(byClient))
	for _, roll := range byClient {
		result = append(result, *roll)
	}
	return result
}

func (s *Store) TopClientsByBudget(_ context.Context, f dashboard.Filter, limit int) ([]dashboard.ClientRollup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rollups := s.clientRollupsLocked(f)
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].TotalBudget != rollups[j].TotalBudget {
			return rollups[i].TotalBudget > rollups[j].TotalBudget
		}
		return rollups[i].ClientName < rollups[j].ClientName
	})
	if limit > 0 && len(rollups) > limit {
		rollups = rollups[:limit]
	}
	return rollups, nil
}

func (s *Store) TopClientsByProjectCount(_ context.Context, f dashboard.Filter, limit int) ([]dashboard.ClientRollup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rollups := s.clientRollupsLocked(f)
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].ProjectCount != rollups[j].ProjectCount {
			return rollups[i].ProjectCount > rollups[j].ProjectCount
		}
		return rollups[i].ClientName < rollups[j].ClientName
	})
	if limit > 0 && len(rollups) > limit {
		rollups = rollups[:limit]
	}
	return rollups, nil
}

func (s *Store) RecentClients(_ context.Context, f dashboard.Filter, limit int) ([]client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []client.Client
	for _, c := range s.clients {
		if c.UserID == f.UserID && inRange(c.CreatedAt, f.StartDate, f.EndDate) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) RecentProjects(_ context.Context, f dashboard.Filter, limit int) ([]project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []project.Project
	for _, p := range s.projects {
		if p.UserID == f.UserID && inRange(p.CreatedAt, f.StartDate, f.EndDate) {
			result = append(result, s.decorateProjectLocked(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) RecentInteractions(_ context.Context, f dashboard.Filter, limit int) ([]interaction.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []interaction.Log
	for _, l := range s.interactions {
		if l.UserID == f.UserID && inRange(l.Date, f.StartDate, f.EndDate) {
			result = append(result, s.decorateInteractionLocked(l))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) PendingReminders(_ context.Context, f dashboard.Filter) ([]reminder.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []reminder.Reminder
	for _, r := range s.reminders {
		if r.UserID == f.UserID && r.Status == reminder.StatusPending && inRange(r.DueDate, f.StartDate, f.EndDate) {
			result = append(result, s.decorateReminderLocked(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}
