// Package dashboardsvc composes the read-only dashboard summary from the
// independent aggregate queries of a DashboardStore. Sub-queries run
// concurrently and any failure fails the whole summary.
package dashboardsvc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clientdesk/clientdesk/internal/app/domain/dashboard"
	"github.com/clientdesk/clientdesk/internal/app/domain/reminder"
	"github.com/clientdesk/clientdesk/internal/app/storage"
	apperrors "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

const (
	// DefaultTopLimit bounds the ranked client lists.
	DefaultTopLimit = 5
	// DefaultRecentLimit bounds the recent-activity lists.
	DefaultRecentLimit = 5
	// UpcomingWindow is how far ahead a pending reminder still counts as
	// upcoming rather than merely pending.
	UpcomingWindow = 7 * 24 * time.Hour
)

// Service assembles dashboard summaries.
type Service struct {
	store storage.DashboardStore
	log   *logger.Logger
	now   func() time.Time
}

// New constructs a dashboard service.
func New(store storage.DashboardStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("dashboard")
	}
	return &Service{store: store, log: log, now: time.Now}
}

// Summary runs every aggregate query for the user concurrently and merges
// the results. The reminder buckets are classified against a single
// sampled clock so a reminder cannot land in two buckets.
func (s *Service) Summary(ctx context.Context, f dashboard.Filter) (dashboard.Summary, error) {
	started := s.now()
	var out dashboard.Summary

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.CountClients(gctx, f)
		out.Totals.Clients = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountProjects(gctx, f)
		out.Totals.Projects = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountInteractions(gctx, f)
		out.Totals.Interactions = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountReminders(gctx, f)
		out.Totals.Reminders = n
		return err
	})
	g.Go(func() error {
		v, err := s.store.ProjectsByStatus(gctx, f)
		out.ProjectsByStatus = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.InteractionsByType(gctx, f)
		out.InteractionsByType = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.TopClientsByBudget(gctx, f, DefaultTopLimit)
		out.TopClientsByBudget = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.TopClientsByProjectCount(gctx, f, DefaultTopLimit)
		out.TopClientsByCount = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.RecentClients(gctx, f, DefaultRecentLimit)
		out.RecentClients = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.RecentProjects(gctx, f, DefaultRecentLimit)
		out.RecentProjects = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.RecentInteractions(gctx, f, DefaultRecentLimit)
		out.RecentInteractions = v
		return err
	})

	var pending []reminder.Reminder
	g.Go(func() error {
		v, err := s.store.PendingReminders(gctx, f)
		pending = v
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).WithField("user_id", f.UserID).Error("dashboard assembly failed")
		return dashboard.Summary{}, apperrors.Storage(err)
	}

	out.Reminders = bucketReminders(pending, started)
	out.GeneratedAt = started

	s.log.WithField("user_id", f.UserID).
		WithField("elapsed", s.now().Sub(started).String()).
		Debug("dashboard assembled")
	return out, nil
}

func bucketReminders(pending []reminder.Reminder, now time.Time) dashboard.ReminderBuckets {
	buckets := dashboard.ReminderBuckets{
		Upcoming: []reminder.Reminder{},
		Pending:  []reminder.Reminder{},
		Overdue:  []reminder.Reminder{},
	}
	until := now.Add(UpcomingWindow)
	for _, r := range pending {
		switch {
		case r.Overdue(now):
			buckets.Overdue = append(buckets.Overdue, r)
		case r.Upcoming(now, until):
			buckets.Upcoming = append(buckets.Upcoming, r)
		default:
			buckets.Pending = append(buckets.Pending, r)
		}
	}
	return buckets
}
