package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/domain/dashboard"
	"github.com/clientdesk/clientdesk/internal/app/storage"
)

// parseDate accepts a bare date or a full RFC3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a valid date (want 2006-01-02 or RFC3339)", raw)
	}
	return t, nil
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

// parseListOptions extracts the common list query parameters. Unknown sort
// fields are left for the store's allow-list to resolve to the default.
func parseListOptions(r *http.Request) (storage.ListOptions, error) {
	q := r.URL.Query()
	opts := storage.ListOptions{
		Search:    strings.TrimSpace(q.Get("search")),
		SortField: q.Get("sortField"),
		SortOrder: q.Get("sortOrder"),
	}

	start, err := parseDateParam(r, "startDate")
	if err != nil {
		return storage.ListOptions{}, err
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		return storage.ListOptions{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return storage.ListOptions{}, fmt.Errorf("endDate must not precede startDate")
	}
	opts.StartDate = start
	opts.EndDate = end
	return opts, nil
}

func parseDashboardFilter(r *http.Request, userID string) (dashboard.Filter, error) {
	start, err := parseDateParam(r, "startDate")
	if err != nil {
		return dashboard.Filter{}, err
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		return dashboard.Filter{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return dashboard.Filter{}, fmt.Errorf("endDate must not precede startDate")
	}
	return dashboard.Filter{UserID: userID, StartDate: start, EndDate: end}, nil
}
