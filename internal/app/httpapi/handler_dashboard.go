package httpapi

import (
	"net/http"
	"time"

	"github.com/clientdesk/clientdesk/internal/app/metrics"
)

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	filter, err := parseDashboardFilter(r, userID)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	start := time.Now()
	summary, err := h.app.Dashboard.Summary(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordDashboardAssembly(time.Since(start))

	writeJSON(w, http.StatusOK, summary)
}
