package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/saleshq/calapi/internal/services/event"
)

// reportRequest is the optional window for POST /api/events/report. An empty
// body means "everything".
type reportRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// reportResponse is the wire shape of the aggregate.
type reportResponse struct {
	CompanyID string     `json:"company_id"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Total     int        `json:"total"`
	Upcoming  int        `json:"upcoming"`
	Past      int        `json:"past"`
}

// HandleReport serves POST /api/events/report: per-company event counts over
// an optional window. Restricted to salesmen by the route policy.
func (h *EventHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	filter, err := reportFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report window")
		return
	}

	report, err := h.service.BuildReport(r.Context(), companyID, filter)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		CompanyID: report.CompanyID,
		From:      report.From,
		To:        report.To,
		Total:     report.Total,
		Upcoming:  report.Upcoming,
		Past:      report.Past,
	})
}

func reportFilter(r *http.Request) (event.Filter, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return event.Filter{}, err
	}
	if len(data) == 0 {
		return event.Filter{}, nil
	}

	var req reportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return event.Filter{}, err
	}

	var filter event.Filter
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return event.Filter{}, err
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return event.Filter{}, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return event.Filter{}, errors.New("to must be after from")
	}

	return filter, nil
}
