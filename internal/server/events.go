package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/saleshq/calapi/internal/auth"
	"github.com/saleshq/calapi/internal/db/models"
	"github.com/saleshq/calapi/internal/services/event"
)

// EventHandlers serves the calendar-event resource. Handlers run only after
// the full gate chain has passed and are trusted to use the bound company id
// as the exclusive scope for every data access.
type EventHandlers struct {
	service   *event.Service
	validator *BodyValidator
	logger    *zap.Logger
}

// NewEventHandlers constructs the handler set.
func NewEventHandlers(service *event.Service, validator *BodyValidator, logger *zap.Logger) *EventHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandlers{service: service, validator: validator, logger: logger}
}

// eventResponse is the wire shape of one event.
type eventResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toEventResponse(e *models.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Title:     e.Title,
		Location:  e.Location,
		Notes:     e.Notes,
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// requestScope pulls the pipeline-populated context values a handler relies
// on. Absence is an order violation surfaced as a logged 500; it cannot occur
// when the route is mounted through the pipeline composer.
func (h *EventHandlers) requestScope(w http.ResponseWriter, r *http.Request) (companyID string, principal auth.Principal, ok bool) {
	ctx := r.Context()

	principal, hasPrincipal := auth.PrincipalFromContext(ctx)
	companyID, hasCompany := auth.CompanyIDFromContext(ctx)
	if !hasPrincipal || !hasCompany {
		h.logger.Error("handler invoked without pipeline context",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Bool("has_principal", hasPrincipal),
			zap.Bool("has_company", hasCompany),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", auth.Principal{}, false
	}

	return companyID, principal, true
}

// validatedEventID pulls the id the object-identifier gate recorded.
func (h *EventHandlers) validatedEventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID, ok := auth.EventIDFromContext(r.Context())
	if !ok {
		h.logger.Error("handler invoked without validated event id",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	return eventID, true
}

// HandleList serves GET /api/events.
func (h *EventHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	events, err := h.service.List(r.Context(), companyID, filter)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	responses := make([]eventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": responses})
}

// HandleCreate serves POST /api/events.
func (h *EventHandlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	companyID, principal, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	input, err := h.validator.DecodeEvent(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	created, err := h.service.Create(r.Context(), companyID, principal.UserID, input)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(created))
}

// HandleGet serves GET /api/events/{eventID}.
func (h *EventHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	eventID, ok := h.validatedEventID(w, r)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), companyID, eventID)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(found))
}

// HandleUpdate serves PUT /api/events/{eventID}.
func (h *EventHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	eventID, ok := h.validatedEventID(w, r)
	if !ok {
		return
	}

	input, err := h.validator.DecodeEvent(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	updated, err := h.service.Update(r.Context(), companyID, eventID, input)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(updated))
}

// HandleDelete serves DELETE /api/events/{eventID}.
func (h *EventHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	eventID, ok := h.validatedEventID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), companyID, eventID); err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// filterFromQuery parses the optional from/to RFC3339 window and limit.
func filterFromQuery(r *http.Request) (event.Filter, error) {
	var filter event.Filter
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return event.Filter{}, fmt.Errorf("parse from: %w", err)
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return event.Filter{}, fmt.Errorf("parse to: %w", err)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return event.Filter{}, errors.New("to must be after from")
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return event.Filter{}, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}
