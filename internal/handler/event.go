package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seatwise/seatwise/internal/model"
)

// EventService is the event-management surface consumed by the HTTP layer.
type EventService interface {
	Create(ctx context.Context, actorID string, req model.EventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error)
	SearchByTitle(ctx context.Context, title string) ([]model.Event, error)
	SearchByLocation(ctx context.Context, location string) ([]model.Event, error)
	Update(ctx context.Context, actorID, id string, req model.EventRequest) (*model.Event, error)
	Delete(ctx context.Context, actorID, id string) error
}

// EventHandler holds the HTTP handlers for the event API.
type EventHandler struct {
	svc EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Routes mounts the event endpoints.
func (h *EventHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Get("/organizer/{organizerId}", h.ListByOrganizer)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/search/title/{title}", h.SearchByTitle)
	r.Get("/search/location/{location}", h.SearchByLocation)
}

// actorID identifies the caller for admin-gated mutations. Event creation
// uses the organizer from the payload (the organizer must be the admin
// creating the event); update/delete read the X-User-ID header.
func actorID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// Create handles POST /api/events — admin only.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.OrganizerID == "" {
		writeError(w, http.StatusBadRequest, "organizer_id is required")
		return
	}

	event, err := h.svc.Create(r.Context(), req.OrganizerID, req)
	if err != nil {
		writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Event, error) {
		return h.svc.List(ctx)
	})
}

// GetByID handles GET /api/events/{id}
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ListByOrganizer handles GET /api/events/organizer/{organizerId}
func (h *EventHandler) ListByOrganizer(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Event, error) {
		return h.svc.ListByOrganizer(ctx, chi.URLParam(r, "organizerId"))
	})
}

// Update handles PUT /api/events/{id} — admin only.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Update(r.Context(), actorID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeEventError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/events/{id} — admin only.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		writeEventError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchByTitle handles GET /api/events/search/title/{title}
func (h *EventHandler) SearchByTitle(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Event, error) {
		return h.svc.SearchByTitle(ctx, chi.URLParam(r, "title"))
	})
}

// SearchByLocation handles GET /api/events/search/location/{location}
func (h *EventHandler) SearchByLocation(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Event, error) {
		return h.svc.SearchByLocation(ctx, chi.URLParam(r, "location"))
	})
}

func (h *EventHandler) writeList(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context) ([]model.Event, error)) {
	events, err := fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrEventNotFound),
		errors.Is(err, model.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
