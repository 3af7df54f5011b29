package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seatwise/seatwise/internal/model"
)

// RegistrationService is the admission core consumed by the HTTP layer.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID string) (*model.Registration, error)
	Cancel(ctx context.Context, eventID, userID string) error
	Check(ctx context.Context, eventID, userID string) (*model.RegistrationCheck, error)
	RegistrationCount(ctx context.Context, eventID string) (int, error)
	RemainingCapacity(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]model.Registration, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]model.Registration, error)
}

// RegistrationHandler holds the HTTP handlers for the registration API.
type RegistrationHandler struct {
	svc RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// Routes mounts the registration endpoints.
func (h *RegistrationHandler) Routes(r chi.Router) {
	r.Post("/", h.Register)
	r.Delete("/", h.Cancel)
	r.Get("/event/{eventId}", h.ListByEvent)
	r.Get("/user/{userId}", h.ListByUser)
	r.Get("/organizer/{organizerId}", h.ListByOrganizer)
	r.Get("/check", h.Check)
	r.Get("/stats/{eventId}", h.Stats)
}

// Register handles POST /api/registrations
// Performs a concurrency-safe admission for the (event, user) pair.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "event_id and user_id are required")
		return
	}

	reg, err := h.svc.Register(r.Context(), req.EventID, req.UserID)
	if err != nil {
		writeRegistrationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// Cancel handles DELETE /api/registrations
// Flips the registration to CANCELLED, freeing the seat.
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req model.RegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "event_id and user_id are required")
		return
	}

	if err := h.svc.Cancel(r.Context(), req.EventID, req.UserID); err != nil {
		writeRegistrationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registration cancelled"})
}

// ListByEvent handles GET /api/registrations/event/{eventId}
func (h *RegistrationHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Registration, error) {
		return h.svc.ListByEvent(ctx, chi.URLParam(r, "eventId"))
	})
}

// ListByUser handles GET /api/registrations/user/{userId}
func (h *RegistrationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Registration, error) {
		return h.svc.ListByUser(ctx, chi.URLParam(r, "userId"))
	})
}

// ListByOrganizer handles GET /api/registrations/organizer/{organizerId}
// Returns registrations for every event organized by the given user.
func (h *RegistrationHandler) ListByOrganizer(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.Registration, error) {
		return h.svc.ListByOrganizer(ctx, chi.URLParam(r, "organizerId"))
	})
}

// Check handles GET /api/registrations/check?eventId=...&userId=...
func (h *RegistrationHandler) Check(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	userID := r.URL.Query().Get("userId")
	if eventID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "eventId and userId query parameters are required")
		return
	}

	check, err := h.svc.Check(r.Context(), eventID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check registration")
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// Stats handles GET /api/registrations/stats/{eventId}
func (h *RegistrationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	count, err := h.svc.RegistrationCount(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get registration stats")
		return
	}
	remaining, err := h.svc.RemainingCapacity(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get registration stats")
		return
	}
	writeJSON(w, http.StatusOK, model.RegistrationStats{
		TotalRegistrations: count,
		RemainingCapacity:  remaining,
	})
}

func (h *RegistrationHandler) writeList(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context) ([]model.Registration, error)) {
	regs, err := fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

func writeRegistrationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEventNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrRegistrationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrEventFull),
		errors.Is(err, model.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrEventInPast),
		errors.Is(err, model.ErrOrganizerSelfRegister):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
