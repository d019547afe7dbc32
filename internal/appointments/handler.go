package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/OmerBikec/Enid-Beauty/internal/api/respond"
	"github.com/OmerBikec/Enid-Beauty/internal/api/stream"
	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Handler serves the appointment routes.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	respond.JSON(w, http.StatusOK, h.svc.List(ident))
}

// Watch handles GET /appointments/watch (websocket).
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	stream.Snapshots(w, r, h.logger, func(deliver func([]*Appointment)) func() {
		return h.svc.Watch(ident, deliver)
	})
}

// Book handles POST /appointments.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var appt Appointment
	if err := json.NewDecoder(r.Body).Decode(&appt); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Book(r.Context(), ident, &appt, mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	h.logger.Info("appointment booked", "appointment_id", created.ID, "user_id", created.UserID)
	respond.JSON(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status  Status `json:"status"`
	Version int64  `json:"version,omitempty"`
}

// UpdateStatus handles PATCH /appointments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	opts := mutateOpts(r)
	if req.Version > 0 {
		opts = append(opts, store.WithExpectedVersion(req.Version))
	}
	updated, err := h.svc.UpdateStatus(r.Context(), ident, chi.URLParam(r, "id"), req.Status, opts...)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			respond.Fail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

type priceRequest struct {
	PriceCents int64 `json:"price_cents"`
}

// SetPrice handles PATCH /appointments/{id}/price.
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.svc.SetPrice(r.Context(), ident, chi.URLParam(r, "id"), req.PriceCents, mutateOpts(r)...)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func mutateOpts(r *http.Request) []store.MutateOption {
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		return []store.MutateOption{store.WithIdempotencyKey(key)}
	}
	return nil
}
