package payments

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

// Handler serves the payment routes.
type Handler struct {
	svc    *Service
	names  NameResolver
	logger *logging.Logger
}

// NameResolver supplies the patient display name stored on new payments.
type NameResolver func(userID string) string

func NewHandler(svc *Service, names NameResolver, logger *logging.Logger) *Handler {
	if names == nil {
		names = func(string) string { return "" }
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, names: names, logger: logger}
}

// List handles GET /payments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	respond.JSON(w, http.StatusOK, h.svc.List(ident))
}

// Watch handles GET /payments/watch (websocket).
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	stream.Snapshots(w, r, h.logger, func(deliver func([]*Payment)) func() {
		return h.svc.Watch(ident, deliver)
	})
}

// Submit handles POST /payments.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Submit(r.Context(), ident, req, h.names(ident.UserID), mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	h.logger.Info("payment submitted", "payment_id", created.ID, "user_id", created.UserID, "amount_cents", created.AmountCents)
	respond.JSON(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status  Status `json:"status"`
	Version int64  `json:"version,omitempty"`
}

// UpdateStatus handles PATCH /payments/{id}/status.
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

func mutateOpts(r *http.Request) []store.MutateOption {
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		return []store.MutateOption{store.WithIdempotencyKey(key)}
	}
	return nil
}
