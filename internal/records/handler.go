package records

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

// Handler serves the service-record routes.
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

// List handles GET /records.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	respond.JSON(w, http.StatusOK, h.svc.List(ident))
}

// Watch handles GET /records/watch (websocket).
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	stream.Snapshots(w, r, h.logger, func(deliver func([]*ServiceRecord)) func() {
		return h.svc.Watch(ident, deliver)
	})
}

// Create handles POST /records.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var rec ServiceRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Create(r.Context(), ident, &rec, mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	h.logger.Info("service record created", "record_id", created.ID, "user_id", created.UserID)
	respond.JSON(w, http.StatusCreated, created)
}

// Update handles PATCH /records/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var change Update
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.svc.Update(r.Context(), ident, chi.URLParam(r, "id"), change, mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// IncrementSession handles POST /records/{id}/sessions.
func (h *Handler) IncrementSession(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	updated, err := h.svc.IncrementSession(r.Context(), ident, chi.URLParam(r, "id"), mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrCourseComplete) {
			respond.Fail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /records/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	if err := h.svc.Delete(r.Context(), ident, chi.URLParam(r, "id"), mutateOpts(r)...); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func mutateOpts(r *http.Request) []store.MutateOption {
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		return []store.MutateOption{store.WithIdempotencyKey(key)}
	}
	return nil
}
