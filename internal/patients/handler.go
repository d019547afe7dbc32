package patients

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

// Handler serves the patient directory and the self-service profile routes.
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

// List handles GET /patients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	list, err := h.svc.List(ident)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Watch handles GET /patients/watch (websocket).
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	if !ident.IsAdmin() {
		respond.Error(w, h.logger, identity.ErrForbidden)
		return
	}
	stream.Snapshots(w, r, h.logger, func(deliver func([]*Patient)) func() {
		cancel, _ := h.svc.Watch(ident, deliver)
		return cancel
	})
}

// Create handles POST /patients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var p Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Create(r.Context(), ident, &p, mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) || errors.Is(err, ErrEmailTaken) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	h.logger.Info("patient created", "patient_id", created.ID, "actor", ident.UserID)
	respond.JSON(w, http.StatusCreated, created)
}

// Update handles PATCH /patients/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, chi.URLParam(r, "id"))
}

// Delete handles DELETE /patients/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	if err := h.svc.Delete(r.Context(), ident, chi.URLParam(r, "id"), mutateOpts(r)...); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	p, err := h.svc.Get(r.Context(), ident, ident.UserID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// UpdateMe handles PATCH /me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	h.update(w, r, ident.UserID)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	ident, _ := identity.FromContext(r.Context())
	var change Update
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.svc.Update(r.Context(), ident, id, change, mutateOpts(r)...)
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

// mutateOpts picks up the client idempotency key when supplied.
func mutateOpts(r *http.Request) []store.MutateOption {
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		return []store.MutateOption{store.WithIdempotencyKey(key)}
	}
	return nil
}
