package staff

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

// Handler serves the personnel directory routes.
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

// List handles GET /staff.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.List())
}

// Watch handles GET /staff/watch (websocket).
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	stream.Snapshots(w, r, h.logger, func(deliver func([]*Member)) func() {
		return h.svc.Watch(deliver)
	})
}

// Add handles POST /staff.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var m Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Add(r.Context(), ident, &m, mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Delete handles DELETE /staff/{id}.
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
