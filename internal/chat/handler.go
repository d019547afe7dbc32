package chat

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

// Handler serves the support chat routes.
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

type sendRequest struct {
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	Text        string `json:"text"`
}

// List handles GET /chat/messages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	respond.JSON(w, http.StatusOK, h.svc.List(ident))
}

// Thread handles GET /chat/threads/{patientID}.
func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	msgs, err := h.svc.Thread(ident, chi.URLParam(r, "patientID"))
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, msgs)
}

// Watch handles GET /chat/watch (websocket).
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	stream.Snapshots(w, r, h.logger, func(deliver func([]*Message)) func() {
		return h.svc.Watch(ident, deliver)
	})
}

// Send handles POST /chat/messages.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := h.svc.Send(r.Context(), ident, req.PatientID, req.PatientName, req.Text, mutateOpts(r)...)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			respond.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, msg)
}

// MarkRead handles POST /chat/threads/{patientID}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ident, _ := identity.FromContext(r.Context())
	if err := h.svc.MarkRead(r.Context(), ident, chi.URLParam(r, "patientID")); err != nil {
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
