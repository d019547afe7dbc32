package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/OmerBikec/Enid-Beauty/internal/api/respond"
	"github.com/OmerBikec/Enid-Beauty/internal/patients"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Handler serves the public auth routes.
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

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string            `json:"token"`
	User  *patients.Patient `json:"user"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Register(r.Context(), req, mutateOpts(r)...)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRegistration), errors.Is(err, patients.ErrInvalid):
			respond.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, patients.ErrEmailTaken):
			respond.Fail(w, http.StatusConflict, err.Error())
		default:
			respond.Error(w, h.logger, err)
		}
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, user, err := h.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			respond.Fail(w, http.StatusUnauthorized, "check your credentials")
			return
		}
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

func mutateOpts(r *http.Request) []store.MutateOption {
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		return []store.MutateOption{store.WithIdempotencyKey(key)}
	}
	return nil
}
